package car

import (
	"errors"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/services"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services/cardata"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services/spaces"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/response"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/validation"
	"github.com/gofiber/fiber/v2"
)

const maxCarImageSize = 10 * 1024 * 1024 // 10 MB

// CarHandler handles car inventory requests
type CarHandler struct {
	cars         *services.CarService
	carData      *cardata.Client
	spacesClient *spaces.SpacesClient
	validator    *validation.Validator
}

// NewCarHandler creates a new car handler. The cardata client and spaces
// client may be nil; the matching endpoints then report unavailability.
func NewCarHandler(cars *services.CarService, carData *cardata.Client, spacesClient *spaces.SpacesClient) *CarHandler {
	return &CarHandler{
		cars:         cars,
		carData:      carData,
		spacesClient: spacesClient,
		validator:    validation.NewValidator(),
	}
}

// ListCars returns a filtered, paginated car listing
func (h *CarHandler) ListCars(c *fiber.Ctx) error {
	filter := services.CarFilter{
		Make:          c.Query("make"),
		Model:         c.Query("model"),
		YearMin:       c.QueryInt("year_min", 0),
		YearMax:       c.QueryInt("year_max", 0),
		PriceMin:      c.QueryFloat("price_min", 0),
		PriceMax:      c.QueryFloat("price_max", 0),
		AvailableOnly: c.QueryBool("available", false),
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", 20),
	}

	cars, total, err := h.cars.ListCars(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to load cars")
	}

	return response.Paginated(c, cars, response.CalculatePagination(filter.Page, filter.Limit, total))
}

// GetCar returns a single car
func (h *CarHandler) GetCar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid car ID")
	}

	car, err := h.cars.GetCar(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Car not found")
		}
		return response.InternalServerError(c, "Failed to load car")
	}

	return response.Success(c, car)
}

// CreateCar adds a car to the inventory
func (h *CarHandler) CreateCar(c *fiber.Ctx) error {
	var input services.CarInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(input); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	car, err := h.cars.CreateCar(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to create car")
	}

	return response.Created(c, car)
}

// UpdateCar modifies an existing car
func (h *CarHandler) UpdateCar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid car ID")
	}

	var input services.CarInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(input); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	car, err := h.cars.UpdateCar(c.Context(), uint(id), input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Car not found")
		}
		return response.InternalServerError(c, "Failed to update car")
	}

	return response.Success(c, car)
}

// DeleteCar removes a car and its bookings and reviews
func (h *CarHandler) DeleteCar(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid car ID")
	}

	if err := h.cars.DeleteCar(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Car not found")
		}
		return response.InternalServerError(c, "Failed to delete car")
	}

	return response.SuccessWithMessage(c, "Car deleted successfully", nil)
}

// UploadCarImage stores an uploaded car photo in Spaces and saves its URL
func (h *CarHandler) UploadCarImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid car ID")
	}

	if h.spacesClient == nil {
		return response.InternalServerError(c, "File storage is not configured")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "Image file is required")
	}

	if fileHeader.Size > maxCarImageSize {
		return response.BadRequest(c, "Image must be smaller than 10 MB")
	}

	if !spaces.IsAllowedImageType(fileHeader.Filename) {
		return response.BadRequest(c, "Only JPEG, PNG, GIF, and WebP images are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	key := spaces.GenerateKey("cars", fileHeader.Filename)
	url, err := h.spacesClient.UploadFile(c.Context(), key, file, spaces.GetContentType(fileHeader.Filename))
	if err != nil {
		return response.InternalServerError(c, "Failed to upload image")
	}

	car, err := h.cars.SetImage(c.Context(), uint(id), url)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Car not found")
		}
		return response.InternalServerError(c, "Failed to save image URL")
	}

	return response.Success(c, car)
}

// ListMakes proxies the vehicle-data API's make catalog
func (h *CarHandler) ListMakes(c *fiber.Ctx) error {
	if h.carData == nil {
		return response.InternalServerError(c, "Vehicle data API is not configured")
	}

	makes, err := h.carData.ListMakes(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load vehicle makes")
	}
	return response.Success(c, makes)
}

// ListModels proxies the vehicle-data API's model catalog for a make
func (h *CarHandler) ListModels(c *fiber.Ctx) error {
	if h.carData == nil {
		return response.InternalServerError(c, "Vehicle data API is not configured")
	}

	makeName := c.Params("make")
	if makeName == "" {
		return response.BadRequest(c, "Make is required")
	}

	models, err := h.carData.ListModels(c.Context(), makeName)
	if err != nil {
		return response.InternalServerError(c, "Failed to load vehicle models")
	}
	return response.Success(c, models)
}

// ListYears proxies the vehicle-data API's supported model years
func (h *CarHandler) ListYears(c *fiber.Ctx) error {
	if h.carData == nil {
		return response.InternalServerError(c, "Vehicle data API is not configured")
	}

	years, err := h.carData.ListYears(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load vehicle years")
	}
	return response.Success(c, years)
}
