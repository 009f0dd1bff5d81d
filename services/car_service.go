package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/cache"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	carListCacheTTL    = 5 * time.Minute
	carListCachePrefix = "cars:list:"
)

// CarFilter narrows the public car listing
type CarFilter struct {
	Make          string
	Model         string
	YearMin       int
	YearMax       int
	PriceMin      float64
	PriceMax      float64
	AvailableOnly bool
	Page          int
	Limit         int
}

// cacheKey builds a deterministic cache key for a filter combination
func (f CarFilter) cacheKey() string {
	return fmt.Sprintf("%s%s:%s:%d:%d:%.2f:%.2f:%t:%d:%d",
		carListCachePrefix, f.Make, f.Model, f.YearMin, f.YearMax,
		f.PriceMin, f.PriceMax, f.AvailableOnly, f.Page, f.Limit)
}

// CarService handles car inventory operations. Public listings are cached in
// Redis; any admin write invalidates the listing cache.
type CarService struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

// NewCarService creates a new car service. The cache may be nil, in which
// case every listing hits the database.
func NewCarService(db *gorm.DB, redisCache *cache.RedisCache) *CarService {
	return &CarService{db: db, cache: redisCache}
}

type carListPage struct {
	Cars  []model.Car `json:"cars"`
	Total int64       `json:"total"`
}

// ListCars returns a filtered page of cars in the inventory
func (s *CarService) ListCars(ctx context.Context, filter CarFilter) ([]model.Car, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	key := filter.cacheKey()
	if s.cache != nil {
		var page carListPage
		if err := s.cache.GetJSON(ctx, key, &page); err == nil {
			return page.Cars, page.Total, nil
		}
	}

	query := s.db.WithContext(ctx).Model(&model.Car{})
	if filter.Make != "" {
		query = query.Where("LOWER(make) = LOWER(?)", filter.Make)
	}
	if filter.Model != "" {
		query = query.Where("LOWER(model) = LOWER(?)", filter.Model)
	}
	if filter.YearMin > 0 {
		query = query.Where("year >= ?", filter.YearMin)
	}
	if filter.YearMax > 0 {
		query = query.Where("year <= ?", filter.YearMax)
	}
	if filter.PriceMin > 0 {
		query = query.Where("price_per_day >= ?", filter.PriceMin)
	}
	if filter.PriceMax > 0 {
		query = query.Where("price_per_day <= ?", filter.PriceMax)
	}
	if filter.AvailableOnly {
		query = query.Where("available = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cars []model.Car
	if err := query.Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&cars).Error; err != nil {
		return nil, 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, carListPage{Cars: cars, Total: total}, carListCacheTTL); err != nil {
			log.Printf("Failed to cache car listing: %v", err)
		}
	}
	return cars, total, nil
}

// GetCar returns a single car by ID
func (s *CarService) GetCar(ctx context.Context, carID uint) (*model.Car, error) {
	var car model.Car
	if err := s.db.WithContext(ctx).First(&car, carID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &car, nil
}

// CarInput carries the writable fields of a car
type CarInput struct {
	Make        string   `json:"make" validate:"required"`
	Model       string   `json:"model" validate:"required"`
	Year        int      `json:"year" validate:"required,min=1950,max=2100"`
	PricePerDay float64  `json:"price_per_day" validate:"required,gt=0"`
	Available   *bool    `json:"available"`
	Image       string   `json:"image"`
	Features    []string `json:"features"`
}

// CreateCar adds a car to the inventory
func (s *CarService) CreateCar(ctx context.Context, input CarInput) (*model.Car, error) {
	car := model.Car{
		Make:        input.Make,
		Model:       input.Model,
		Year:        input.Year,
		PricePerDay: input.PricePerDay,
		Available:   true,
		Image:       input.Image,
		Features:    pq.StringArray(input.Features),
	}
	if input.Available != nil {
		car.Available = *input.Available
	}

	if err := s.db.WithContext(ctx).Create(&car).Error; err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	return &car, nil
}

// UpdateCar modifies an existing car
func (s *CarService) UpdateCar(ctx context.Context, carID uint, input CarInput) (*model.Car, error) {
	car, err := s.GetCar(ctx, carID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"make":          input.Make,
		"model":         input.Model,
		"year":          input.Year,
		"price_per_day": input.PricePerDay,
	}
	if input.Available != nil {
		updates["available"] = *input.Available
	}
	if input.Image != "" {
		updates["image"] = input.Image
	}
	if input.Features != nil {
		updates["features"] = pq.StringArray(input.Features)
	}

	if err := s.db.WithContext(ctx).Model(car).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	return car, nil
}

// SetImage stores the uploaded image URL on a car
func (s *CarService) SetImage(ctx context.Context, carID uint, imageURL string) (*model.Car, error) {
	car, err := s.GetCar(ctx, carID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(car).Update("image", imageURL).Error; err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	return car, nil
}

// DeleteCar removes a car and its dependent bookings and reviews
func (s *CarService) DeleteCar(ctx context.Context, carID uint) error {
	car, err := s.GetCar(ctx, carID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("car_id = ?", carID).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("car_id = ?", carID).Delete(&model.Booking{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(car).Error
	})
	if err != nil {
		return err
	}

	s.invalidateListings(ctx)
	return nil
}

// invalidateListings drops every cached car listing page. Keys carry the
// filter in their name, so the whole prefix has to go.
func (s *CarService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, carListCachePrefix); err != nil {
		log.Printf("Failed to invalidate car listing cache: %v", err)
	}
}
