package auth

import (
	"strings"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services/spaces"
	authutil "github.com/JoshRaimo/Rent-a-Ride-sub000/utils/auth"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/middleware"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/response"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/validation"
	"github.com/gofiber/fiber/v2"
)

const maxProfileImageSize = 5 * 1024 * 1024 // 5 MB

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	return response.Success(c, user.ToResponse())
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// UpdateProfile updates the authenticated user's username and email
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updates := map[string]interface{}{}

	if req.Username != "" {
		req.Username = validation.SanitizeString(req.Username)
		if ok, msg := validation.ValidateUsername(req.Username); !ok {
			return response.BadRequest(c, msg)
		}
		var existing model.User
		if err := h.db.Where("username = ? AND id <> ?", req.Username, user.ID).First(&existing).Error; err == nil {
			return response.Conflict(c, "Username is already taken")
		}
		updates["username"] = req.Username
	}

	if req.Email != "" {
		req.Email = strings.ToLower(validation.SanitizeString(req.Email))
		if !validation.ValidateEmail(req.Email) {
			return response.BadRequest(c, "Invalid email format")
		}
		var existing model.User
		if err := h.db.Where("email = ? AND id <> ?", req.Email, user.ID).First(&existing).Error; err == nil {
			return response.Conflict(c, "User with this email already exists")
		}
		updates["email"] = req.Email
	}

	if len(updates) == 0 {
		return response.BadRequest(c, "Nothing to update")
	}

	if err := h.db.Model(user).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, user.ToResponse())
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword changes the authenticated user's password after verifying
// the current one
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Current and new passwords are required")
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return response.Unauthorized(c, "Current password is incorrect")
	}

	if !authutil.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	hashedPassword, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	if err := h.db.Model(user).Update("password_hash", hashedPassword).Error; err != nil {
		return response.InternalServerError(c, "Failed to update password")
	}

	return response.SuccessWithMessage(c, "Password updated successfully", nil)
}

// UploadProfileImage stores an uploaded avatar in Spaces and saves its URL
func (h *AuthHandler) UploadProfileImage(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	if h.spacesClient == nil {
		return response.InternalServerError(c, "File storage is not configured")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "Image file is required")
	}

	if fileHeader.Size > maxProfileImageSize {
		return response.BadRequest(c, "Image must be smaller than 5 MB")
	}

	if !spaces.IsAllowedImageType(fileHeader.Filename) {
		return response.BadRequest(c, "Only JPEG, PNG, GIF, and WebP images are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	key := spaces.GenerateKey("profiles", fileHeader.Filename)
	url, err := h.spacesClient.UploadFile(c.Context(), key, file, spaces.GetContentType(fileHeader.Filename))
	if err != nil {
		return response.InternalServerError(c, "Failed to upload image")
	}

	if err := h.db.Model(user).Update("profile_image", url).Error; err != nil {
		return response.InternalServerError(c, "Failed to save image URL")
	}

	return response.Success(c, fiber.Map{"profile_image": url})
}
