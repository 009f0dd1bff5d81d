package user

import (
	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/services"
	authutil "github.com/JoshRaimo/Rent-a-Ride-sub000/utils/auth"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/middleware"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserHandler handles admin user management requests
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// ListUsers returns a paginated list of all users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := h.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	var users []model.User
	if err := h.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to load users")
	}

	res := make([]model.UserResponse, len(users))
	for i := range users {
		res[i] = users[i].ToResponse()
	}

	return response.Paginated(c, res, response.CalculatePagination(page, limit, total))
}

// GetUser returns a single user by ID
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	return response.Success(c, user.ToResponse())
}

// ResetPasswordRequest represents an admin password reset request
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ResetPassword lets an admin set a new password for any user
func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if !authutil.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	hashedPassword, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	if err := h.db.Model(&user).Update("password_hash", hashedPassword).Error; err != nil {
		return response.InternalServerError(c, "Failed to update password")
	}

	return response.SuccessWithMessage(c, "Password reset successfully", nil)
}

// DeleteUser removes a user and their dependent records. The last remaining
// admin cannot be deleted, so the system never locks itself out.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	callerID, _ := middleware.GetUserID(c)

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	if user.IsAdmin() {
		var adminCount int64
		if err := h.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&adminCount).Error; err != nil {
			return response.InternalServerError(c, "Failed to check admin count")
		}
		if adminCount <= 1 {
			return response.BadRequest(c, services.ErrLastAdmin.Error())
		}
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		// Collect the cars the user reviewed before the rows go away so
		// their aggregates can be recomputed in the same transaction.
		var reviewedCarIDs []uint
		if err := tx.Model(&model.Review{}).
			Distinct("car_id").
			Where("user_id = ?", user.ID).
			Pluck("car_id", &reviewedCarIDs).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&model.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.ChatParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&user).Error; err != nil {
			return err
		}
		for _, carID := range reviewedCarIDs {
			if err := services.RecomputeCarRating(tx, carID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}

	if callerID == user.ID {
		return response.SuccessWithMessage(c, "Your account has been deleted", nil)
	}
	return response.SuccessWithMessage(c, "User deleted successfully", nil)
}
