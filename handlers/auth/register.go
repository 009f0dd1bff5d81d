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
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	bruteForceProtection *middleware.BruteForceProtection
	spacesClient         *spaces.SpacesClient
}

// NewAuthHandler creates a new auth handler. The spaces client may be nil,
// in which case profile image upload is unavailable.
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection, spacesClient *spaces.SpacesClient) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		bruteForceProtection: bruteForceProtection,
		spacesClient:         spacesClient,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse represents a successful register or login response
type AuthResponse struct {
	User      model.UserResponse `json:"user"`
	Token     string             `json:"token"`
	ExpiresIn int                `json:"expires_in"` // in seconds
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Username = validation.SanitizeString(req.Username)
	req.Email = strings.ToLower(validation.SanitizeString(req.Email))

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return response.BadRequest(c, "Username, email, and password are required")
	}

	if ok, msg := validation.ValidateUsername(req.Username); !ok {
		return response.BadRequest(c, msg)
	}

	if !validation.ValidateEmail(req.Email) {
		return response.BadRequest(c, "Invalid email format")
	}

	if !authutil.IsPasswordValid(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	// Check if user already exists
	var existingUser model.User
	if err := h.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser).Error; err == nil {
		if existingUser.Email == req.Email {
			return response.Conflict(c, "User with this email already exists")
		}
		return response.Conflict(c, "Username is already taken")
	}

	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         model.RoleUser,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Username, user.Email, user.Role)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	res := AuthResponse{
		User:      user.ToResponse(),
		Token:     token,
		ExpiresIn: int(authutil.TokenExpiry.Seconds()),
	}

	return response.Created(c, res)
}
