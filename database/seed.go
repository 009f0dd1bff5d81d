package database

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/JoshRaimo/Rent-a-Ride-sub000/model"
	"github.com/JoshRaimo/Rent-a-Ride-sub000/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAdminUser creates the initial admin user from ADMIN_EMAIL /
// ADMIN_USERNAME / ADMIN_PASSWORD. A no-op when an admin already exists.
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	email := strings.ToLower(os.Getenv("ADMIN_EMAIL"))
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || username == "" || password == "" {
		return fmt.Errorf("ADMIN_EMAIL, ADMIN_USERNAME and ADMIN_PASSWORD must be set to seed the admin user")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("Seeded admin user %s (%s)", admin.Username, admin.Email)
	return nil
}

// SeedDemoCars inserts a small demo inventory when the cars table is empty
func (s *Seeder) SeedDemoCars() error {
	var count int64
	if err := s.db.Model(&model.Car{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cars := []model.Car{
		{Make: "Toyota", Model: "Corolla", Year: 2022, PricePerDay: 45, Available: true},
		{Make: "Honda", Model: "Civic", Year: 2023, PricePerDay: 52, Available: true},
		{Make: "Ford", Model: "Mustang", Year: 2021, PricePerDay: 95, Available: true},
		{Make: "Tesla", Model: "Model 3", Year: 2024, PricePerDay: 110, Available: true},
	}

	if err := s.db.Create(&cars).Error; err != nil {
		return fmt.Errorf("failed to seed demo cars: %w", err)
	}

	log.Printf("Seeded %d demo cars", len(cars))
	return nil
}
