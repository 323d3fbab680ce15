package config

import (
	"fmt"
	"os"

	"github.com/rendrapra/planora/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

// ensureAcceptedProposalIndex backs the "at most one accepted proposal per
// event" rule at the schema level. Acceptance re-checks inside a transaction,
// the index catches anything that slips past it.
func ensureAcceptedProposalIndex(db *gorm.DB) error {
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_proposals_one_accepted " +
			"ON proposals (event_id) WHERE status = 'accepted' AND deleted_at IS NULL",
	).Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.User{}, &models.Event{}, &models.Proposal{}, &models.Booking{}, &models.Notification{})
	if err != nil {
		return nil, err
	}

	if err := ensureAcceptedProposalIndex(db); err != nil {
		return nil, err
	}

	seedAdmin(db)

	return db, nil
}

// seedAdmin creates the initial admin account from ADMIN_EMAIL/ADMIN_PASSWORD
// if no account exists for that email yet.
func seedAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var existing models.User
	if result := db.Where("email = ?", email).First(&existing); result.Error == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return
	}

	db.Create(&models.User{
		FullName:   "Administrator",
		Email:      email,
		Password:   string(hashed),
		Role:       models.RoleAdmin,
		IsApproved: true,
	})
}
