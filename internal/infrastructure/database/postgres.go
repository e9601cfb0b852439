package database

import (
	"fmt"
	"log"

	"github.com/facturio/facturio-api/internal/config"
	"github.com/facturio/facturio-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.Tenant{},
		&entity.User{},
		&entity.Client{},
		&entity.PaymentTerms{},
		&entity.Quote{},
		&entity.QuoteLine{},
		&entity.Invoice{},
		&entity.InvoiceLine{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds default payment-terms templates for tenants that
// have none yet
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	var tenants []entity.Tenant
	if err := db.Find(&tenants).Error; err != nil {
		return err
	}

	for _, tenant := range tenants {
		var count int64
		if err := db.Model(&entity.PaymentTerms{}).
			Where("tenant_id = ?", tenant.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		defaults := []entity.PaymentTerms{
			{
				TenantID:                 tenant.ID,
				Name:                     "Acompte 30% / Intermédiaire 20% / Solde 50%",
				PourcentageAcompte:       30,
				PourcentageIntermediaire: 20,
				PourcentageSolde:         50,
				DelaiSoldeJours:          30,
			},
			{
				TenantID:           tenant.ID,
				Name:               "Acompte 30% / Solde 70%",
				PourcentageAcompte: 30,
				PourcentageSolde:   70,
				DelaiSoldeJours:    30,
			},
		}
		for i := range defaults {
			if err := db.Create(&defaults[i]).Error; err != nil {
				log.Printf("Warning: failed to seed payment terms for tenant %s: %v", tenant.Slug, err)
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
