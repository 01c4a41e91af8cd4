package database

import (
	"fmt"
	"log"

	"opoboost_backend/internal/config"
	"opoboost_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := Migrate(db, cfg); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func Migrate(db *gorm.DB, cfg *config.Config) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Question{},
		&model.TestDefinition{},
		&model.TestQuestion{},
		&model.Attempt{},
		&model.AttemptAnswer{},
		&model.Feedback{},
		&model.Material{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")

	// The reserved simulacro category is provisioned here so request handlers
	// normally never race on its creation.
	var count int64
	db.Model(&model.Category{}).Where("name = ?", cfg.Simulacro.CategoryName).Count(&count)
	if count == 0 {
		db.Create(&model.Category{
			Name:        cfg.Simulacro.CategoryName,
			Description: "Categoría para los tests aleatorios generados como simulacro.",
		})
	}

	return nil
}
