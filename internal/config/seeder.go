package config

import (
	"log"

	"pustaka-backend/internal/adapters/persistence/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedMasterData seeds initial master data
func SeedMasterData(db *gorm.DB) error {
	if err := seedCategories(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func seedCategories(db *gorm.DB) error {
	categories := []models.Category{
		{
			Name:        "Fiction",
			Description: "Novels, short stories and other narrative works",
		},
		{
			Name:        "Non-Fiction",
			Description: "History, biography, essays and reference works",
		},
		{
			Name:        "Science",
			Description: "Natural sciences, mathematics and technology",
		},
		{
			Name:        "Children",
			Description: "Picture books and early readers",
		},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := db.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				cat.ID = uuid.NewString()
				if err := db.Create(&cat).Error; err != nil {
					return err
				}
				log.Printf("   Created category: %s", cat.Name)
			}
		}
	}
	return nil
}
