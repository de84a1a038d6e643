package migration

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"Tray-Validation-Backend/entities"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recognition{}); err != nil {
		log.Fatalf("Error migrating recognition database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Image{}); err != nil {
		log.Fatalf("Error migrating image database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}, &entities.RecipeLine{}, &entities.RecipeLineOption{}); err != nil {
		log.Fatalf("Error migrating recipe database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.InitialTrayItem{}, &entities.InitialAnnotation{}); err != nil {
		log.Fatalf("Error migrating initial detections database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ValidationWorkLog{}); err != nil {
		log.Fatalf("Error migrating work log database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.TrayItem{}, &entities.Annotation{}); err != nil {
		log.Fatalf("Error migrating working copies database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
