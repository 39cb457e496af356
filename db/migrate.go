package db

import (
	"fmt"
	"log"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.Staff{},
		&models.RecurrenceRule{},
		&models.Appointment{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
