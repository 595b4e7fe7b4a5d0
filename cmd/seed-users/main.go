// Seeds the built-in accounts a fresh install needs: one academic staff
// member and the program chair. Students are created through the portal.
package main

import (
	"errors"
	"flag"
	"log"
	"time"

	"thesis-management-api/config"
	"thesis-management-api/models"
	"thesis-management-api/utils"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type seedAccount struct {
	FullName string
	Email    string
	RoleID   int
}

func main() {
	password := flag.String("password", "", "initial password for the seeded accounts")
	flag.Parse()

	if *password == "" {
		log.Fatal("usage: seed-users -password <initial password>")
	}
	if valid, message := utils.ValidatePassword(*password); !valid {
		log.Fatal(message)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to environment variables")
	}

	config.InitDB()

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	accounts := []seedAccount{
		{FullName: "Academic Staff", Email: "staff@fst.example.ac.id", RoleID: models.RoleStaff},
		{FullName: "Program Chair", Email: "chair@fst.example.ac.id", RoleID: models.RoleChair},
	}

	for _, account := range accounts {
		var existing models.User
		err := config.DB.Where("email = ?", account.Email).First(&existing).Error
		if err == nil {
			log.Printf("Account %s already exists, skipping", account.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("failed to query %s: %v", account.Email, err)
		}

		now := time.Now()
		user := models.User{
			FullName:     account.FullName,
			Email:        account.Email,
			PasswordHash: hashed,
			RoleID:       account.RoleID,
			CreateAt:     &now,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			log.Fatalf("failed to create %s: %v", account.Email, err)
		}
		log.Printf("Created %s (role %d)", account.Email, account.RoleID)
	}

	log.Println("Seeding completed")
}
