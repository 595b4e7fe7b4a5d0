// One-off migration: hash any legacy plaintext passwords still in the
// users table.
package main

import (
	"log"
	"strings"

	"thesis-management-api/config"
	"thesis-management-api/models"
	"thesis-management-api/utils"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	var users []models.User
	if err := config.DB.Find(&users).Error; err != nil {
		log.Fatal("Failed to fetch users:", err)
	}

	for _, user := range users {
		// bcrypt hashes start with $2
		if strings.HasPrefix(user.PasswordHash, "$2") {
			log.Printf("User %s already has hashed password, skipping\n", user.Email)
			continue
		}

		hashed, err := utils.HashPassword(user.PasswordHash)
		if err != nil {
			log.Printf("Failed to hash password for user %s: %v\n", user.Email, err)
			continue
		}

		if err := config.DB.Model(&user).Update("password_hash", hashed).Error; err != nil {
			log.Printf("Failed to update password for user %s: %v\n", user.Email, err)
			continue
		}

		log.Printf("Successfully updated password for user %s\n", user.Email)
	}

	log.Println("Password migration completed!")
}
