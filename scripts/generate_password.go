// scripts/generate_password.go
//
// Hashes a password the same way the server does, for seeding an
// administrator account by hand (see SEED_ADMIN_PASSWORD).
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password> [bcrypt-cost]")
	}

	password := os.Args[1]
	cost := 12
	if len(os.Args) > 2 {
		parsed, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatal("Invalid bcrypt cost:", err)
		}
		cost = parsed
	}

	cfg := &config.Config{Security: config.SecurityConfig{BcryptCost: cost}}
	passwordManager := auth.NewPasswordManager(cfg)

	hash, err := passwordManager.HashPassword(password)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	fmt.Printf("Password: %s\n", password)
	fmt.Printf("Hash: %s\n", hash)

	if err := passwordManager.VerifyPassword(password, hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Println("✅ Hash verified successfully!")
}
