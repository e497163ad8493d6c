// Command seed creates the admin account for a given external identity and
// optionally prints a development identity token for it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/config"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/database"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/models"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/repository"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/utils"
)

func main() {
	adminID := flag.String("id", os.Getenv("ADMIN_ID"), "external identity id of the admin")
	adminUsername := flag.String("username", os.Getenv("ADMIN_USERNAME"), "admin username")
	adminEmail := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	printToken := flag.Bool("token", false, "print a development identity token for the admin")
	flag.Parse()

	if *adminID == "" || *adminUsername == "" {
		log.Fatal("Missing admin identity: set ADMIN_ID and ADMIN_USERNAME or pass -id and -username")
	}

	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	ctx := context.Background()
	users := repository.NewUserRepository(database.DB)

	existing, err := users.GetUserByID(ctx, *adminID)
	if err != nil {
		log.Fatal("Failed to look up admin:", err)
	}

	switch {
	case existing == nil:
		admin := &models.User{
			ID:       *adminID,
			Username: *adminUsername,
			Email:    *adminEmail,
			Role:     models.RoleAdmin,
		}
		if err := users.CreateUser(ctx, admin); err != nil {
			log.Fatal("Failed to create admin:", err)
		}
		log.Println("Admin user created:", admin.Username)
	case !existing.IsAdmin():
		if _, err := users.UpdateFields(ctx, existing.ID, map[string]interface{}{"role": models.RoleAdmin}); err != nil {
			log.Fatal("Failed to promote user:", err)
		}
		log.Println("Existing user promoted to admin:", existing.Username)
	default:
		log.Println("Admin user already exists:", existing.Username)
	}

	if !*printToken {
		return
	}
	if cfg.IdentityJWTSecret == "" {
		log.Fatal("IDENTITY_JWT_SECRET is not set; tokens are not required")
	}
	token, err := utils.GenerateIdentityToken(*adminID, *adminUsername, cfg.IdentityJWTSecret, 24*time.Hour)
	if err != nil {
		log.Fatal("Failed to sign token:", err)
	}
	fmt.Println(token)
}
