package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/billableops/resource-management/internal/auth"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"documents", "resources", "users", "companies"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		companyKey := "acme-demo"
		var companyID int64
		err = db.QueryRow("SELECT id FROM companies WHERE company_key = $1", companyKey).Scan(&companyID)
		if err != nil {
			err = db.QueryRow(
				"INSERT INTO companies (name, company_key, portal_domain, created_at, updated_at) VALUES ($1, $2, $3, now(), now()) RETURNING id",
				"Acme Consulting", companyKey, "https://acme.example.com",
			).Scan(&companyID)
			if err != nil {
				log.Fatalf("failed to insert company: %v", err)
			}
			fmt.Println("Seeded company:", companyKey)
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)

		seedUser := func(email, firstName, lastName string) int64 {
			var id int64
			err := db.QueryRow("SELECT id FROM users WHERE email = $1", email).Scan(&id)
			if err == nil {
				fmt.Println("user already exists:", email)
				return id
			}
			err = db.QueryRow(
				"INSERT INTO users (company_id, email, first_name, last_name, password_hash, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, true, now(), now()) RETURNING id",
				companyID, email, firstName, lastName, string(hash),
			).Scan(&id)
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", email, err)
			}
			fmt.Println("Seeded user:", email)
			return id
		}

		adminID := seedUser("admin@acme.example.com", "Ada", "Admin")
		memberID := seedUser("member@acme.example.com", "Mira", "Member")

		validator := auth.NewTokenValidator(cfg.Security.JWTSecret)

		adminToken, err := validator.GenerateToken(&auth.Actor{
			ID:          adminID,
			CompanyID:   companyID,
			Email:       "admin@acme.example.com",
			Permissions: []string{auth.PermissionAdmin},
		}, 24*time.Hour)
		if err != nil {
			log.Fatalf("failed to mint admin token: %v", err)
		}

		memberToken, err := validator.GenerateToken(&auth.Actor{
			ID:          memberID,
			CompanyID:   companyID,
			Email:       "member@acme.example.com",
			Permissions: []string{auth.PermissionViewResources, auth.PermissionCreateResources},
		}, 24*time.Hour)
		if err != nil {
			log.Fatalf("failed to mint member token: %v", err)
		}

		fmt.Println("Admin bearer token:", adminToken)
		fmt.Println("Member bearer token:", memberToken)
		fmt.Println("Seeding complete")
	},
}
