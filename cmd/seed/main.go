package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/brew-catalog-api/config"
	"github.com/oksasatya/brew-catalog-api/internal/application"
	"github.com/oksasatya/brew-catalog-api/internal/domain/repository"
	pginfra "github.com/oksasatya/brew-catalog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/brew-catalog-api/pkg/helpers"
	"github.com/oksasatya/brew-catalog-api/pkg/validation"
)

// Seeds a demo user and a demo beer through the same services the API uses,
// so validation and hashing match. Re-running is harmless.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	dir := application.NewDirectory(users, helpers.NewPasswordVerifier(cfg.BcryptCost))

	password := "password123"
	in := application.SignupInput{
		Username:  "demoUser",
		Firstname: "Demo",
		Lastname:  "Brewer",
		Email:     "demo@brew.local",
		Password:  password,
	}
	var ownerID string
	u, err := dir.CreateUser(ctx, in)
	var verr *validation.Error
	switch {
	case err == nil:
		ownerID = u.ID
		fmt.Printf("seeded user: id=%s username=%s password=%s\n", u.ID, u.Username, password)
	case errors.As(err, &verr):
		existing, ferr := dir.FindUser(ctx, repository.ByUsername(in.Username))
		if ferr != nil {
			log.Fatalf("failed to load existing user: %v", ferr)
		}
		ownerID = existing.ID
		fmt.Printf("user %s already present: id=%s\n", in.Username, existing.ID)
	default:
		log.Fatalf("failed to seed user: %v", err)
	}

	beers := application.NewBeerService(pginfra.NewBeerRepository(pool), nil, cfg.GCSImageFolder, nil, nil, logger)
	b, err := beers.Create(ctx, application.CreateBeerInput{
		Name:             "Buzz",
		Tagline:          "A Real Bitter Experience.",
		Description:      "A light, crisp and bitter IPA brewed with English and American hops.",
		FirstBrewed:      "09/2007",
		BrewersTips:      "The earthy and floral aromas from the hops can be overpowering. Drop a little Cascade in at the end of the boil to lift the profile with a bit of citrus.",
		AttenuationLevel: "75",
		ContributedBy:    "Sam Mason",
	}, ownerID, nil)
	switch {
	case err == nil:
		fmt.Printf("seeded beer: id=%s name=%s\n", b.ID, b.Name)
	case errors.As(err, &verr):
		fmt.Println("beer Buzz already present")
	default:
		log.Fatalf("failed to seed beer: %v", err)
	}
}
