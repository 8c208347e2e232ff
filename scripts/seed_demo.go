package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"homestay/internal/database"
	"homestay/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v2"
)

// SeedConfig holds demo fixtures: hosts with their listings, plus guests.
type SeedConfig struct {
	Users    []SeedUser       `yaml:"users"`
	Listings []models.Listing `yaml:"listings"`
}

type SeedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		seedPath = flag.String("seed", "configs/seed.yaml", "path to seed.yaml")
		dbPath   = flag.String("db", "./data/homestay.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var cfg SeedConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	if len(cfg.Users) == 0 {
		return fmt.Errorf("no users in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userIDs := make(map[string]int64)
	created := 0
	for _, u := range cfg.Users {
		if u.Email == "" {
			continue
		}
		existing, err := db.GetUserByEmail(ctx, u.Email)
		if err == nil {
			userIDs[u.Email] = existing.ID
			continue
		}
		if !errors.Is(err, database.ErrUserNotFound) {
			return fmt.Errorf("get %s: %w", u.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		user := &models.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: string(hash),
			Role:         u.Role,
		}
		if err = db.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("create %s: %w", u.Email, err)
		}
		userIDs[u.Email] = user.ID
		created++
	}

	listingsCreated := 0
	for i := range cfg.Listings {
		l := cfg.Listings[i]
		if l.OwnerID == 0 {
			// Owner defaults to the first seeded host.
			for _, u := range cfg.Users {
				if u.Role == models.RoleHost {
					l.OwnerID = userIDs[u.Email]
					break
				}
			}
		}
		l.IsActive = true
		if err = db.CreateListing(ctx, &l); err != nil {
			return fmt.Errorf("create listing %q: %w", l.Title, err)
		}
		listingsCreated++
	}

	fmt.Printf("done: users=%d listings=%d\n", created, listingsCreated)
	return nil
}
