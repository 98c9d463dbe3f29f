package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	mongoclient "trailbook/internal/clients/mongo"
	"trailbook/internal/config"
	"trailbook/internal/logger"
	"trailbook/internal/services/auth"
	"trailbook/internal/services/reviews"
	"trailbook/internal/services/tours"
	"trailbook/internal/utils/crypto"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ----------------------------------------------------------------------------
// Config ---------------------------------------------------------------------
var (
	doImport  = flag.Bool("import", false, "Import tours from the JSON file and seed users/reviews")
	doDelete  = flag.Bool("delete", false, "Delete all tours, users, and reviews")
	toursFile = flag.String("file", env("TOURS_FILE", "dev-data/tours.json"), "Tours JSON file")
	nUsers    = flag.Int("users", envInt("USERS", 20), "How many fake users to seed")
	nReviews  = flag.Int("reviews", envInt("REVIEWS", 60), "How many fake reviews to seed")
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscan(v, &i); err == nil && i > 0 {
			return i
		}
	}
	return def
}

// ----------------------------------------------------------------------------
// Main -----------------------------------------------------------------------
func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	if *doImport == *doDelete {
		fmt.Fprintln(os.Stderr, "usage: importdata --import | --delete")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}
	log, err := logger.Init(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, db, err := mongoclient.Init(ctx, cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}
	defer func() { _ = mongoclient.Shutdown(context.Background()) }()

	if *doDelete {
		if err := deleteAll(ctx, db); err != nil {
			fmt.Fprintln(os.Stderr, "FATAL:", err)
			os.Exit(1)
		}
		fmt.Println("✔ data deleted")
		return
	}

	if err := importAll(ctx, db, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}
	fmt.Println("✔ done")
}

func deleteAll(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{"tours", "users", "reviews"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("delete %s: %w", name, err)
		}
		fmt.Printf("• cleared %s\n", name)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Step 1 – tours from the JSON file ------------------------------------------
func importTours(ctx context.Context, db *mongo.Database) ([]*tours.Tour, error) {
	raw, err := os.ReadFile(*toursFile)
	if err != nil {
		return nil, fmt.Errorf("read tours file: %w", err)
	}

	var list []*tours.Tour
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse tours file: %w", err)
	}

	now := time.Now().UTC()
	docs := make([]any, 0, len(list))
	for _, t := range list {
		if t.ID.IsZero() {
			t.ID = bson.NewObjectID()
		}
		t.Slug = slug.Make(t.Name)
		if t.RatingsAverage == 0 {
			t.RatingsAverage = 4.5
		}
		t.CreatedAt = now
		t.UpdatedAt = now
		docs = append(docs, t)
	}

	if _, err := db.Collection("tours").InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert tours: %w", err)
	}
	fmt.Printf("• imported %d tours\n", len(docs))
	return list, nil
}

// ----------------------------------------------------------------------------
// Step 2 – fake users ---------------------------------------------------------
func seedUsers(ctx context.Context, db *mongo.Database, cfg config.Config, total int) ([]*auth.User, error) {
	hash, err := crypto.HashPassword("Password123", cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	roles := []string{auth.RoleUser, auth.RoleUser, auth.RoleUser, auth.RoleGuide, auth.RoleLeadGuide}
	now := time.Now().UTC()

	list := make([]*auth.User, 0, total)
	docs := make([]any, 0, total)
	for i := 0; i < total; i++ {
		u := &auth.User{
			ID:           bson.NewObjectID(),
			Name:         gofakeit.Name(),
			Email:        fmt.Sprintf("seed-%d-%s", i, gofakeit.Email()),
			Role:         roles[i%len(roles)],
			PasswordHash: hash,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		list = append(list, u)
		docs = append(docs, u)
	}

	if _, err := db.Collection("users").InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert users: %w", err)
	}
	fmt.Printf("• seeded %d users (password: Password123)\n", total)
	return list, nil
}

// ----------------------------------------------------------------------------
// Step 3 – fake reviews -------------------------------------------------------
func seedReviews(ctx context.Context, db *mongo.Database, tourList []*tours.Tour, userList []*auth.User, total int) error {
	if len(tourList) == 0 || len(userList) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]any, 0, total)
	for i := 0; i < total; i++ {
		docs = append(docs, &reviews.Review{
			ID:        bson.NewObjectID(),
			Review:    gofakeit.Sentence(12),
			Rating:    float64(gofakeit.Number(1, 5)),
			TourID:    tourList[i%len(tourList)].ID,
			UserID:    userList[i%len(userList)].ID,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	if _, err := db.Collection("reviews").InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert reviews: %w", err)
	}
	fmt.Printf("• seeded %d reviews\n", total)
	return nil
}

func importAll(ctx context.Context, db *mongo.Database, cfg config.Config) error {
	tourList, err := importTours(ctx, db)
	if err != nil {
		return err
	}

	userList, err := seedUsers(ctx, db, cfg, *nUsers)
	if err != nil {
		return err
	}

	return seedReviews(ctx, db, tourList, userList, *nReviews)
}
