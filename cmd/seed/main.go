package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"carshop/internal/config"
	"carshop/internal/db"
	"carshop/internal/model"
	"carshop/internal/repository"
)

// SeedProduct is the fixture file shape for one product.
type SeedProduct struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to the store
	mongoClient, err := db.NewMongo(context.Background(), cfg.MongoURI, cfg.StoreTimeout)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(mongoClient); err != nil {
			log.Printf("mongo close: %v", err)
		}
	}()
	log.Println("Connected to database")

	// Load fixtures
	log.Printf("Loading products from: %s", cfg.SeedFile)
	products, err := loadProducts(cfg.SeedFile)
	if err != nil {
		log.Fatalf("Failed to load products: %v", err)
	}
	log.Printf("Loaded %d products from fixture", len(products))

	// Seed products into the store
	productRepo := repository.NewProductRepository(mongoClient.Database(cfg.MongoDatabase))
	ctx := context.Background()

	log.Println("Seeding products into database...")
	created, updated, err := seedProducts(ctx, productRepo, products)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New products created: %d", created)
	log.Printf("  - Existing products updated: %d", updated)
	log.Printf("  - Total products processed: %d", created+updated)
}

// loadProducts reads the fixture file.
func loadProducts(path string) ([]SeedProduct, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var products []SeedProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return products, nil
}

// seedProducts upserts products by name so the script can be rerun safely.
func seedProducts(ctx context.Context, repo repository.ProductRepository, products []SeedProduct) (created int, updated int, err error) {
	skipped := 0
	for _, item := range products {
		if item.Name == "" || item.Price <= 0 {
			log.Printf("Skipping product with missing name or price: %+v", item)
			skipped++
			continue
		}

		// Fixtures are curated stock, so they skip moderation and go live
		// approved; products submitted through the API start pending.
		product := &model.Product{
			Name:        item.Name,
			Price:       item.Price,
			Description: item.Description,
			Image:       item.Image,
			Status:      model.ProductStatusApproved,
		}
		wasCreated, err := repo.UpsertByName(ctx, product)
		if err != nil {
			return created, updated, fmt.Errorf("error seeding product %q: %w", item.Name, err)
		}
		if wasCreated {
			created++
		} else {
			updated++
		}
	}

	if skipped > 0 {
		log.Printf("Skipped %d invalid products", skipped)
	}
	return created, updated, nil
}
