package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/model"
)

const (
	devAdminID  = "usr_kitcatalog_dev_admin01"
	devViewerID = "usr_kitcatalog_dev_viewer1"
)

type seedFile struct {
	Products []productEntry `yaml:"products"`
	Results  []resultEntry  `yaml:"results"`
}

type productEntry struct {
	ID                     string   `yaml:"id"`
	Name                   string   `yaml:"name"`
	Description            string   `yaml:"description"`
	BasePrice              float64  `yaml:"base_price"`
	SKU                    string   `yaml:"sku"`
	Category               string   `yaml:"category"`
	StockQuantity          int      `yaml:"stock_quantity"`
	IntendedUse            string   `yaml:"intended_use"`
	TestType               string   `yaml:"test_type"`
	SampleType             []string `yaml:"sample_type"`
	ResultsTime            string   `yaml:"results_time"`
	StorageConditions      string   `yaml:"storage_conditions"`
	RegulatoryApprovals    []string `yaml:"regulatory_approvals"`
	KitContentsSummary     string   `yaml:"kit_contents_summary"`
	WarningsAndPrecautions []string `yaml:"warnings_and_precautions"`
	IsActive               bool     `yaml:"is_active"`
}

type resultEntry struct {
	ID        string `yaml:"id"`
	ProductID string `yaml:"product_id"`
	KitSerial string `yaml:"kit_serial"`
	Status    string `yaml:"status"`
	Summary   string `yaml:"summary"`
}

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("Seeding kit catalog database...")

	fmt.Println("  Inserting users...")
	for _, u := range []struct{ id, email, name, role string }{
		{devAdminID, "admin@kitcatalog.test", "Admin", model.RoleAdmin},
		{devViewerID, "viewer@kitcatalog.test", "Viewer", model.RoleViewer},
	} {
		hash, err := core.HashPassword("password")
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash password: %v\n", err)
			os.Exit(1)
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, display_name, role) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role`,
			u.id, u.email, hash, u.name, u.role)
		if err != nil {
			fmt.Fprintf(os.Stderr, "insert user %s: %v\n", u.email, err)
			os.Exit(1)
		}
	}

	sf, err := loadSeedFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Println("  Seeding products from YAML...")
	if err := seedProducts(ctx, pool, sf.Products); err != nil {
		fmt.Fprintf(os.Stderr, "seed products: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("  Seeding results...")
	if err := seedResults(ctx, pool, sf.Results); err != nil {
		fmt.Fprintf(os.Stderr, "seed results: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Seed complete!")
	fmt.Println()
	fmt.Println("  Admin:  admin@kitcatalog.test / password")
	fmt.Println("  Viewer: viewer@kitcatalog.test / password")
}

// loadSeedFile reads products.yaml next to this source file so the seed works
// regardless of cwd.
func loadSeedFile() (*seedFile, error) {
	_, thisFile, _, _ := runtime.Caller(0)
	yamlPath := filepath.Join(filepath.Dir(thisFile), "products.yaml")

	data, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("read products.yaml: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse products.yaml: %w", err)
	}
	return &sf, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func list(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []productEntry) error {
	for _, p := range products {
		fmt.Printf("    Upserting product %s (%s)\n", p.SKU, p.Name)
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, description, base_price, sku, category, stock_quantity,
			   intended_use, test_type, sample_type, results_time, storage_conditions,
			   regulatory_approvals, kit_contents_summary, warnings_and_precautions, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			 ON CONFLICT (id) DO UPDATE SET
			   name = EXCLUDED.name,
			   description = EXCLUDED.description,
			   base_price = EXCLUDED.base_price,
			   category = EXCLUDED.category,
			   stock_quantity = EXCLUDED.stock_quantity,
			   sample_type = EXCLUDED.sample_type,
			   regulatory_approvals = EXCLUDED.regulatory_approvals,
			   warnings_and_precautions = EXCLUDED.warnings_and_precautions,
			   is_active = EXCLUDED.is_active,
			   updated_at = now()`,
			p.ID, p.Name, nullable(p.Description), p.BasePrice, p.SKU, nullable(p.Category), p.StockQuantity,
			nullable(p.IntendedUse), nullable(p.TestType), list(p.SampleType), nullable(p.ResultsTime),
			nullable(p.StorageConditions), list(p.RegulatoryApprovals), nullable(p.KitContentsSummary),
			list(p.WarningsAndPrecautions), p.IsActive)
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}
	return nil
}

func seedResults(ctx context.Context, pool *pgxpool.Pool, results []resultEntry) error {
	for _, r := range results {
		summary := r.Summary
		if summary == "" {
			summary = "{}"
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO results (id, product_id, kit_serial, status, summary, reported_at)
			 VALUES ($1, $2, $3, $4, $5::jsonb, now())
			 ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, summary = EXCLUDED.summary`,
			r.ID, nullable(r.ProductID), r.KitSerial, r.Status, summary)
		if err != nil {
			return fmt.Errorf("upsert result %s: %w", r.ID, err)
		}
	}
	return nil
}
