package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	storeID := os.Getenv("STORE_ID")
	if storeID == "" {
		storeID = "toko-utama"
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedStore(db, storeID)
	seedProducts(db)

	log.Println("Seeding completed successfully!")
}

func seedStore(db *sql.DB, storeID string) {
	_, err := db.Exec(`
		INSERT INTO stores (id, name, address, phone,
			bank_name, bank_account_number, bank_account_holder,
			gopay_number, ovo_number, dana_number, shopeepay_number)
		VALUES ($1, 'Toko Utama', 'Jl. Pasar Baru No. 1', '0812-0000-0000',
			'BCA', '1234567890', 'Budi Santoso',
			'0812-345-6789', '0812-345-6789', '0812-345-6789', '0812-345-6789')
		ON CONFLICT (id) DO NOTHING`, storeID)
	if err != nil {
		log.Fatalf("Failed to seed store: %v", err)
	}
	log.Printf("Seeded store %s", storeID)
}

func seedProducts(db *sql.DB) {
	products := []struct {
		name      string
		code      string
		barcode   string
		sellPrice int64
		costPrice int64
		stock     int
	}{
		{"Indomie Goreng", "IDM-GRG", "089686010947", 3500, 2800, 240},
		{"Aqua 600ml", "AQA-600", "8886008101053", 4000, 3000, 120},
		{"Teh Botol Sosro 450ml", "TBS-450", "8996001600153", 5000, 3800, 96},
		{"Gula Pasir 1kg", "GLA-1KG", "", 16000, 14000, 40},
		{"Minyak Goreng 2L", "MYK-2L", "8998866200578", 38000, 34500, 30},
		{"Kopi Kapal Api 65g", "KKA-65", "8991002101004", 14500, 12000, 60},
		{"Sabun Lifebuoy 85g", "SBL-85", "8999999003647", 4500, 3600, 80},
	}
	for _, p := range products {
		var barcode any
		if p.barcode != "" {
			barcode = p.barcode
		}
		_, err := db.Exec(`
			INSERT INTO products (name, code, barcode, sell_price, cost_price, stock)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (code) WHERE code IS NOT NULL DO NOTHING`,
			p.name, p.code, barcode, p.sellPrice, p.costPrice, p.stock)
		if err != nil {
			log.Fatalf("Failed to seed product %s: %v", p.name, err)
		}
	}
	log.Printf("Seeded %d products", len(products))
}
