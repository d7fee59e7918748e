package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Generates a gzipped seed file of sample availability codes for local
// development. Run with SEED_ENABLED=true and the default SEED_PATH to have
// the server import them at startup.
func main() {
	dataDir := "data/seed"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	// zip_code,availability,message
	rows := []string{
		"90210,available,",
		"90210-1234,available,",
		"10001,available,Free delivery on orders over $50.",
		"60601,unavailable,",
		"K1A 0B1,available,",
		"M5V 3L9,unavailable,Coming to your area soon!",
		"SW1A 1AA,available,",
		"M1 1AE,unavailable,",
		"100115,available,",
		"2000,unavailable,",
	}

	filePath := filepath.Join(dataDir, "codes.csv.gz")
	if err := createSeedFile(filePath, rows); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d codes\n", filePath, len(rows))
}

func createSeedFile(path string, rows []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	if _, err := gz.Write([]byte("# zip_code,availability,message\n")); err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := gz.Write([]byte(row + "\n")); err != nil {
			return err
		}
	}

	return nil
}
