package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/cache"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/config"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/db"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/importer"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/leads"
)

// seed loads a CSV, TSV or XLSX export into the leads collection using the
// same normalisation as the import endpoints.
func main() {
	path := flag.String("file", "", "path to a .csv, .tsv or .xlsx file")
	dryRun := flag.Bool("dry-run", false, "parse only, do not write")
	flag.Parse()

	if *path == "" {
		log.Fatal("seed: -file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	batch, err := importer.ParseFile(filepath.Base(*path), f)
	if err != nil {
		log.Fatalf("seed: %s", importer.Message(err))
	}
	log.Printf("seed: %d leads ready from %s", len(batch), *path)
	if *dryRun || len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	svc := leads.NewService(leads.NewRepository(cols.Leads), cache.NewNoop(), cfg.CacheTTL(), cfg.Timezone, nil, nil)
	result, err := svc.Import(ctx, batch)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("seed: imported %d leads", result.Imported)
}
