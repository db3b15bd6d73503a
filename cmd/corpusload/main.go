package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/campusqa/campusqa/internal/corpus"
	"github.com/campusqa/campusqa/internal/embedder"
	"github.com/campusqa/campusqa/internal/loader"
)

func main() {
	log.SetOutput(os.Stderr)

	var (
		dbPath      = flag.String("db", "", "corpus database path (default $CAMPUSQA_DB_PATH or ~/.campusqa)")
		concurrency = flag.Int("concurrency", loader.DefaultConcurrency, "concurrent embedding batches")
		batchSize   = flag.Int("batch", loader.DefaultBatchSize, "documents per embedding batch")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: corpusload [flags] <documents.json>")
	}
	inputPath := flag.Arg(0)

	path := *dbPath
	if path == "" {
		path = os.Getenv("CAMPUSQA_DB_PATH")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		path = filepath.Join(home, ".campusqa")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	store, err := corpus.NewSQLiteStore(filepath.Join(path, "campusqa.db"))
	if err != nil {
		log.Fatalf("Failed to open corpus store: %v", err)
	}
	defer func() { _ = store.Close() }()

	emb, err := embedder.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize embedder: %v", err)
	}
	defer func() { _ = emb.Close() }()

	log.Printf("Loading %s with provider %s (%s)", inputPath, emb.Provider(), emb.Model())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	l := loader.New(store, emb, *concurrency, *batchSize, log.Default())
	result, err := l.LoadFile(ctx, inputPath)
	if err != nil {
		log.Fatalf("Load failed: %v", err)
	}

	log.Printf("Loaded %d documents (%d embedded, %d skipped) in %s",
		result.Loaded, result.Embedded, result.Skipped, result.Elapsed.Round(10*time.Millisecond))
}
