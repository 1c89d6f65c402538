// Package bootstrap prepares the book store on startup: it ensures the
// schema exists and loads the bundled seed dataset into an empty table.
package bootstrap

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"bookcatalog/internal/book"
)

//go:embed data/books.json
var defaultSeed []byte

// Store is the part of the book store the loader needs.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, f book.Fields) (book.CreateResult, error)
}

// Report summarizes one Run.
type Report struct {
	SchemaReady bool
	Existing    int
	Seeded      bool
	Created     int
	Ignored     int
	Failed      int
}

type Loader struct {
	store    Store
	readSeed func() ([]byte, error)
}

// NewLoader returns a loader that seeds from seedFile, or from the embedded
// dataset when seedFile is empty.
func NewLoader(store Store, seedFile string) *Loader {
	l := &Loader{store: store}
	if seedFile == "" {
		l.readSeed = func() ([]byte, error) { return defaultSeed, nil }
	} else {
		l.readSeed = func() ([]byte, error) { return os.ReadFile(seedFile) }
	}
	return l
}

// Run ensures the schema and seeds an empty store. Only a schema failure is
// returned; seeding is best effort and its problems are logged.
func (l *Loader) Run(ctx context.Context) (Report, error) {
	var report Report

	if err := l.store.EnsureSchema(ctx); err != nil {
		return report, fmt.Errorf("ensure schema: %w", err)
	}
	report.SchemaReady = true

	existing, err := l.store.Count(ctx)
	if err != nil {
		log.Printf("bootstrap: count books failed, skipping seed: %v", err)
		return report, nil
	}
	report.Existing = existing
	if existing > 0 {
		log.Printf("bootstrap: store has %d books, skipping seed", existing)
		return report, nil
	}

	entries, err := l.loadSeed()
	if err != nil {
		log.Printf("bootstrap: load seed failed: %v", err)
		return report, nil
	}

	report.Seeded = true
	for i, f := range entries {
		if err := f.Validate(); err != nil {
			report.Failed++
			log.Printf("bootstrap: seed entry %d (%q) rejected: %v", i, f.Title, err)
			continue
		}
		res, err := l.store.Create(ctx, f)
		if err != nil {
			report.Failed++
			log.Printf("bootstrap: seed entry %d (%q) failed: %v", i, f.Title, err)
			continue
		}
		switch res.Outcome {
		case book.OutcomeCreated:
			report.Created++
		case book.OutcomeIgnoredDuplicate:
			report.Ignored++
		}
	}

	log.Printf("bootstrap: seeded created=%d ignored=%d failed=%d", report.Created, report.Ignored, report.Failed)
	return report, nil
}

func (l *Loader) loadSeed() ([]book.Fields, error) {
	raw, err := l.readSeed()
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	var entries []book.Fields
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return entries, nil
}
