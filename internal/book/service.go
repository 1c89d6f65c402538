package book

import (
	"context"
	"log"
)

// Service is the catalog facade the transport layer calls. Each method maps
// to exactly one store or finder operation.
type Service struct {
	repo        Repository
	finder      Finder
	adminSecret string
}

// NewService creates a new book service. finder may be nil, in which case
// external searches report ErrUpstreamUnavailable.
func NewService(repo Repository, finder Finder, adminSecret string) *Service {
	return &Service{repo: repo, finder: finder, adminSecret: adminSecret}
}

// List returns summaries of every stored book in insertion order.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.ListSummaries(ctx)
}

// Get returns a book by its raw path id.
func (s *Service) Get(ctx context.Context, rawID string) (Book, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return Book{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// FindExternal searches the external provider. Results are not stored.
func (s *Service) FindExternal(ctx context.Context, q ExternalQuery) ([]ExternalBook, error) {
	if s.finder == nil {
		return nil, ErrUpstreamUnavailable
	}
	return s.finder.Find(ctx, q)
}

// Create validates f and stores it as given. A duplicate natural key is not an error;
// the result reports it as OutcomeIgnoredDuplicate.
func (s *Service) Create(ctx context.Context, f Fields) (CreateResult, error) {
	if err := f.Validate(); err != nil {
		return CreateResult{}, err
	}

	res, err := s.repo.Create(ctx, f)
	if err != nil {
		return CreateResult{}, err
	}
	if res.Outcome == OutcomeIgnoredDuplicate {
		log.Printf("book create ignored duplicate title=%q author=%q isbn=%q", f.Title, f.Author, f.ISBN)
	}
	return res, nil
}

// Update replaces every field of the book. A missing book yields ErrNotFound.
func (s *Service) Update(ctx context.Context, rawID string, f Fields) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, f)
}

// Delete removes the book. Deleting a missing book succeeds.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// CheckAdminToken reports whether token equals the configured admin secret.
// This is a plain comparison and only gates admin views in the client; it
// is not an authentication mechanism. An unset secret never matches.
func (s *Service) CheckAdminToken(token string) bool {
	return s.adminSecret != "" && token == s.adminSecret
}
