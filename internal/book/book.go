package book

import (
	"errors"
)

var (
	// ErrInvalidArgument is returned for malformed ids or missing fields.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")

	// ErrConflict is returned when an update would duplicate another book's natural key.
	ErrConflict = errors.New("book conflicts with an existing book")

	// ErrUnavailable is returned when the store cannot be reached or a query fails.
	ErrUnavailable = errors.New("book store unavailable")

	// ErrUpstreamUnavailable is returned when the external provider fails.
	ErrUpstreamUnavailable = errors.New("external book provider unavailable")
)

// Placeholders stored when a value is unknown.
const (
	PlaceholderImageURL = "https://i.imgur.com/J5LVHEL.jpg"
	NoTitle             = "No title available"
	NoAuthors           = "No authors available"
	NoISBN              = "No ISBN available"
	NoDescription       = "No description available"
	externalISBNPrefix  = "ISBN_13 "
)

// Fields are the caller-supplied columns of a book.
type Fields struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Author      string `json:"author" validate:"required,notblank,max=50"`
	ISBN        string `json:"isbn" validate:"max=30"`
	ImageURL    string `json:"image_url" validate:"max=255"`
	Description string `json:"description"`
}

// Book represents a stored book. ID is assigned by the store.
type Book struct {
	ID int64 `json:"id"`
	Fields
}

// Summary is the list view of a book.
type Summary struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	ImageURL string `json:"image_url"`
}

// ExternalBook is a provider result shaped like a Book. It is never stored.
// ID is the provider's identifier, or empty when it has none.
type ExternalBook struct {
	ID string `json:"id"`
	Fields
}

// ExternalQuery filters an external search. All terms are optional.
type ExternalQuery struct {
	Title  string
	Author string
	ISBN   string
}

// Outcome tells a create apart from an ignored duplicate.
type Outcome string

const (
	OutcomeCreated          Outcome = "created"
	OutcomeIgnoredDuplicate Outcome = "ignored_duplicate"
)

// CreateResult is returned by a successful create. ID is zero for an ignored duplicate.
type CreateResult struct {
	Outcome Outcome `json:"outcome"`
	ID      int64   `json:"id,omitempty"`
}

// WithDefaults fills empty optional fields with their placeholders so no
// row is ever written half empty.
func (f Fields) WithDefaults() Fields {
	if f.ISBN == "" {
		f.ISBN = NoISBN
	}
	if f.ImageURL == "" {
		f.ImageURL = PlaceholderImageURL
	}
	if f.Description == "" {
		f.Description = NoDescription
	}
	return f
}
