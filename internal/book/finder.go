package book

import (
	"context"
	"fmt"

	"bookcatalog/internal/platform/googlebooks"
)

// VolumeSearcher is the part of the Google Books client the finder needs.
type VolumeSearcher interface {
	SearchVolumes(ctx context.Context, q googlebooks.Query) (*googlebooks.VolumesResponse, error)
}

// GoogleBooksFinder turns Google Books volumes into ExternalBooks.
type GoogleBooksFinder struct {
	client VolumeSearcher
}

func NewGoogleBooksFinder(client VolumeSearcher) *GoogleBooksFinder {
	return &GoogleBooksFinder{client: client}
}

// Find returns one normalized book per volume, in provider order. Any
// provider failure yields ErrUpstreamUnavailable and no books.
func (f *GoogleBooksFinder) Find(ctx context.Context, q ExternalQuery) ([]ExternalBook, error) {
	res, err := f.client.SearchVolumes(ctx, googlebooks.Query{
		Title:  q.Title,
		Author: q.Author,
		ISBN:   q.ISBN,
	})
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w: %w", ErrUpstreamUnavailable, err)
	}
	if res == nil {
		return nil, fmt.Errorf("search volumes: %w: empty response", ErrUpstreamUnavailable)
	}

	out := make([]ExternalBook, 0, len(res.Items))
	for _, v := range res.Items {
		out = append(out, normalizeVolume(v.VolumeInfo))
	}
	return out, nil
}

func normalizeVolume(info googlebooks.VolumeInfo) ExternalBook {
	b := ExternalBook{
		Fields: Fields{
			Title:       NoTitle,
			Author:      NoAuthors,
			ISBN:        NoISBN,
			ImageURL:    PlaceholderImageURL,
			Description: NoDescription,
		},
	}

	if info.Title != "" {
		b.Title = info.Title
	}
	if len(info.Authors) > 0 && info.Authors[0] != "" {
		b.Author = info.Authors[0]
	}
	if len(info.IndustryIdentifiers) > 0 && info.IndustryIdentifiers[0].Identifier != "" {
		id := info.IndustryIdentifiers[0].Identifier
		b.ISBN = externalISBNPrefix + id
		b.ID = id
	}
	if info.ImageLinks != nil && info.ImageLinks.SmallThumbnail != "" {
		b.ImageURL = info.ImageLinks.SmallThumbnail
	}
	if info.Description != "" {
		b.Description = info.Description
	}
	return b
}
