package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/platform/googlebooks"
)

type mockVolumeSearcher struct {
	mock.Mock
}

func (m *mockVolumeSearcher) SearchVolumes(ctx context.Context, q googlebooks.Query) (*googlebooks.VolumesResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*googlebooks.VolumesResponse), args.Error(1)
}

func TestGoogleBooksFinder_Find(t *testing.T) {
	searcher := new(mockVolumeSearcher)
	finder := NewGoogleBooksFinder(searcher)

	searcher.On("SearchVolumes", mock.Anything, googlebooks.Query{Title: "dune", Author: "herbert"}).Return(&googlebooks.VolumesResponse{
		Items: []googlebooks.Volume{
			{ID: "a", VolumeInfo: googlebooks.VolumeInfo{
				Title:       "Dune",
				Authors:     []string{"Frank Herbert", "Brian Herbert"},
				Description: "Desert planet.",
				IndustryIdentifiers: []googlebooks.IndustryIdentifier{
					{Type: "ISBN_13", Identifier: "9780441013593"},
					{Type: "ISBN_10", Identifier: "0441013597"},
				},
				ImageLinks: &googlebooks.ImageLinks{SmallThumbnail: "http://img/small", Thumbnail: "http://img/large"},
			}},
			{ID: "b", VolumeInfo: googlebooks.VolumeInfo{Title: "Dune Messiah"}},
		},
	}, nil)

	books, err := finder.Find(context.Background(), ExternalQuery{Title: "dune", Author: "herbert"})
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, ExternalBook{
		ID: "9780441013593",
		Fields: Fields{
			Title:       "Dune",
			Author:      "Frank Herbert",
			ISBN:        "ISBN_13 9780441013593",
			ImageURL:    "http://img/small",
			Description: "Desert planet.",
		},
	}, books[0])
	assert.Equal(t, "Dune Messiah", books[1].Title)
	searcher.AssertExpectations(t)
}

func TestGoogleBooksFinder_Find_UpstreamFailure(t *testing.T) {
	searcher := new(mockVolumeSearcher)
	finder := NewGoogleBooksFinder(searcher)

	searcher.On("SearchVolumes", mock.Anything, mock.Anything).Return(nil, errors.New("decode response: unexpected EOF"))

	books, err := finder.Find(context.Background(), ExternalQuery{})
	assert.Nil(t, books)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Equal(t, StatusUpstreamUnavailable, StatusOf(err))
}

func TestGoogleBooksFinder_Find_NoItems(t *testing.T) {
	searcher := new(mockVolumeSearcher)
	finder := NewGoogleBooksFinder(searcher)

	searcher.On("SearchVolumes", mock.Anything, googlebooks.Query{}).Return(&googlebooks.VolumesResponse{TotalItems: 0}, nil)

	books, err := finder.Find(context.Background(), ExternalQuery{})
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestNormalizeVolume(t *testing.T) {
	tests := []struct {
		name string
		info googlebooks.VolumeInfo
		want ExternalBook
	}{
		{
			name: "empty volume",
			info: googlebooks.VolumeInfo{},
			want: ExternalBook{ID: "", Fields: Fields{
				Title:       NoTitle,
				Author:      NoAuthors,
				ISBN:        NoISBN,
				ImageURL:    PlaceholderImageURL,
				Description: NoDescription,
			}},
		},
		{
			name: "thumbnail without small thumbnail",
			info: googlebooks.VolumeInfo{Title: "Emma", ImageLinks: &googlebooks.ImageLinks{Thumbnail: "http://img/large"}},
			want: ExternalBook{Fields: Fields{
				Title:       "Emma",
				Author:      NoAuthors,
				ISBN:        NoISBN,
				ImageURL:    PlaceholderImageURL,
				Description: NoDescription,
			}},
		},
		{
			name: "identifier without type is still used",
			info: googlebooks.VolumeInfo{IndustryIdentifiers: []googlebooks.IndustryIdentifier{{Identifier: "OTHER:123"}}},
			want: ExternalBook{ID: "OTHER:123", Fields: Fields{
				Title:       NoTitle,
				Author:      NoAuthors,
				ISBN:        "ISBN_13 OTHER:123",
				ImageURL:    PlaceholderImageURL,
				Description: NoDescription,
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeVolume(tt.info))
		})
	}
}
