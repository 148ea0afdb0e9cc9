package varieties

import (
	"context"
	"fmt"

	"grapetracker/internal/app/client/manifest"
	"grapetracker/internal/domain/variety"
)

const photoProperty = "photo"

// Store is the persistence the view delegates to.
type Store interface {
	FindPage(ctx context.Context, page, perPage int) (items []variety.Variety, hasMore bool, err error)
	Create(ctx context.Context, p variety.Payload) (variety.Variety, error)
	Delete(ctx context.Context, id int) error
	UploadPhoto(ctx context.Context, a *variety.Attachment) (variety.Photo, error)
}

// ManifestStore reads and writes varieties through a backend collection.
type ManifestStore struct {
	col *manifest.Collection
}

func NewManifestStore(client *manifest.Client) *ManifestStore {
	return &ManifestStore{col: client.Collection(variety.Collection)}
}

func (s *ManifestStore) FindPage(ctx context.Context, page, perPage int) ([]variety.Variety, bool, error) {
	p, err := s.col.Find(ctx, manifest.FindOptions{
		Include: []string{"grower"},
		OrderBy: "createdAt",
		Order:   manifest.Desc,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, false, err
	}

	var items []variety.Variety
	if err := p.Decode(&items); err != nil {
		return nil, false, err
	}
	return items, p.HasMore(), nil
}

func (s *ManifestStore) Create(ctx context.Context, p variety.Payload) (variety.Variety, error) {
	var created variety.Variety
	if err := s.col.Create(ctx, p, &created); err != nil {
		return variety.Variety{}, err
	}
	return created, nil
}

func (s *ManifestStore) Delete(ctx context.Context, id int) error {
	return s.col.Delete(ctx, id)
}

func (s *ManifestStore) UploadPhoto(ctx context.Context, a *variety.Attachment) (variety.Photo, error) {
	urls, err := s.col.Upload(ctx, photoProperty, manifest.File{
		Name:        a.Filename,
		ContentType: a.ContentType,
		Data:        a.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}
	return variety.Photo(urls), nil
}
