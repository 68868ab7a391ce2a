package pet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/storage"
	"github.com/pawmates/shelter-visit-backend/internal/shelter"
)

// CreateRequest carries data to list a new pet.
type CreateRequest struct {
	ShelterID   string
	Name        string
	Species     string
	Breed       string
	AgeMonths   int
	Description string
}

type Service interface {
	GetByID(ctx context.Context, id string) (*Pet, error)
	List(ctx context.Context, filter Filter) ([]*Pet, int, error)
	Create(ctx context.Context, req CreateRequest) (*Pet, error)
	UpdateAvailability(ctx context.Context, id string, availability Availability) (*Pet, error)
	AttachPhoto(ctx context.Context, id string, header *multipart.FileHeader) (*Pet, error)
	Photo(ctx context.Context, id string, thumbnail bool) (io.ReadCloser, error)
}

type service struct {
	repo           Repository
	shelterService shelter.Service
	storage        storage.Storage
	imgProc        *storage.ImageProcessor
}

func NewService(repo Repository, shelterService shelter.Service, store storage.Storage) Service {
	return &service{
		repo:           repo,
		shelterService: shelterService,
		storage:        store,
		imgProc:        storage.NewImageProcessor(),
	}
}

func (s *service) GetByID(ctx context.Context, id string) (*Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Pet, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Pet, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	// Reject listings for shelters that do not exist.
	if _, err := s.shelterService.GetByID(ctx, req.ShelterID); err != nil {
		return nil, err
	}

	p := &Pet{
		ShelterID:    req.ShelterID,
		Name:         strings.TrimSpace(req.Name),
		Species:      req.Species,
		Breed:        req.Breed,
		AgeMonths:    req.AgeMonths,
		Description:  req.Description,
		Availability: AvailabilityAvailable,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateAvailability(ctx context.Context, id string, availability Availability) (*Pet, error) {
	if !availability.Valid() {
		return nil, ErrInvalidAvailability
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Availability = availability
	if err := s.repo.UpdateAvailability(ctx, id, availability); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) AttachPhoto(ctx context.Context, id string, header *multipart.FileHeader) (*Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffer the content so it can be read twice (original + thumbnail).
	// Pet photos are small images; buffering them in memory is fine.
	fileBytes, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	photoID := uuid.New().String()

	// Sharding path: pets/ab/UUID.ext
	shard := photoID[:2]
	photoPath := fmt.Sprintf("pets/%s/%s%s", shard, photoID, ext)

	if err := s.storage.Save(ctx, photoPath, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("failed to save photo to storage: %w", err)
	}

	var thumbnailPath *string
	thumbReader, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 200, 200)
	if err == nil {
		tPath := fmt.Sprintf("pets/%s/%s_thumb.jpg", shard, photoID)
		if err := s.storage.Save(ctx, tPath, thumbReader); err == nil {
			thumbnailPath = &tPath
		}
	}
	// Photo stays usable even when thumbnail generation fails.

	// Replace previous photo, best-effort cleanup of the old files.
	oldPhoto, oldThumb := p.PhotoPath, p.ThumbnailPath

	p.PhotoPath = &photoPath
	p.ThumbnailPath = thumbnailPath
	if err := s.repo.UpdatePhoto(ctx, id, &photoPath, thumbnailPath); err != nil {
		_ = s.storage.Delete(ctx, photoPath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	if oldPhoto != nil {
		_ = s.storage.Delete(ctx, *oldPhoto)
	}
	if oldThumb != nil {
		_ = s.storage.Delete(ctx, *oldThumb)
	}

	return p, nil
}

func (s *service) Photo(ctx context.Context, id string, thumbnail bool) (io.ReadCloser, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path := p.PhotoPath
	if thumbnail && p.ThumbnailPath != nil {
		path = p.ThumbnailPath
	}
	if path == nil {
		return nil, ErrNotFound
	}

	return s.storage.Get(ctx, *path)
}
