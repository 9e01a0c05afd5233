package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrEmpty = errors.New("note title and content are required")

type Service struct {
	repo     Repository
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (models.Note, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return models.Note{}, ErrEmpty
	}

	note := models.Note{
		ID:        primitive.NewObjectID().Hex(),
		Title:     title,
		Content:   content,
		CreatedAt: s.now().In(s.location),
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]models.Note, int64, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
