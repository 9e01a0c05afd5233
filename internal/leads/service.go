package leads

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/cache"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/pipeline"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const allLeadsKey = "leads:all"

var (
	ErrNotFound      = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidDate   = errors.New("invalid follow-up date")
	ErrEmptyName     = errors.New("name must not be empty")
)

type Notifier interface {
	SendReminderNotice(ctx context.Context, lead models.Lead) (string, error)
}

type Service struct {
	repo     Repository
	cache    cache.Cache
	cacheTTL time.Duration
	location *time.Location
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, c cache.Cache, cacheTTL time.Duration, location *time.Location, notifier Notifier, log *slog.Logger) *Service {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Service{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		location: location,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Now is the service clock in the configured timezone.
func (s *Service) Now() time.Time {
	return s.now().In(s.location)
}

func (s *Service) Location() *time.Location {
	return s.location
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (models.Lead, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Lead{}, ErrEmptyName
	}

	status := models.StatusNew
	if raw := strings.ToLower(strings.TrimSpace(req.Status)); raw != "" {
		if !models.IsValidStatus(raw) {
			return models.Lead{}, ErrInvalidStatus
		}
		status = models.LeadStatus(raw)
	}

	followUp := ""
	if strings.TrimSpace(req.FollowUpDate) != "" {
		normalized, err := pipeline.NormalizeDate(strings.TrimSpace(req.FollowUpDate), s.location)
		if err != nil {
			return models.Lead{}, ErrInvalidDate
		}
		followUp = normalized
	}

	now := s.Now()
	lead := models.Lead{
		ID:             primitive.NewObjectID().Hex(),
		Name:           name,
		Industry:       strings.TrimSpace(req.Industry),
		Location:       strings.TrimSpace(req.Location),
		Country:        strings.TrimSpace(req.Country),
		Website:        strings.TrimSpace(req.Website),
		Phone:          strings.TrimSpace(req.Phone),
		Email:          strings.TrimSpace(req.Email),
		LinkedIn:       strings.TrimSpace(req.LinkedIn),
		Status:         status,
		PipelineStatus: status,
		SourceType:     models.SourceManual,
		Rating:         req.Rating,
		Reviews:        req.Reviews,
		ImageURL:       strings.TrimSpace(req.ImageURL),
		FollowUpDate:   followUp,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return models.Lead{}, err
	}
	s.invalidate(ctx)
	return lead, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]models.Lead, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status != "" && !models.IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}

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

func (s *Service) Get(ctx context.Context, id string) (models.Lead, error) {
	lead, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return models.Lead{}, mapNotFound(err)
	}
	return lead, nil
}

func (s *Service) UpdateFields(ctx context.Context, id string, req UpdateRequest) (models.Lead, error) {
	set := bson.M{}
	setString := func(key string, v *string) {
		if v != nil {
			set[key] = strings.TrimSpace(*v)
		}
	}
	setString("name", req.Name)
	setString("industry", req.Industry)
	setString("location", req.Location)
	setString("country", req.Country)
	setString("website", req.Website)
	setString("phone", req.Phone)
	setString("email", req.Email)
	setString("linkedin", req.LinkedIn)
	setString("imageUrl", req.ImageURL)

	if name, ok := set["name"]; ok && name == "" {
		return models.Lead{}, ErrEmptyName
	}
	return s.update(ctx, id, set, nil)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (models.Lead, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.IsValidStatus(status) {
		return models.Lead{}, ErrInvalidStatus
	}
	return s.update(ctx, id, statusSet(models.LeadStatus(status)), nil)
}

// Advance moves the lead one stage forward, clamped at qualified.
func (s *Service) Advance(ctx context.Context, id string) (models.Lead, error) {
	return s.step(ctx, id, pipeline.NextStatus)
}

// Regress moves the lead one stage back, clamped at new.
func (s *Service) Regress(ctx context.Context, id string) (models.Lead, error) {
	return s.step(ctx, id, pipeline.PrevStatus)
}

func (s *Service) step(ctx context.Context, id string, next func(models.LeadStatus) models.LeadStatus) (models.Lead, error) {
	lead, err := s.Get(ctx, id)
	if err != nil {
		return models.Lead{}, err
	}
	return s.update(ctx, lead.ID, statusSet(next(lead.Status)), nil)
}

func (s *Service) SetReminder(ctx context.Context, id, date string) (models.Lead, error) {
	normalized, err := pipeline.NormalizeDate(strings.TrimSpace(date), s.location)
	if err != nil {
		return models.Lead{}, ErrInvalidDate
	}
	return s.update(ctx, id, bson.M{"followUpDate": normalized}, nil)
}

func (s *Service) ClearReminder(ctx context.Context, id string) (models.Lead, error) {
	return s.update(ctx, id, nil, []string{"followUpDate"})
}

func (s *Service) SetNotes(ctx context.Context, id, notes string) (models.Lead, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return s.ClearNotes(ctx, id)
	}
	return s.update(ctx, id, bson.M{"notes": notes}, nil)
}

func (s *Service) ClearNotes(ctx context.Context, id string) (models.Lead, error) {
	return s.update(ctx, id, nil, []string{"notes"})
}

// Import stores an already parsed batch in one write. An empty batch is a
// no-op, not an error.
func (s *Service) Import(ctx context.Context, batch []models.Lead) (ImportResult, error) {
	result := ImportResult{Ready: len(batch)}
	if len(batch) == 0 {
		return result, nil
	}

	now := s.Now()
	for i := range batch {
		batch[i].CreatedAt = now
		batch[i].UpdatedAt = now
	}
	if err := s.repo.CreateMany(ctx, batch); err != nil {
		return result, err
	}
	s.invalidate(ctx)
	result.Imported = len(batch)
	return result, nil
}

func (s *Service) Board(ctx context.Context, view pipeline.ViewState) (pipeline.Board, error) {
	leads, err := s.all(ctx)
	if err != nil {
		return pipeline.Board{}, err
	}
	return pipeline.BuildBoard(leads, s.Now(), view, s.location), nil
}

func (s *Service) Calendar(ctx context.Context, year int, month time.Month) ([]pipeline.CalendarDay, error) {
	leads, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	days := pipeline.BuildCalendar(year, month, s.location)
	return pipeline.PlaceOnCalendar(days, leads, s.Now(), s.location), nil
}

func (s *Service) Summary(ctx context.Context) (pipeline.Summary, error) {
	leads, err := s.all(ctx)
	if err != nil {
		return pipeline.Summary{}, err
	}
	return pipeline.Summarize(leads, s.Now(), s.location), nil
}

func (s *Service) NotifyReminder(ctx context.Context, lead models.Lead) error {
	if s.notifier == nil || !lead.HasReminder() {
		return nil
	}
	_, err := s.notifier.SendReminderNotice(ctx, lead)
	return err
}

func (s *Service) update(ctx context.Context, id string, set bson.M, unset []string) (models.Lead, error) {
	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set, unset, s.Now())
	if err != nil {
		return models.Lead{}, mapNotFound(err)
	}
	s.invalidate(ctx)
	return updated, nil
}

// all returns every lead, newest first, through the read cache.
func (s *Service) all(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	if ok, err := cache.GetJSON(ctx, s.cache, allLeadsKey, &leads); err != nil {
		s.logWarn("leads cache: read failed", err)
	} else if ok {
		return leads, nil
	}

	leads, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, s.cache, allLeadsKey, leads, s.cacheTTL); err != nil {
		s.logWarn("leads cache: write failed", err)
	}
	return leads, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, allLeadsKey); err != nil {
		s.logWarn("leads cache: invalidate failed", err)
	}
}

func (s *Service) logWarn(msg string, err error) {
	if s.log != nil {
		s.log.Warn(msg, slog.String("error", err.Error()))
	}
}

func statusSet(status models.LeadStatus) bson.M {
	return bson.M{"status": status, "pipelineStatus": status}
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
