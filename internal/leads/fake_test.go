package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// memoryRepository is an in-memory Repository that applies $set/$unset the
// way the Mongo repository does.
type memoryRepository struct {
	mu           sync.Mutex
	leads        map[string]models.Lead
	err          error
	listAllCalls int
}

func newMemoryRepository(seed ...models.Lead) *memoryRepository {
	repo := &memoryRepository{leads: map[string]models.Lead{}}
	for _, lead := range seed {
		repo.leads[lead.ID] = lead
	}
	return repo
}

func (m *memoryRepository) Create(ctx context.Context, lead models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.leads[lead.ID] = lead
	return nil
}

func (m *memoryRepository) CreateMany(ctx context.Context, leads []models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, lead := range leads {
		m.leads[lead.ID] = lead
	}
	return nil
}

func (m *memoryRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]models.Lead, error) {
	items, err := m.filtered(filter)
	if err != nil {
		return nil, err
	}
	if offset >= int64(len(items)) {
		return []models.Lead{}, nil
	}
	items = items[offset:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items, nil
}

func (m *memoryRepository) ListAll(ctx context.Context) ([]models.Lead, error) {
	m.mu.Lock()
	m.listAllCalls++
	m.mu.Unlock()
	return m.filtered(ListFilter{})
}

func (m *memoryRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	items, err := m.filtered(filter)
	return int64(len(items)), err
}

func (m *memoryRepository) GetByID(ctx context.Context, id string) (models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Lead{}, m.err
	}
	lead, ok := m.leads[id]
	if !ok {
		return models.Lead{}, mongo.ErrNoDocuments
	}
	return lead, nil
}

func (m *memoryRepository) Update(ctx context.Context, id string, set bson.M, unset []string, now time.Time) (models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Lead{}, m.err
	}
	lead, ok := m.leads[id]
	if !ok {
		return models.Lead{}, mongo.ErrNoDocuments
	}

	raw, err := bson.Marshal(lead)
	if err != nil {
		return models.Lead{}, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return models.Lead{}, err
	}
	for k, v := range set {
		doc[k] = v
	}
	doc["updatedAt"] = now
	for _, k := range unset {
		delete(doc, k)
	}
	if raw, err = bson.Marshal(doc); err != nil {
		return models.Lead{}, err
	}
	var updated models.Lead
	if err := bson.Unmarshal(raw, &updated); err != nil {
		return models.Lead{}, err
	}
	m.leads[id] = updated
	return updated, nil
}

func (m *memoryRepository) filtered(filter ListFilter) ([]models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	items := make([]models.Lead, 0, len(m.leads))
	for _, lead := range m.leads {
		if filter.Status != "" && string(lead.Status) != filter.Status {
			continue
		}
		if filter.ScheduledOnly && !lead.HasReminder() {
			continue
		}
		items = append(items, lead)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
