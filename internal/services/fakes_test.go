package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/AnshRaj112/serenify-companion/internal/database"
	"github.com/AnshRaj112/serenify-companion/internal/events"
	"github.com/AnshRaj112/serenify-companion/internal/models"
)

type memActivityStore struct {
	mu      sync.Mutex
	records []models.ActivityRecord
	err     error
	finds   int
}

func (m *memActivityStore) Insert(_ context.Context, rec models.ActivityRecord) (models.ActivityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.ActivityRecord{}, m.err
	}
	if err := rec.Validate(); err != nil {
		return models.ActivityRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *memActivityStore) FindByUser(ctx context.Context, userID string) ([]models.ActivityRecord, error) {
	m.mu.Lock()
	m.finds++
	m.mu.Unlock()
	return m.ListByUser(ctx, userID, 0)
}

func (m *memActivityStore) ListByUser(_ context.Context, userID string, limit int) ([]models.ActivityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.ActivityRecord{}
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memDashboardCache struct {
	mu          sync.Mutex
	entries     map[string]DashboardSummary
	versions    map[string]int64
	invalidated []string
	getErr      error
}

func newMemDashboardCache() *memDashboardCache {
	return &memDashboardCache{
		entries:  make(map[string]DashboardSummary),
		versions: make(map[string]int64),
	}
}

func (c *memDashboardCache) GetDashboard(_ context.Context, userID string) (DashboardSummary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return DashboardSummary{}, false, c.getErr
	}
	s, ok := c.entries[userID]
	return s, ok, nil
}

func (c *memDashboardCache) DashboardVersion(_ context.Context, userID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[userID], nil
}

func (c *memDashboardCache) SetDashboard(_ context.Context, userID string, version int64, summary DashboardSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[userID] != version {
		return nil
	}
	c.entries[userID] = summary
	return nil
}

func (c *memDashboardCache) InvalidateDashboard(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.versions[userID]++
	c.invalidated = append(c.invalidated, userID)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ActivityRecorded
	err    error
}

func (p *recordingPublisher) PublishActivity(_ context.Context, evt events.ActivityRecorded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type memGoalStore struct {
	mu    sync.Mutex
	goals map[string]models.Goal
	err   error
}

func newMemGoalStore() *memGoalStore {
	return &memGoalStore{goals: make(map[string]models.Goal)}
}

func (m *memGoalStore) Upsert(_ context.Context, g models.Goal) (models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Goal{}, m.err
	}
	key := g.UserID + "|" + g.Type
	if existing, ok := m.goals[key]; ok {
		g.ID = existing.ID
	} else {
		g.ID = uuid.NewString()
	}
	m.goals[key] = g
	return g, nil
}

func (m *memGoalStore) ListByUser(_ context.Context, userID string) ([]models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Goal{}
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

type memJournalStore struct {
	mu       sync.Mutex
	journals []models.Journal
	err      error
}

func (m *memJournalStore) Insert(_ context.Context, j models.Journal) (models.Journal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Journal{}, m.err
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	m.journals = append(m.journals, j)
	return j, nil
}

func (m *memJournalStore) ListByUser(_ context.Context, userID string, limit, skip int) ([]models.Journal, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Journal{}
	for i := len(m.journals) - 1; i >= 0; i-- {
		if m.journals[i].UserID == userID {
			out = append(out, m.journals[i])
		}
	}
	total := int64(len(out))
	if skip >= len(out) {
		return []models.Journal{}, total, nil
	}
	out = out[skip:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

type memMeditationStore struct {
	mu       sync.Mutex
	sessions []models.MeditationSession
	err      error
}

func (m *memMeditationStore) Insert(_ context.Context, s models.MeditationSession) (models.MeditationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.MeditationSession{}, m.err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.sessions = append(m.sessions, s)
	return s, nil
}

func (m *memMeditationStore) ListByUser(_ context.Context, userID string, limit int) ([]models.MeditationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.MeditationSession{}
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memMoodStore struct {
	mu      sync.Mutex
	entries []models.MoodEntry
}

func (m *memMoodStore) Insert(_ context.Context, e models.MoodEntry) (models.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memMoodStore) ListByUser(_ context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.MoodEntry{}
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
	err   error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User)}
}

func (m *memUserStore) Create(_ context.Context, username, hash string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			return models.User{}, database.ErrDuplicate
		}
	}
	u := models.User{ID: uuid.NewString(), Username: username, PasswordHash: hash, IsActive: true}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, database.ErrNotFound
}

func (m *memUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, database.ErrNotFound
	}
	return u, nil
}
