package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bigkaa/textpolish/internal/domain/model"
	"github.com/bigkaa/textpolish/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memTextRepo — in-memory TextRepository с той же фильтрацией по владельцу.
type memTextRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]model.Text
}

func newMemTextRepo() *memTextRepo {
	return &memTextRepo{rows: make(map[int64]model.Text)}
}

func (r *memTextRepo) Create(_ context.Context, t *model.Text) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	t.UpdatedAt = t.CreatedAt
	r.rows[t.ID] = *t
	return nil
}

func (r *memTextRepo) GetByID(_ context.Context, ownerID, id int64) (*model.Text, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok || t.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *memTextRepo) List(_ context.Context, ownerID int64, filter repository.TextFilter) ([]*model.Text, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	var out []*model.Text
	for _, t := range r.rows {
		if t.UserID != ownerID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.OriginalText), q) &&
			!strings.Contains(strings.ToLower(t.ImprovedText), q) {
			continue
		}
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memTextRepo) Update(_ context.Context, t *model.Text) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[t.ID]
	if !ok || cur.UserID != t.UserID {
		return repository.ErrNotFound
	}
	cur.OriginalText = t.OriginalText
	cur.ImprovedText = t.ImprovedText
	cur.UpdatedAt = t.UpdatedAt
	r.rows[t.ID] = cur
	return nil
}

func (r *memTextRepo) Delete(_ context.Context, ownerID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[id]
	if !ok || t.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memTextRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// memUserRepo — in-memory UserRepository.
type memUserRepo struct {
	mu      sync.Mutex
	nextID  int64
	byName  map[string]*model.User
	creates int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byName: make(map[string]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[u.Username]; ok {
		return repository.ErrConflict
	}
	r.nextID++
	r.creates++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	cp := *u
	r.byName[u.Username] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byName {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byName[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// stubImprover возвращает заданный ответ и считает вызовы.
type stubImprover struct {
	reply string
	err   error
	calls int
}

func (s *stubImprover) Improve(_ context.Context, text string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if s.reply != "" {
		return s.reply, nil
	}
	return "improved: " + text, nil
}

// stepClock — часы, которые возвращают фиксированное время до явного сдвига.
type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time { return c.t }
