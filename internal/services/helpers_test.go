package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"zhasqoldau/internal/models"
)

// --- подменяемые часы ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- in-memory OtpStore ---

type memOtpStore struct {
	mu   sync.Mutex
	seq  int64
	recs []*models.OtpCode
}

func newMemOtpStore() *memOtpStore { return &memOtpStore{} }

func (s *memOtpStore) Create(rec *models.OtpCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec.ID = s.seq
	cp := *rec
	s.recs = append(s.recs, &cp)
	return nil
}

func (s *memOtpStore) LatestByIIN(iin string) (*models.OtpCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.OtpCode
	for _, r := range s.recs {
		if r.IIN != iin {
			continue
		}
		if latest == nil || !r.CreatedAt.Before(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (s *memOtpStore) IncrementAttempts(id int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recs {
		if r.ID == id {
			r.Attempts++
			return r.Attempts, nil
		}
	}
	return 0, errors.New("otp record not found")
}

func (s *memOtpStore) Consume(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recs {
		if r.ID == id {
			r.Consumed = true
			return nil
		}
	}
	return errors.New("otp record not found")
}

func (s *memOtpStore) ExpireNow(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recs {
		if r.ID == id {
			r.Consumed = true
			r.ExpiresAt = time.Unix(0, 0)
			return nil
		}
	}
	return errors.New("otp record not found")
}

func (s *memOtpStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.recs {
		if r.ID == id {
			s.recs = append(s.recs[:i], s.recs[i+1:]...)
			return nil
		}
	}
	return errors.New("otp record not found")
}

func (s *memOtpStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

// --- in-memory UserStore ---

type memUserStore struct {
	mu    sync.Mutex
	seq   int
	users map[string]*models.User
}

func newMemUserStore(users ...*models.User) *memUserStore {
	s := &memUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		_ = s.Create(u)
	}
	return s
}

func (s *memUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.IIN]; ok {
		return errors.New("duplicate iin")
	}
	s.seq++
	user.ID = s.seq
	cp := *user
	s.users[user.IIN] = &cp
	return nil
}

func (s *memUserStore) GetByIIN(iin string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[iin]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) GetByID(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// --- доставка ---

type fakeSender struct {
	mu       sync.Mutex
	calls    int
	lastCode string
	lastTo   string
	err      error
}

func (f *fakeSender) SendCode(ctx context.Context, user *models.User, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCode = code
	f.lastTo = user.Phone
	return f.err
}

func (f *fakeSender) LastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCode
}

func (f *fakeSender) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
