package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"zhasqoldau/internal/models"
)

var (
	ErrOtpCooldown    = errors.New("otp cooldown")
	ErrOtpMaxResends  = errors.New("otp resend limit reached")
	ErrOtpNotFound    = errors.New("otp not found")
	ErrOtpExpired     = errors.New("otp expired")
	ErrOtpInvalid     = errors.New("otp invalid")
	ErrOtpMaxAttempts = errors.New("too many attempts")
	ErrOtpDelivery    = errors.New("otp delivery failed")
	ErrUserNotFound   = errors.New("user not found")
)

// OtpStore — персистентность записей кодов (Postgres в проде, фейк в тестах).
type OtpStore interface {
	Create(rec *models.OtpCode) error
	LatestByIIN(iin string) (*models.OtpCode, error)
	IncrementAttempts(id int64) (int, error)
	Consume(id int64) error
	ExpireNow(id int64) error
	Delete(id int64) error
}

// UserStore — доступ к пользователям по ИИН.
type UserStore interface {
	Create(user *models.User) error
	GetByIIN(iin string) (*models.User, error)
	GetByID(id int) (*models.User, error)
}

type OtpService struct {
	Store  OtpStore
	Users  UserStore
	Sender CodeSender

	TTL         time.Duration
	Cooldown    time.Duration
	MaxResends  int
	MaxAttempts int
	SendTimeout time.Duration

	nowFunc func() time.Time

	// один замок на ИИН: check+create для одного ИИН не гоняются между собой
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewOtpService(store OtpStore, users UserStore, sender CodeSender,
	ttl, cooldown time.Duration, maxResends, maxAttempts int, sendTimeout time.Duration) *OtpService {
	return &OtpService{
		Store:       store,
		Users:       users,
		Sender:      sender,
		TTL:         ttl,
		Cooldown:    cooldown,
		MaxResends:  maxResends,
		MaxAttempts: maxAttempts,
		SendTimeout: sendTimeout,
		nowFunc:     time.Now,
		locks:       map[string]*sync.Mutex{},
	}
}

func (s *OtpService) now() time.Time {
	if s.nowFunc != nil {
		return s.nowFunc()
	}
	return time.Now()
}

func (s *OtpService) lockFor(iin string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[iin]
	if !ok {
		l = &sync.Mutex{}
		s.locks[iin] = l
	}
	return l
}

// --- генерация 6-значного кода (crypto/rand) ---
func (s *OtpService) generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Send — выдаёт новый код для ИИН. Кулдаун считается от последней отправки,
// лимит повторов — внутри одной активной цепочки. Каждая отправка — новый
// код и новая запись; старый код после этого бесполезен (берём latest).
func (s *OtpService) Send(iin string) error {
	user, err := s.Users.GetByIIN(iin)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	l := s.lockFor(iin)
	l.Lock()
	defer l.Unlock()

	now := s.now()

	latest, err := s.Store.LatestByIIN(iin)
	if err != nil {
		return err
	}

	resends := 0
	if latest != nil {
		if now.Sub(latest.CreatedAt) < s.Cooldown {
			return ErrOtpCooldown
		}
		if latest.Active(now) {
			// при max_resends=2 разрешены две отправки в цепочке
			if latest.Resends+1 >= s.MaxResends {
				return ErrOtpMaxResends
			}
			resends = latest.Resends + 1
		}
	}

	code, err := s.generateCode()
	if err != nil {
		return err
	}
	codeHashBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt generate: %w", err)
	}

	rec := &models.OtpCode{
		IIN:       iin,
		CodeHash:  string(codeHashBytes),
		Resends:   resends,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}
	if err := s.Store.Create(rec); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.SendTimeout)
	defer cancel()
	if err := s.Sender.SendCode(ctx, user, code); err != nil {
		// откатываем запись: фейл доставки не съедает слот повтора
		if delErr := s.Store.Delete(rec.ID); delErr != nil {
			log.Printf("[otp][send] rollback failed: iin=%s err=%v", iin, delErr)
		}
		log.Printf("[otp][send] delivery failed: iin=%s err=%v", iin, err)
		return fmt.Errorf("%w: %v", ErrOtpDelivery, err)
	}

	log.Printf("[otp][send] ok: iin=%s resends=%d expires_at=%s", iin, resends, rec.ExpiresAt.Format(time.RFC3339))
	return nil
}

// Verify — сверяет код с bcrypt-хэшем, считает попытки, TTL.
// Успех потребляет запись (одноразовость) и возвращает пользователя.
func (s *OtpService) Verify(iin, code string) (*models.User, error) {
	l := s.lockFor(iin)
	l.Lock()
	defer l.Unlock()

	rec, err := s.Store.LatestByIIN(iin)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Consumed {
		return nil, ErrOtpNotFound
	}

	now := s.now()
	if !now.Before(rec.ExpiresAt) {
		// инвалидируем, чтобы протухший код нельзя было добивать дальше
		_ = s.Store.ExpireNow(rec.ID)
		return nil, ErrOtpExpired
	}

	attempts, err := s.Store.IncrementAttempts(rec.ID)
	if err != nil {
		return nil, err
	}
	if attempts > s.MaxAttempts {
		_ = s.Store.ExpireNow(rec.ID)
		return nil, ErrOtpMaxAttempts
	}

	// bcrypt сравнение константно по времени
	if err := bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)); err != nil {
		return nil, ErrOtpInvalid
	}

	if err := s.Store.Consume(rec.ID); err != nil {
		return nil, err
	}

	user, err := s.Users.GetByIIN(iin)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	log.Printf("[otp][verify] OK iin=%s user_id=%d", iin, user.ID)
	return user, nil
}
