package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"zhasqoldau/internal/models"
)

var (
	ErrRefreshRequired = errors.New("refresh token required")
	ErrInvalidRefresh  = errors.New("invalid refresh token")
	ErrInvalidAccess   = errors.New("invalid access token")
)

// Claims — ИИН как основной клейм, user_id для выборок.
type Claims struct {
	UserID int    `json:"user_id"`
	IIN    string `json:"iin"`
	jwt.RegisteredClaims
}

// TokenService — подписанные HS256 токены: access с коротким TTL,
// refresh с отдельным секретом и длинным TTL. Refresh не хранится в БД
// и не отзывается — валиден до истечения.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	nowFunc func() time.Time
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		nowFunc:       time.Now,
	}
}

func (s *TokenService) now() time.Time {
	if s.nowFunc != nil {
		return s.nowFunc()
	}
	return time.Now()
}

// Issue — пара токенов для подтверждённой личности.
func (s *TokenService) Issue(user *models.User) (*models.TokenPair, error) {
	access, err := s.sign(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh — проверяет refresh-токен и выдаёт новую пару (ротация).
func (s *TokenService) Refresh(raw string) (*models.TokenPair, error) {
	if raw == "" {
		return nil, ErrRefreshRequired
	}
	claims, err := s.parse(raw, s.refreshSecret)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	user := &models.User{ID: claims.UserID, IIN: claims.IIN}
	return s.Issue(user)
}

// ParseAccess — для bearer-middleware.
func (s *TokenService) ParseAccess(raw string) (*Claims, error) {
	claims, err := s.parse(raw, s.accessSecret)
	if err != nil {
		return nil, ErrInvalidAccess
	}
	return claims, nil
}

func (s *TokenService) sign(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		IIN:    user.IIN,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *TokenService) parse(raw string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		// защита: принимаем только HMAC (HS256 и т.п.)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(s.now()) {
		return nil, jwt.ErrTokenExpired
	}
	return claims, nil
}
