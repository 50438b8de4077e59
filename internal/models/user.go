package models

import "time"

type User struct {
	ID        int       `json:"id"`
	IIN       string    `json:"iin"` // 12 цифр, уникальный и неизменяемый
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	BirthDate string    `json:"birth_date"` // YYYY-MM-DD
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	District  string    `json:"district"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenPair — access (короткий TTL) + refresh (длинный TTL, отдельный секрет).
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SendOtpRequest struct {
	IIN string `json:"iin" binding:"required"`
}

type VerifyOtpRequest struct {
	IIN  string `json:"iin" binding:"required"`
	Code string `json:"code" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
