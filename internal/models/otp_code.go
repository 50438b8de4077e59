package models

import "time"

// OtpCode — отдельная запись на каждую отправку кода.
// Храним только bcrypt-хэш кода (CodeHash), TTL и счётчики.
// Resends: 0 для первой отправки в цепочке, каждая повторная — +1.
type OtpCode struct {
	ID        int64     `json:"id"`
	IIN       string    `json:"iin"`
	CodeHash  string    `json:"-"`
	Resends   int       `json:"resends"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
}

// Active — код ещё можно вводить: не использован и не протух.
func (o *OtpCode) Active(now time.Time) bool {
	return o != nil && !o.Consumed && now.Before(o.ExpiresAt)
}
