package repositories

import (
	"database/sql"
	"fmt"

	"zhasqoldau/internal/models"
)

type OtpRepository struct {
	DB *sql.DB
}

func NewOtpRepository(db *sql.DB) *OtpRepository {
	return &OtpRepository{DB: db}
}

// Create — каждая отправка кода — новая строка.
func (r *OtpRepository) Create(rec *models.OtpCode) error {
	const q = `
		INSERT INTO otp_codes (iin, code_hash, resends, attempts, created_at, expires_at, consumed)
		VALUES ($1, $2, $3, 0, $4, $5, FALSE)
		RETURNING id
	`
	if err := r.DB.QueryRow(q,
		rec.IIN, rec.CodeHash, rec.Resends, rec.CreatedAt, rec.ExpiresAt,
	).Scan(&rec.ID); err != nil {
		return fmt.Errorf("otp create: %w", err)
	}
	return nil
}

// LatestByIIN — последняя отправка для ИИН (по created_at DESC).
func (r *OtpRepository) LatestByIIN(iin string) (*models.OtpCode, error) {
	const q = `
		SELECT id, iin, code_hash, resends, attempts, created_at, expires_at, consumed
		FROM otp_codes
		WHERE iin = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.DB.QueryRow(q, iin)

	var rec models.OtpCode
	if err := row.Scan(
		&rec.ID, &rec.IIN, &rec.CodeHash, &rec.Resends, &rec.Attempts,
		&rec.CreatedAt, &rec.ExpiresAt, &rec.Consumed,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("otp latest: %w", err)
	}
	return &rec, nil
}

// IncrementAttempts — +1 попытка, возвращает новое значение attempts.
func (r *OtpRepository) IncrementAttempts(id int64) (int, error) {
	const q = `
		UPDATE otp_codes
		SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.DB.QueryRow(q, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("otp increment attempts: %w", err)
	}
	return attempts, nil
}

// Consume — пометить код использованным (одноразовость).
func (r *OtpRepository) Consume(id int64) error {
	if _, err := r.DB.Exec(`UPDATE otp_codes SET consumed = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("otp consume: %w", err)
	}
	return nil
}

// ExpireNow — моментально "протухаем" код (превышение попыток, истечение).
func (r *OtpRepository) ExpireNow(id int64) error {
	if _, err := r.DB.Exec(`UPDATE otp_codes SET expires_at = NOW(), consumed = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("otp expire now: %w", err)
	}
	return nil
}

// Delete — откат записи при фейле доставки.
func (r *OtpRepository) Delete(id int64) error {
	if _, err := r.DB.Exec(`DELETE FROM otp_codes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("otp delete: %w", err)
	}
	return nil
}
