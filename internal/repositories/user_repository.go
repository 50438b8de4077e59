package repositories

import (
	"database/sql"
	"fmt"

	"zhasqoldau/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (iin, first_name, last_name, birth_date, phone, email, district, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRow(q,
		user.IIN, user.FirstName, user.LastName, user.BirthDate,
		user.Phone, user.Email, user.District, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByIIN(iin string) (*models.User, error) {
	const q = `
		SELECT id, iin, first_name, last_name, birth_date, phone, email, district, is_active, created_at, updated_at
		FROM users
		WHERE iin = $1
	`
	return r.scanOne(r.DB.QueryRow(q, iin))
}

func (r *UserRepository) GetByID(id int) (*models.User, error) {
	const q = `
		SELECT id, iin, first_name, last_name, birth_date, phone, email, district, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *UserRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET first_name = $1, last_name = $2, birth_date = $3, phone = $4,
		    email = $5, district = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`
	if _, err := r.DB.Exec(q,
		user.FirstName, user.LastName, user.BirthDate, user.Phone,
		user.Email, user.District, user.IsActive, user.ID,
	); err != nil {
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("user delete: %w", err)
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	var email sql.NullString
	if err := row.Scan(
		&u.ID, &u.IIN, &u.FirstName, &u.LastName, &u.BirthDate,
		&u.Phone, &email, &u.District, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	u.Email = email.String
	return &u, nil
}
