package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"timesheet-management/internal/auth"
)

// Repository reads and writes credentials with raw SQL through sqlx; the
// entity repositories use GORM, but the auth path only ever touches a
// handful of columns.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForEmail(email string) (string, int64, error) {
	var row struct {
		ID           int64  `db:"id"`
		PasswordHash string `db:"password_hash"`
	}
	err := r.db.Get(&row, `SELECT id, password_hash FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, auth.ErrUserNotFound
		}
		return "", 0, err
	}
	return row.PasswordHash, row.ID, nil
}

func (r *Repository) GetUserByID(userID int64) (*auth.User, error) {
	var u auth.User
	err := r.db.Get(&u, `SELECT id, email, first_name, last_name FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) EmailExists(email string) (bool, error) {
	var exists bool
	err := r.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	return exists, err
}

func (r *Repository) CreateUser(params auth.CreateUserParams) (*auth.User, error) {
	var id int64
	err := r.db.QueryRow(
		`INSERT INTO users (first_name, last_name, date_of_birth, gender, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING id`,
		params.FirstName, params.LastName, params.DateOfBirth, params.Gender,
		params.Email, params.PasswordHash, time.Now(),
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	return &auth.User{
		ID:        id,
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
	}, nil
}
