package repository

import (
	"database/sql"

	"knowledge-api/models"
)

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// CreateUser inserts a user with an already-hashed password and returns
// the stored row.
func (r *UsersRepository) CreateUser(username, email, passwordHash string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, created_at`,
		username, email, passwordHash).Scan(
		&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns the user including the password hash, for
// credential verification. Returns (nil, nil) when no row matches.
func (r *UsersRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		SELECT id, username, email, password, created_at
		FROM users
		WHERE email = $1`, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UsersRepository) GetUserByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		SELECT id, username, email, created_at
		FROM users
		WHERE id = $1`, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists is the pre-insert uniqueness check. A concurrent signup can
// still race past it; the UNIQUE constraint on users.email is the backstop.
func (r *UsersRepository) EmailExists(email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
