package repositories

import (
	"database/sql"
	"errors"

	intconfig "fleetflow/internal/config"
	intdb "fleetflow/internal/db"
	"fleetflow/internal/domain"
	"fleetflow/internal/domain/models"
)

type UsersRepository struct {
	DB *sql.DB
}

func (r UsersRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UsersRepository) GetByEmail(email string) (models.User, error) {
	var u models.User
	err := r.db().QueryRow(`
		SELECT id, email, password_hash, full_name, role, status, created_at
		FROM users
		WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, domain.NotFoundError{Resource: "user"}
		}
		return u, intdb.Wrap(err)
	}
	return u, nil
}

func (r UsersRepository) EmailExists(email string) (bool, error) {
	var n int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return false, intdb.Wrap(err)
	}
	return n > 0, nil
}

func (r UsersRepository) Insert(u models.User) (models.User, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (email, password_hash, full_name, role, status)
		VALUES (?, ?, ?, ?, ?)
	`, u.Email, u.PasswordHash, u.FullName, u.Role, u.Status)
	if err != nil {
		return u, intdb.Wrap(err)
	}
	u.ID, _ = res.LastInsertId()
	return u, nil
}
