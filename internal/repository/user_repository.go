package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/covoiturage-api/internal/model"
	"github.com/iliyamo/covoiturage-api/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  The password is hashed here
// so a plain value never reaches the database layer below.  Uniqueness of
// the email rests on the UNIQUE index, not on a prior existence check.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, cost int) (uint64, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (nom, prenom, email, telephone, residence, password_hash) VALUES (?,?,?,?,?,?)",
		u.Nom, u.Prenom, u.Email, u.Telephone, u.Residence, hash)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	u.PasswordHash = hash
	return u.ID, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,nom,prenom,email,telephone,residence,password_hash FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Nom, &u.Prenom, &u.Email, &u.Telephone, &u.Residence, &u.PasswordHash)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,nom,prenom,email,telephone,residence,password_hash FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Nom, &u.Prenom, &u.Email, &u.Telephone, &u.Residence, &u.PasswordHash)
	return u, err
}

// UpdatePassword rehashes and overwrites the password of the account
// registered under email.  Used by the reset-password flow.
func (r *UserRepo) UpdatePassword(ctx context.Context, email, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE email=?", hash, email)
	return err
}
