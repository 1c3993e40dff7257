package repository

import (
	"context"
	"database/sql"
	"time"
)

// PasswordResetRepo persists single-use reset tokens (one active token per
// email).
type PasswordResetRepo struct{ DB *sql.DB }

func NewPasswordResetRepo(db *sql.DB) *PasswordResetRepo { return &PasswordResetRepo{DB: db} }

// Replace installs token as the only active reset token for email.  The
// delete and insert run in one transaction so two concurrent requests for
// the same email cannot leave two live tokens behind.
func (r *PasswordResetRepo) Replace(ctx context.Context, email, token string, expiresAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM password_resets WHERE email=?", email); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO password_resets (email, token, expires_at) VALUES (?,?,?)",
		email, token, expiresAt); err != nil {
		return err
	}
	return tx.Commit()
}

// Validate returns the email bound to token when the token exists and has
// not expired; otherwise ErrTokenInvalid.  Expiry is compared in Go so the
// query stays portable across drivers.
func (r *PasswordResetRepo) Validate(ctx context.Context, token string) (string, error) {
	var (
		email     string
		expiresAt time.Time
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT email, expires_at FROM password_resets WHERE token=? LIMIT 1",
		token).Scan(&email, &expiresAt)
	if err == sql.ErrNoRows {
		return "", ErrTokenInvalid
	}
	if err != nil {
		return "", err
	}
	if time.Now().UTC().After(expiresAt) {
		return "", ErrTokenInvalid
	}
	return email, nil
}

// Consume deletes a token after a successful reset, making it single-use.
func (r *PasswordResetRepo) Consume(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM password_resets WHERE token=?", token)
	return err
}
