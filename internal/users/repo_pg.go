package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, name, email, password_hash, role, phone, profile_picture, is_email_verified, otp_code, otp_expires_at, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, name, email, password_hash, role, phone, profile_picture, is_email_verified, otp_code, otp_expires_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Name,
		strings.ToLower(user.Email),
		user.PasswordHash,
		string(user.Role),
		db.NullString(user.Phone),
		db.NullString(user.ProfilePicture),
		user.EmailVerified,
		db.NullString(user.OTPCode),
		user.OTPExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if db.IsUniqueViolation(err, "users_email_key") {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) Update(ctx context.Context, user User) error {
	const query = `
UPDATE users SET
  name = $2,
  phone = $3,
  profile_picture = $4,
  is_email_verified = $5,
  otp_code = $6,
  otp_expires_at = $7,
  updated_at = $8
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Name,
		db.NullString(user.Phone),
		db.NullString(user.ProfilePicture),
		user.EmailVerified,
		db.NullString(user.OTPCode),
		user.OTPExpiresAt,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (User, error) {
	if !db.ValidID(id) {
		return User{}, ErrNotFound
	}
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	return scanUser(row)
}

func (r *PGRepo) ListByIDs(ctx context.Context, ids []string) ([]User, error) {
	valid := db.ValidIDs(ids)
	if len(valid) == 0 {
		return []User{}, nil
	}
	query, args, err := db.SQL.Select(userColumns).From("users").Where(sq.Eq{"id": valid}).ToSql()
	if err != nil {
		return nil, err
	}
	found, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	out := make([]User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *PGRepo) ListByRole(ctx context.Context, role auth.Role) ([]User, error) {
	builder := db.SQL.Select(userColumns).From("users").OrderBy("name ASC")
	if role != "" {
		builder = builder.Where(sq.Eq{"role": string(role)})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return r.query(ctx, query, args...)
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (User, error) {
	var user User
	var role string
	var phone, picture, otp sql.NullString
	var otpExpires sql.NullTime
	err := s.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&phone,
		&picture,
		&user.EmailVerified,
		&otp,
		&otpExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.Role = auth.Role(role)
	user.Phone = phone.String
	user.ProfilePicture = picture.String
	user.OTPCode = otp.String
	if otpExpires.Valid {
		t := otpExpires.Time
		user.OTPExpiresAt = &t
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
