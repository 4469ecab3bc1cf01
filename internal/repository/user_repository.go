package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/secure-user-api/internal/model"
	"github.com/iliyamo/secure-user-api/internal/utils"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

const userColumns = "id,username,password_hash,email,full_name"

// UserRepo reads and provisions rows of the users table.  Every query binds
// its arguments as parameters; no SQL text is ever built from input.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password, inserts the user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, u model.NewUser, cost int) (uint64, error) {
	hash, err := utils.HashPassword(u.Password, cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, email, full_name) VALUES (?,?,?,?)",
		u.Username, hash, nullString(u.Email), nullString(u.FullName))
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameExists
		}
		return 0, unavailable("insert user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("last insert id", err)
	}
	return uint64(id), nil
}

// FindByUsername fetches a user by exact, case-sensitive username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
	return scanOne(row)
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanOne(row)
}

// FindAll returns every user ordered by id.
func (r *UserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, unavailable("list users", err)
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scan(rows)
		if err != nil {
			return nil, unavailable("scan user", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate users", err)
	}
	return out, nil
}

// Count returns the number of stored users.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, unavailable("count users", err)
	}
	return n, nil
}

// Ping reports whether the backing store answers.
func (r *UserRepo) Ping(ctx context.Context) error {
	if err := r.DB.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (model.User, error) {
	var (
		u        model.User
		email    sql.NullString
		fullName sql.NullString
	)
	if err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &email, &fullName); err != nil {
		return model.User{}, err
	}
	u.Email = stringPtr(email)
	u.FullName = stringPtr(fullName)
	return u, nil
}

func scanOne(row *sql.Row) (model.User, error) {
	u, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, unavailable("get user", err)
	}
	return u, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	// modernc sqlite reports constraint failures in the message only.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
