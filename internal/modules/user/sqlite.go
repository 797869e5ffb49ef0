package user

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type sqliteRepo struct{ db *sqlx.DB }

func NewSQLiteRepository(db *sqlx.DB) Repository { return &sqliteRepo{db: db} }

const userColumns = "id, name, username, password, lastLogin, roleId, storeId"

func (r *sqliteRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := r.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE username = ?", username); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := r.db.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqliteRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET lastLogin = ? WHERE id = ?", at, id)
	return err
}

func (r *sqliteRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET password = ? WHERE id = ?", hash, id)
	return err
}
