package status

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type sqliteRepo struct{ db *sqlx.DB }

func NewSQLiteRepository(db *sqlx.DB) Repository { return &sqliteRepo{db: db} }

func (r *sqliteRepo) List(ctx context.Context) ([]*StatusType, error) {
	var types []*StatusType
	err := r.db.SelectContext(ctx, &types, "SELECT id, name, color FROM statusTypes ORDER BY id")
	return types, err
}

func (r *sqliteRepo) GetByName(ctx context.Context, name string) (*StatusType, error) {
	var st StatusType
	if err := r.db.GetContext(ctx, &st, "SELECT id, name, color FROM statusTypes WHERE name = ?", name); err != nil {
		return nil, err
	}
	return &st, nil
}
