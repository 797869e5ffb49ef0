package store

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

type storeRepo struct{ db *sqlx.DB }

func NewStoreSQLiteRepository(db *sqlx.DB) StoreRepository { return &storeRepo{db: db} }

func (r *storeRepo) List(ctx context.Context) ([]*Store, error) {
	var stores []*Store
	err := r.db.SelectContext(ctx, &stores, "SELECT id, name, pdvNamingStart, checklistConfig FROM stores ORDER BY id")
	return stores, err
}

func (r *storeRepo) GetByID(ctx context.Context, id int64) (*Store, error) {
	var s Store
	if err := r.db.GetContext(ctx, &s, "SELECT id, name, pdvNamingStart, checklistConfig FROM stores WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &s, nil
}

type pdvRepo struct{ db *sqlx.DB }

func NewPDVSQLiteRepository(db *sqlx.DB) PDVRepository { return &pdvRepo{db: db} }

func (r *pdvRepo) ListByStore(ctx context.Context, storeID int64) ([]*PDV, error) {
	var pdvs []*PDV
	err := r.db.SelectContext(ctx, &pdvs,
		"SELECT id, number, storeId FROM pdvs WHERE storeId = ? ORDER BY CAST(number AS INTEGER)", storeID)
	return pdvs, err
}

func (r *pdvRepo) GetByID(ctx context.Context, id int64) (*PDV, error) {
	var p PDV
	if err := r.db.GetContext(ctx, &p, "SELECT id, number, storeId FROM pdvs WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pdvRepo) Create(ctx context.Context, pdv *PDV) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO pdvs (number, storeId) VALUES (?, ?)", pdv.Number, pdv.StoreID)
	if err != nil {
		return err
	}
	pdv.ID, err = res.LastInsertId()
	return err
}

func (r *pdvRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM pdvs WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type itemRepo struct{ db *sqlx.DB }

func NewItemSQLiteRepository(db *sqlx.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) List(ctx context.Context) ([]*PDVItem, error) {
	var items []*PDVItem
	err := r.db.SelectContext(ctx, &items, "SELECT id, name FROM pdvItems ORDER BY name")
	return items, err
}

func (r *itemRepo) Create(ctx context.Context, item *PDVItem) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO pdvItems (name) VALUES (?)", item.Name)
	if err != nil {
		if isConstraintErr(err) {
			return ErrDuplicate
		}
		return err
	}
	item.ID, err = res.LastInsertId()
	return err
}

func (r *itemRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM pdvItems WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func isConstraintErr(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint
}
