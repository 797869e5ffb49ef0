package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a store, PDV or item does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("already exists")
	// ErrValidation is returned for malformed input, before any write.
	ErrValidation = errors.New("validation")
)

// Service defines reference-data business logic for stores, PDVs and items.
type Service interface {
	ListStores(ctx context.Context) ([]*Store, error)
	GetStore(ctx context.Context, id int64) (*Store, error)

	ListPDVs(ctx context.Context, storeID int64) ([]*PDV, error)
	CreatePDV(ctx context.Context, storeID int64, req CreatePDVRequest) (*PDV, error)
	DeletePDV(ctx context.Context, id int64) error

	ListItems(ctx context.Context) ([]*PDVItem, error)
	CreateItem(ctx context.Context, req CreateItemRequest) (*PDVItem, error)
	DeleteItem(ctx context.Context, id int64) error
}

type service struct {
	storeRepo StoreRepository
	pdvRepo   PDVRepository
	itemRepo  ItemRepository
}

// NewService creates a new store service.
func NewService(storeRepo StoreRepository, pdvRepo PDVRepository, itemRepo ItemRepository) Service {
	return &service{storeRepo: storeRepo, pdvRepo: pdvRepo, itemRepo: itemRepo}
}

func (s *service) ListStores(ctx context.Context) ([]*Store, error) {
	return s.storeRepo.List(ctx)
}

func (s *service) GetStore(ctx context.Context, id int64) (*Store, error) {
	st, err := s.storeRepo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store %d: %w", id, ErrNotFound)
	}
	return st, err
}

func (s *service) ListPDVs(ctx context.Context, storeID int64) ([]*PDV, error) {
	return s.pdvRepo.ListByStore(ctx, storeID)
}

func (s *service) CreatePDV(ctx context.Context, storeID int64, req CreatePDVRequest) (*PDV, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return nil, fmt.Errorf("%w: number is required", ErrValidation)
	}
	if _, err := s.GetStore(ctx, storeID); err != nil {
		return nil, err
	}
	pdv := &PDV{Number: number, StoreID: storeID}
	if err := s.pdvRepo.Create(ctx, pdv); err != nil {
		return nil, err
	}
	return pdv, nil
}

func (s *service) DeletePDV(ctx context.Context, id int64) error {
	deleted, err := s.pdvRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("pdv %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *service) ListItems(ctx context.Context) ([]*PDVItem, error) {
	return s.itemRepo.List(ctx)
}

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*PDVItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	item := &PDVItem{Name: name}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id int64) error {
	deleted, err := s.itemRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("pdv item %d: %w", id, ErrNotFound)
	}
	return nil
}
