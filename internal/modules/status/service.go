package status

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Service defines status-type business logic.
type Service interface {
	List(ctx context.Context) ([]*StatusType, error)

	// ResolveSentinels looks up the reserved "Ok" and "Sem status" rows.
	// A missing row is a configuration error; callers are expected to treat
	// it as fatal at startup.
	ResolveSentinels(ctx context.Context) (Sentinels, error)
}

type service struct{ repo Repository }

// NewService creates a new status service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) List(ctx context.Context) ([]*StatusType, error) {
	return s.repo.List(ctx)
}

func (s *service) ResolveSentinels(ctx context.Context) (Sentinels, error) {
	ok, err := s.lookup(ctx, NameOK)
	if err != nil {
		return Sentinels{}, err
	}
	noStatus, err := s.lookup(ctx, NameNoStatus)
	if err != nil {
		return Sentinels{}, err
	}
	return Sentinels{OK: ok.ID, NoStatus: noStatus.ID}, nil
}

func (s *service) lookup(ctx context.Context, name string) (*StatusType, error) {
	st, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("status type %q missing from reference data", name)
	}
	return st, err
}
