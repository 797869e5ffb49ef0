package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ErrValidation is returned for malformed input.
var ErrValidation = errors.New("validation")

// Service records and lists administrative action logs.
type Service interface {
	Record(ctx context.Context, req CreateLogRequest, userID int64, userName string) (*ActionLog, error)
	List(ctx context.Context) ([]*ActionLog, error)
}

type service struct{ repo Repository }

// NewService creates a new audit service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) Record(ctx context.Context, req CreateLogRequest, userID int64, userName string) (*ActionLog, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	log := &ActionLog{
		Description: req.Description,
		Timestamp:   time.Now().UTC(),
		UserID:      &userID,
		UserName:    &userName,
		Metadata:    types.JSONText(req.Metadata),
	}
	if err := s.repo.Insert(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *service) List(ctx context.Context) ([]*ActionLog, error) {
	return s.repo.List(ctx)
}
