package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wesribeiro/painel-ti/internal/modules/status"
	"github.com/wesribeiro/painel-ti/internal/modules/store"
)

var (
	// ErrNotFound is returned when a PDV, problem or entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed input, before any write.
	ErrValidation = errors.New("validation")
)

const (
	titleMaxLen      = 100
	minResolutionLen = 10
	historyLimit     = 20
	problemListLimit = 5

	solutionPrefix = "[SOLUÇÃO] "
	systemTechName = "Sistema"
)

// Service tracks PDV status: the append-only ledger, the problem lifecycle
// and the derived current status.
//
// Concurrent resolvers of different problems on the same PDV are serialized
// by the database, not by the service; the open-problem count in ResolveProblem
// is only as strict as the store's isolation level.
type Service interface {
	// CurrentStatus derives the display status of a PDV: the newest
	// unresolved problem wins over any newer ledger entry; with neither,
	// the "Sem status" sentinel is returned.
	CurrentStatus(ctx context.Context, pdvID int64) (*CurrentStatus, error)

	// PDVsWithStatus lists a store's PDVs, each with its resolved status.
	PDVsWithStatus(ctx context.Context, storeID int64) ([]*PDVWithStatus, error)

	// RecordEvent appends a ledger entry and, for a non-"Ok" status, opens a
	// problem in the same transaction.
	RecordEvent(ctx context.Context, req RecordEventRequest) (*StatusHistoryEntry, error)

	// ResolveProblem closes a problem and, when it was the PDV's last open
	// one, reconciles the ledger with an "Ok" entry, atomically.
	ResolveProblem(ctx context.Context, problemID int64, req ResolveProblemRequest) error

	History(ctx context.Context, pdvID int64) ([]*StatusHistoryEntry, error)
	Problems(ctx context.Context, pdvID int64) ([]*ProblemSummary, error)
	Problem(ctx context.Context, id int64) (*ProblemDetail, error)
	RecurringIssues(ctx context.Context, pdvID int64) ([]*RecurringIssue, error)
	StoreLedger(ctx context.Context, storeID int64) ([]*LedgerEntry, error)
}

type service struct {
	repo      Repository
	pdvRepo   store.PDVRepository
	sentinels status.Sentinels
	logger    *zap.Logger
}

// NewService creates a new tracker service. Sentinels must already be
// resolved; the service never looks status types up by name.
func NewService(repo Repository, pdvRepo store.PDVRepository, sentinels status.Sentinels, logger *zap.Logger) Service {
	return &service{repo: repo, pdvRepo: pdvRepo, sentinels: sentinels, logger: logger}
}

func (s *service) CurrentStatus(ctx context.Context, pdvID int64) (*CurrentStatus, error) {
	if _, err := s.getPDV(ctx, pdvID); err != nil {
		return nil, err
	}
	return s.resolve(ctx, pdvID)
}

// resolve computes the display status without checking the PDV exists.
func (s *service) resolve(ctx context.Context, pdvID int64) (*CurrentStatus, error) {
	open, err := s.repo.LatestOpenProblem(ctx, pdvID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		techName := systemTechName
		if open.TechName != nil {
			techName = *open.TechName
		}
		return &CurrentStatus{
			StatusID:    open.OriginStatusID,
			Description: open.Title,
			Timestamp:   open.CreatedAt,
			TechName:    techName,
		}, nil
	}

	last, err := s.repo.LatestEntry(ctx, pdvID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		techName := ""
		if last.TechName != nil {
			techName = *last.TechName
		}
		return &CurrentStatus{
			StatusID:    last.StatusID,
			Description: last.Description,
			Timestamp:   last.Timestamp,
			TechName:    techName,
		}, nil
	}

	return &CurrentStatus{StatusID: s.sentinels.NoStatus}, nil
}

func (s *service) PDVsWithStatus(ctx context.Context, storeID int64) ([]*PDVWithStatus, error) {
	pdvs, err := s.pdvRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]*PDVWithStatus, 0, len(pdvs))
	for _, p := range pdvs {
		cs, err := s.resolve(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &PDVWithStatus{ID: p.ID, Number: p.Number, StoreID: p.StoreID, LastStatus: cs})
	}
	return out, nil
}

func (s *service) RecordEvent(ctx context.Context, req RecordEventRequest) (*StatusHistoryEntry, error) {
	if req.StatusID == 0 {
		return nil, fmt.Errorf("%w: statusId is required", ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if _, err := s.getPDV(ctx, req.PDVID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &StatusHistoryEntry{
		PDVID:       req.PDVID,
		StatusID:    req.StatusID,
		Description: req.Description,
		TechID:      &req.TechID,
		ItemID:      req.ItemID,
		Timestamp:   now,
	}

	var problem *Problem
	if req.StatusID != s.sentinels.OK {
		problem = &Problem{
			PDVID:            req.PDVID,
			ItemID:           req.ItemID,
			ReportedByUserID: req.TechID,
			Title:            truncate(req.Description, titleMaxLen),
			Description:      req.Description,
			Status:           ProblemOpen,
			CreatedAt:        now,
			OriginStatusID:   req.StatusID,
		}
	}

	id, err := s.repo.InsertEvent(ctx, entry, problem)
	if err != nil {
		s.logger.Error("record event failed, transaction rolled back",
			zap.Int64("pdvId", req.PDVID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("status event recorded",
		zap.Int64("pdvId", req.PDVID),
		zap.Int64("statusId", req.StatusID),
		zap.Bool("problemOpened", problem != nil))
	return s.repo.GetEntry(ctx, id)
}

func (s *service) ResolveProblem(ctx context.Context, problemID int64, req ResolveProblemRequest) error {
	if len([]rune(req.Notes)) < minResolutionLen {
		return fmt.Errorf("%w: resolution notes must have at least %d characters", ErrValidation, minResolutionLen)
	}

	reconciled, err := s.repo.Resolve(ctx, resolveParams{
		ProblemID:    problemID,
		Notes:        req.Notes,
		ActingUserID: req.ActingUserID,
		Now:          time.Now().UTC(),
		OKStatusID:   s.sentinels.OK,
		Description:  solutionPrefix + req.Notes,
	})
	if err != nil {
		return err
	}

	s.logger.Info("problem resolved",
		zap.Int64("problemId", problemID),
		zap.Bool("ledgerReconciled", reconciled))
	return nil
}

func (s *service) History(ctx context.Context, pdvID int64) ([]*StatusHistoryEntry, error) {
	return s.repo.ListHistory(ctx, pdvID, historyLimit)
}

func (s *service) Problems(ctx context.Context, pdvID int64) ([]*ProblemSummary, error) {
	return s.repo.ListProblems(ctx, pdvID, problemListLimit)
}

func (s *service) Problem(ctx context.Context, id int64) (*ProblemDetail, error) {
	return s.repo.GetProblem(ctx, id)
}

func (s *service) RecurringIssues(ctx context.Context, pdvID int64) ([]*RecurringIssue, error) {
	return s.repo.RecurringIssues(ctx, pdvID)
}

func (s *service) StoreLedger(ctx context.Context, storeID int64) ([]*LedgerEntry, error) {
	return s.repo.StoreLedger(ctx, storeID)
}

func (s *service) getPDV(ctx context.Context, pdvID int64) (*store.PDV, error) {
	pdv, err := s.pdvRepo.GetByID(ctx, pdvID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pdv %d: %w", pdvID, ErrNotFound)
	}
	return pdv, err
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
