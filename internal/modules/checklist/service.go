package checklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/wesribeiro/painel-ti/internal/modules/status"
	"github.com/wesribeiro/painel-ti/internal/modules/tracker"
)

var (
	// ErrNotFound is returned when a checklist does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed input, before any write.
	ErrValidation = errors.New("validation")
)

const (
	checklistPrefix = "[CHECKLIST] "
	defaultOKNote   = "Tudo OK."
	defaultBadNote  = "Problema reportado."
	issueIDPrefix   = "std-"
	titleMaxLen     = 100
)

// Service manages the daily checklist: repeated autosaves while in progress
// and a single finalization that fans ledger entries and problems out over
// every checked PDV in one transaction.
type Service interface {
	// Save upserts the checklist. When the save transitions the checklist
	// from in-progress to completed, the finalization side effects run in
	// the same transaction; re-saving an already-completed checklist updates
	// the row but never duplicates ledger or problem rows.
	Save(ctx context.Context, req SaveRequest, actingUserID int64) (*SaveResult, error)

	Today(ctx context.Context, storeID int64) (*Checklist, error)
	History(ctx context.Context, storeID *int64) ([]*Checklist, error)
	Get(ctx context.Context, id int64) (*Checklist, error)
}

type service struct {
	repo      Repository
	sentinels status.Sentinels
	logger    *zap.Logger
}

// NewService creates a new checklist service.
func NewService(repo Repository, sentinels status.Sentinels, logger *zap.Logger) Service {
	return &service{repo: repo, sentinels: sentinels, logger: logger}
}

func (s *service) Save(ctx context.Context, req SaveRequest, actingUserID int64) (*SaveResult, error) {
	if req.StoreID == 0 {
		return nil, fmt.Errorf("%w: storeId is required", ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if req.Status != StatusInProgress && req.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrValidation, StatusInProgress, StatusCompleted)
	}

	var checks []PdvCheck
	if len(req.PdvChecks) > 0 {
		if err := json.Unmarshal(req.PdvChecks, &checks); err != nil {
			return nil, fmt.Errorf("%w: malformed pdvChecks: %v", ErrValidation, err)
		}
	}

	existing, err := s.lookupExisting(ctx, req)
	if err != nil {
		return nil, err
	}

	c := &Checklist{
		StoreID:   req.StoreID,
		Date:      req.Date,
		Status:    req.Status,
		PdvChecks: types.JSONText(req.PdvChecks),
	}
	if c.PdvChecks == nil {
		c.PdvChecks = types.JSONText("[]")
	}
	if existing != nil {
		c.ID = existing.ID
	}
	if req.Status == StatusCompleted {
		c.FinalizedByUserID = &actingUserID
	}

	// Side effects only on the first transition to completed; a repeated
	// save of a completed checklist must not re-insert history or problems.
	finalizing := req.Status == StatusCompleted && (existing == nil || existing.Status != StatusCompleted)

	var entries []*tracker.StatusHistoryEntry
	var problems []*tracker.Problem
	if finalizing {
		entries, problems = s.fanOut(checks, actingUserID, time.Now().UTC())
	}

	id, err := s.repo.Save(ctx, c, entries, problems)
	if err != nil {
		s.logger.Error("checklist save failed, transaction rolled back",
			zap.Int64("storeId", req.StoreID), zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}

	if finalizing {
		s.logger.Info("checklist finalized",
			zap.Int64("checklistId", id),
			zap.Int("ledgerEntries", len(entries)),
			zap.Int("problemsOpened", len(problems)))
	}

	return &SaveResult{ID: id, Created: existing == nil, Finalized: finalizing}, nil
}

func (s *service) lookupExisting(ctx context.Context, req SaveRequest) (*Checklist, error) {
	if req.ID != 0 {
		return s.repo.GetByID(ctx, req.ID)
	}
	// No id given: fall back to the (store, date) key so a retried create
	// updates the existing row instead of violating the unique constraint.
	return s.repo.GetByStoreAndDate(ctx, req.StoreID, req.Date)
}

// fanOut builds the ledger entries and problems a finalization produces.
// Checks without a new status are skipped entirely.
func (s *service) fanOut(checks []PdvCheck, techID int64, now time.Time) ([]*tracker.StatusHistoryEntry, []*tracker.Problem) {
	var entries []*tracker.StatusHistoryEntry
	var problems []*tracker.Problem

	for _, check := range checks {
		if check.NewStatusID == nil {
			continue
		}

		observation := check.Observation
		if observation == "" {
			if check.Result == ResultOK {
				observation = defaultOKNote
			} else {
				observation = defaultBadNote
			}
		}
		description := checklistPrefix + observation

		entries = append(entries, &tracker.StatusHistoryEntry{
			PDVID:       check.PDVID,
			StatusID:    *check.NewStatusID,
			Description: description,
			TechID:      &techID,
			Timestamp:   now,
		})

		if *check.NewStatusID != s.sentinels.OK {
			problems = append(problems, &tracker.Problem{
				PDVID:            check.PDVID,
				ItemID:           firstIssueItemID(check.Issues),
				ReportedByUserID: techID,
				Title:            truncate(description, titleMaxLen),
				Description:      description,
				Status:           tracker.ProblemOpen,
				CreatedAt:        now,
				OriginStatusID:   *check.NewStatusID,
			})
		}
	}

	return entries, problems
}

// firstIssueItemID extracts the PDV item id from the first issue reference,
// e.g. "std-2" -> 2. References that do not parse are ignored.
func firstIssueItemID(issues []string) *int64 {
	if len(issues) == 0 {
		return nil
	}
	raw := strings.TrimPrefix(issues[0], issueIDPrefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func (s *service) Today(ctx context.Context, storeID int64) (*Checklist, error) {
	today := time.Now().UTC().Format("2006-01-02")
	c, err := s.repo.GetByStoreAndDate(ctx, storeID, today)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("no checklist for today: %w", ErrNotFound)
	}
	return c, nil
}

func (s *service) History(ctx context.Context, storeID *int64) ([]*Checklist, error) {
	return s.repo.ListCompleted(ctx, storeID)
}

func (s *service) Get(ctx context.Context, id int64) (*Checklist, error) {
	return s.repo.GetByID(ctx, id)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
