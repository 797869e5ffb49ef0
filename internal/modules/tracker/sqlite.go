package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type sqliteRepo struct{ db *sqlx.DB }

func NewSQLiteRepository(db *sqlx.DB) Repository { return &sqliteRepo{db: db} }

func (r *sqliteRepo) LatestOpenProblem(ctx context.Context, pdvID int64) (*openProblemStatus, error) {
	var p openProblemStatus
	err := r.db.GetContext(ctx, &p, `
		SELECT p.title, p.created_at, p.originStatusId, u.name AS techName
		FROM problems p
		LEFT JOIN users u ON p.reported_by_user_id = u.id
		WHERE p.pdv_id = ? AND p.status != ?
		ORDER BY p.created_at DESC
		LIMIT 1`, pdvID, ProblemResolved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepo) LatestEntry(ctx context.Context, pdvID int64) (*StatusHistoryEntry, error) {
	var e StatusHistoryEntry
	err := r.db.GetContext(ctx, &e, `
		SELECT sh.id, sh.pdvId, sh.statusId, sh.description, sh.techId, sh.itemId, sh.timestamp,
		       u.name AS techName
		FROM statusHistory sh
		LEFT JOIN users u ON u.id = sh.techId
		WHERE sh.pdvId = ?
		ORDER BY sh.timestamp DESC
		LIMIT 1`, pdvID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *sqliteRepo) GetEntry(ctx context.Context, id int64) (*StatusHistoryEntry, error) {
	var e StatusHistoryEntry
	err := r.db.GetContext(ctx, &e, `
		SELECT sh.id, sh.pdvId, sh.statusId, sh.description, sh.techId, sh.itemId, sh.timestamp,
		       u.name AS techName
		FROM statusHistory sh
		LEFT JOIN users u ON u.id = sh.techId
		WHERE sh.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *sqliteRepo) InsertEvent(ctx context.Context, entry *StatusHistoryEntry, problem *Problem) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO statusHistory (pdvId, statusId, description, techId, itemId, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
		entry.PDVID, entry.StatusID, entry.Description, entry.TechID, entry.ItemID, entry.Timestamp)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if problem != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO problems
			  (pdv_id, item_id, reported_by_user_id, title, description, status, created_at, originStatusId)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			problem.PDVID, problem.ItemID, problem.ReportedByUserID, problem.Title,
			problem.Description, problem.Status, problem.CreatedAt, problem.OriginStatusID)
		if err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

func (r *sqliteRepo) Resolve(ctx context.Context, p resolveParams) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE problems SET status = ?, resolution_notes = ?, resolved_at = ?, resolved_by_user_id = ? WHERE id = ?",
		ProblemResolved, p.Notes, p.Now, p.ActingUserID, p.ProblemID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n == 0 {
		return false, fmt.Errorf("problem %d: %w", p.ProblemID, ErrNotFound)
	}

	var pdvID int64
	if err := tx.GetContext(ctx, &pdvID, "SELECT pdv_id FROM problems WHERE id = ?", p.ProblemID); err != nil {
		return false, err
	}

	var open int
	if err := tx.GetContext(ctx, &open,
		"SELECT COUNT(id) FROM problems WHERE pdv_id = ? AND status != ?", pdvID, ProblemResolved); err != nil {
		return false, err
	}

	reconciled := false
	if open == 0 {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO statusHistory (pdvId, statusId, description, techId, timestamp) VALUES (?, ?, ?, ?, ?)",
			pdvID, p.OKStatusID, p.Description, p.ActingUserID, p.Now)
		if err != nil {
			return false, err
		}
		reconciled = true
	}

	return reconciled, tx.Commit()
}

func (r *sqliteRepo) ListHistory(ctx context.Context, pdvID int64, limit int) ([]*StatusHistoryEntry, error) {
	var entries []*StatusHistoryEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT sh.id, sh.pdvId, sh.statusId, sh.description, sh.techId, sh.itemId, sh.timestamp,
		       u.name AS techName
		FROM statusHistory sh
		LEFT JOIN users u ON u.id = sh.techId
		WHERE sh.pdvId = ?
		ORDER BY sh.timestamp DESC
		LIMIT ?`, pdvID, limit)
	return entries, err
}

func (r *sqliteRepo) ListProblems(ctx context.Context, pdvID int64, limit int) ([]*ProblemSummary, error) {
	var problems []*ProblemSummary
	err := r.db.SelectContext(ctx, &problems, `
		SELECT
		  p.id, p.status, p.title, p.created_at, p.resolved_at,
		  u_reported.name AS reportedByTechName,
		  u_resolved.name AS resolvedByTechName,
		  st.name AS statusName,
		  st.color AS statusColor,
		  pi.name AS itemName
		FROM problems p
		LEFT JOIN users u_reported ON p.reported_by_user_id = u_reported.id
		LEFT JOIN users u_resolved ON p.resolved_by_user_id = u_resolved.id
		LEFT JOIN statusTypes st ON p.originStatusId = st.id
		LEFT JOIN pdvItems pi ON p.item_id = pi.id
		WHERE p.pdv_id = ?
		ORDER BY p.created_at DESC
		LIMIT ?`, pdvID, limit)
	return problems, err
}

func (r *sqliteRepo) GetProblem(ctx context.Context, id int64) (*ProblemDetail, error) {
	var p ProblemDetail
	err := r.db.GetContext(ctx, &p, `
		SELECT
		  p.id, p.title, p.description, p.created_at, p.status,
		  u_reported.name AS reportedByTechName,
		  pi.name AS itemName
		FROM problems p
		LEFT JOIN users u_reported ON p.reported_by_user_id = u_reported.id
		LEFT JOIN pdvItems pi ON p.item_id = pi.id
		WHERE p.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("problem %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepo) RecurringIssues(ctx context.Context, pdvID int64) ([]*RecurringIssue, error) {
	var issues []*RecurringIssue
	err := r.db.SelectContext(ctx, &issues, `
		SELECT pi.name AS problemText, COUNT(sh.id) AS count
		FROM statusHistory sh
		JOIN pdvItems pi ON pi.id = sh.itemId
		WHERE sh.pdvId = ? AND sh.itemId IS NOT NULL
		GROUP BY pi.name
		ORDER BY count DESC`, pdvID)
	return issues, err
}

func (r *sqliteRepo) StoreLedger(ctx context.Context, storeID int64) ([]*LedgerEntry, error) {
	var entries []*LedgerEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT
		  sh.id, sh.pdvId, sh.statusId, sh.description, sh.techId, sh.itemId, sh.timestamp,
		  u.name AS techName,
		  st.name AS statusName,
		  st.color AS statusColor,
		  p.number AS pdvNumber
		FROM statusHistory sh
		JOIN pdvs p ON p.id = sh.pdvId
		LEFT JOIN users u ON u.id = sh.techId
		JOIN statusTypes st ON st.id = sh.statusId
		WHERE p.storeId = ?
		ORDER BY sh.timestamp DESC`, storeID)
	return entries, err
}
