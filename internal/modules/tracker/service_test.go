package tracker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wesribeiro/painel-ti/internal/modules/status"
	"github.com/wesribeiro/painel-ti/internal/modules/store"
	"github.com/wesribeiro/painel-ti/internal/platform/database"
)

const (
	okStatusID          = 1
	attentionStatusID   = 2
	maintenanceStatusID = 3
	noStatusID          = 5

	techUserID = 2
)

func newTestService(t *testing.T) (Service, *sqlx.DB) {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	fixtures := []string{
		`INSERT INTO roles (id, name, permissions) VALUES (1, 'Administrador', '{}'), (2, 'Técnico', '{}')`,
		`INSERT INTO stores (id, name, pdvNamingStart, checklistConfig) VALUES (1, 'Loja 01', 101, '{}')`,
		`INSERT INTO users (id, name, username, roleId, storeId) VALUES (2, 'Fulano de Tal', 'fulano', 2, 1)`,
		`INSERT INTO statusTypes (id, name, color) VALUES
			(1, 'Ok', 'green'), (2, 'Atenção', 'orange'), (3, 'Manutenção', 'red'),
			(4, 'Reserva', 'gray'), (5, 'Sem status', 'gray')`,
		`INSERT INTO pdvs (id, number, storeId) VALUES (101, '101', 1), (102, '102', 1), (103, '103', 1)`,
	}
	for _, q := range fixtures {
		_, err := db.Exec(q)
		require.NoError(t, err)
	}

	sentinels := status.Sentinels{OK: okStatusID, NoStatus: noStatusID}
	svc := NewService(NewSQLiteRepository(db), store.NewPDVSQLiteRepository(db), sentinels, zap.NewNop())
	return svc, db
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(id) FROM "+table))
	return n
}

func TestCurrentStatusNeverInspected(t *testing.T) {
	svc, _ := newTestService(t)

	cs, err := svc.CurrentStatus(context.Background(), 103)
	require.NoError(t, err)
	assert.Equal(t, int64(noStatusID), cs.StatusID)
	assert.Empty(t, cs.Description)
	assert.Empty(t, cs.TechName)
}

func TestCurrentStatusUnknownPDV(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CurrentStatus(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordEventWithOkStatusOpensNoProblem(t *testing.T) {
	svc, db := newTestService(t)

	entry, err := svc.RecordEvent(context.Background(), RecordEventRequest{
		PDVID:       101,
		StatusID:    okStatusID,
		Description: "Tudo funcionando",
		TechID:      techUserID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(okStatusID), entry.StatusID)
	require.NotNil(t, entry.TechName)
	assert.Equal(t, "Fulano de Tal", *entry.TechName)

	assert.Equal(t, 1, countRows(t, db, "statusHistory"))
	assert.Equal(t, 0, countRows(t, db, "problems"))
}

func TestRecordEventWithProblemStatus(t *testing.T) {
	// Scenario A: a maintenance event must append to the ledger and open a
	// problem carrying the origin status.
	svc, db := newTestService(t)
	ctx := context.Background()

	entry, err := svc.RecordEvent(ctx, RecordEventRequest{
		PDVID:       101,
		StatusID:    maintenanceStatusID,
		Description: "Fonte queimada",
		TechID:      techUserID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(maintenanceStatusID), entry.StatusID)

	assert.Equal(t, 1, countRows(t, db, "statusHistory"))
	assert.Equal(t, 1, countRows(t, db, "problems"))

	var p Problem
	require.NoError(t, db.Get(&p, "SELECT * FROM problems"))
	assert.Equal(t, int64(101), p.PDVID)
	assert.Equal(t, ProblemOpen, p.Status)
	assert.Equal(t, int64(maintenanceStatusID), p.OriginStatusID)
	assert.Equal(t, "Fonte queimada", p.Title)
	assert.Equal(t, int64(techUserID), p.ReportedByUserID)

	cs, err := svc.CurrentStatus(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(maintenanceStatusID), cs.StatusID)
	assert.Equal(t, "Fonte queimada", cs.Description)
	assert.Equal(t, "Fulano de Tal", cs.TechName)
}

func TestRecordEventTruncatesProblemTitle(t *testing.T) {
	svc, db := newTestService(t)

	long := strings.Repeat("x", 150)
	_, err := svc.RecordEvent(context.Background(), RecordEventRequest{
		PDVID:       101,
		StatusID:    attentionStatusID,
		Description: long,
		TechID:      techUserID,
	})
	require.NoError(t, err)

	var title string
	require.NoError(t, db.Get(&title, "SELECT title FROM problems"))
	assert.Len(t, title, 100)

	var description string
	require.NoError(t, db.Get(&description, "SELECT description FROM problems"))
	assert.Equal(t, long, description)
}

func TestRecordEventValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordEvent(ctx, RecordEventRequest{PDVID: 101, Description: "sem status", TechID: techUserID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.RecordEvent(ctx, RecordEventRequest{PDVID: 101, StatusID: maintenanceStatusID, Description: "   ", TechID: techUserID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.RecordEvent(ctx, RecordEventRequest{PDVID: 999, StatusID: maintenanceStatusID, Description: "x", TechID: techUserID})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 0, countRows(t, db, "statusHistory"))
	assert.Equal(t, 0, countRows(t, db, "problems"))
}

func TestRecordEventAtomicity(t *testing.T) {
	// If the problem insert fails, the ledger entry must not survive either.
	// A reporter id that violates the users foreign key forces the failure.
	_, db := newTestService(t)
	repo := NewSQLiteRepository(db)

	now := time.Now().UTC()
	techID := int64(techUserID)
	entry := &StatusHistoryEntry{PDVID: 101, StatusID: maintenanceStatusID, Description: "x", TechID: &techID, Timestamp: now}
	problem := &Problem{
		PDVID:            101,
		ReportedByUserID: 999,
		Title:            "x",
		Description:      "x",
		Status:           ProblemOpen,
		CreatedAt:        now,
		OriginStatusID:   maintenanceStatusID,
	}

	_, err := repo.InsertEvent(context.Background(), entry, problem)
	require.Error(t, err)

	assert.Equal(t, 0, countRows(t, db, "statusHistory"))
	assert.Equal(t, 0, countRows(t, db, "problems"))
}

func TestResolverPrefersOpenProblemOverNewerLedgerEntry(t *testing.T) {
	// P1: an open problem dominates the display even when a newer benign
	// ledger entry exists.
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordEvent(ctx, RecordEventRequest{
		PDVID:       101,
		StatusID:    maintenanceStatusID,
		Description: "Fonte queimada",
		TechID:      techUserID,
	})
	require.NoError(t, err)

	// A later "Ok" ledger entry unrelated to the open problem.
	repo := NewSQLiteRepository(db)
	techID := int64(techUserID)
	_, err = repo.InsertEvent(ctx, &StatusHistoryEntry{
		PDVID:       101,
		StatusID:    okStatusID,
		Description: "Checklist diário ok",
		TechID:      &techID,
		Timestamp:   time.Now().UTC().Add(time.Hour),
	}, nil)
	require.NoError(t, err)

	cs, err := svc.CurrentStatus(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(maintenanceStatusID), cs.StatusID)
	assert.Equal(t, "Fonte queimada", cs.Description)
}

func TestResolveProblemReconcilesLedger(t *testing.T) {
	// Scenario B / P3: resolving the last open problem appends exactly one
	// "Ok" entry with the solution prefix.
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordEvent(ctx, RecordEventRequest{
		PDVID:       101,
		StatusID:    maintenanceStatusID,
		Description: "Fonte queimada",
		TechID:      techUserID,
	})
	require.NoError(t, err)

	var problemID int64
	require.NoError(t, db.Get(&problemID, "SELECT id FROM problems"))

	err = svc.ResolveProblem(ctx, problemID, ResolveProblemRequest{
		Notes:        "Fonte trocada hoje",
		ActingUserID: techUserID,
	})
	require.NoError(t, err)

	var p Problem
	require.NoError(t, db.Get(&p, "SELECT * FROM problems WHERE id = ?", problemID))
	assert.Equal(t, ProblemResolved, p.Status)
	require.NotNil(t, p.ResolutionNotes)
	assert.Equal(t, "Fonte trocada hoje", *p.ResolutionNotes)
	require.NotNil(t, p.ResolvedByUserID)
	assert.Equal(t, int64(techUserID), *p.ResolvedByUserID)
	assert.NotNil(t, p.ResolvedAt)

	assert.Equal(t, 2, countRows(t, db, "statusHistory"))
	var last StatusHistoryEntry
	require.NoError(t, db.Get(&last,
		"SELECT id, pdvId, statusId, description, techId, itemId, timestamp FROM statusHistory ORDER BY id DESC LIMIT 1"))
	assert.Equal(t, int64(okStatusID), last.StatusID)
	assert.True(t, strings.HasPrefix(last.Description, "[SOLUÇÃO]"))

	cs, err := svc.CurrentStatus(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(okStatusID), cs.StatusID)
}

func TestResolveProblemSkipsReconciliationWhileOthersOpen(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	for _, desc := range []string{"Monitor sem imagem", "Teclado travado"} {
		_, err := svc.RecordEvent(ctx, RecordEventRequest{
			PDVID:       101,
			StatusID:    attentionStatusID,
			Description: desc,
			TechID:      techUserID,
		})
		require.NoError(t, err)
	}

	var firstID int64
	require.NoError(t, db.Get(&firstID, "SELECT id FROM problems ORDER BY id LIMIT 1"))

	err := svc.ResolveProblem(ctx, firstID, ResolveProblemRequest{
		Notes:        "Monitor substituído",
		ActingUserID: techUserID,
	})
	require.NoError(t, err)

	// Two event rows, no reconciliation entry.
	assert.Equal(t, 2, countRows(t, db, "statusHistory"))

	cs, err := svc.CurrentStatus(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, int64(attentionStatusID), cs.StatusID)
	assert.Equal(t, "Teclado travado", cs.Description)
}

func TestResolveProblemValidation(t *testing.T) {
	// P4: short notes change nothing.
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordEvent(ctx, RecordEventRequest{
		PDVID:       101,
		StatusID:    maintenanceStatusID,
		Description: "Fonte queimada",
		TechID:      techUserID,
	})
	require.NoError(t, err)

	var problemID int64
	require.NoError(t, db.Get(&problemID, "SELECT id FROM problems"))

	err = svc.ResolveProblem(ctx, problemID, ResolveProblemRequest{Notes: "curto", ActingUserID: techUserID})
	assert.ErrorIs(t, err, ErrValidation)

	var st string
	require.NoError(t, db.Get(&st, "SELECT status FROM problems WHERE id = ?", problemID))
	assert.Equal(t, ProblemOpen, st)
	assert.Equal(t, 1, countRows(t, db, "statusHistory"))
}

func TestResolveProblemNotFound(t *testing.T) {
	svc, db := newTestService(t)

	err := svc.ResolveProblem(context.Background(), 42, ResolveProblemRequest{
		Notes:        "não existe mesmo",
		ActingUserID: techUserID,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, countRows(t, db, "statusHistory"))
}

func TestPDVsWithStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordEvent(ctx, RecordEventRequest{
		PDVID:       102,
		StatusID:    attentionStatusID,
		Description: "Tecla travada",
		TechID:      techUserID,
	})
	require.NoError(t, err)

	pdvs, err := svc.PDVsWithStatus(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pdvs, 3)

	byID := map[int64]*PDVWithStatus{}
	for _, p := range pdvs {
		require.NotNil(t, p.LastStatus)
		byID[p.ID] = p
	}
	assert.Equal(t, int64(noStatusID), byID[101].LastStatus.StatusID)
	assert.Equal(t, int64(attentionStatusID), byID[102].LastStatus.StatusID)
	assert.Equal(t, int64(noStatusID), byID[103].LastStatus.StatusID)
}

func TestHistoryOrderAndLimit(t *testing.T) {
	svc, db := newTestService(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 25; i++ {
		_, err := repo.InsertEvent(ctx, &StatusHistoryEntry{
			PDVID:       101,
			StatusID:    okStatusID,
			Description: "entrada",
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
		}, nil)
		require.NoError(t, err)
	}

	entries, err := svc.History(ctx, 101)
	require.NoError(t, err)
	require.Len(t, entries, 20)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
	}
}
