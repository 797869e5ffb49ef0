package checklist

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wesribeiro/painel-ti/internal/modules/status"
	"github.com/wesribeiro/painel-ti/internal/platform/database"
)

const (
	okStatusID          = 1
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
		`INSERT INTO pdvs (id, number, storeId) VALUES (101, '101', 1), (102, '102', 1)`,
		`INSERT INTO pdvItems (id, name) VALUES (1, 'Monitor'), (2, 'Teclado')`,
	}
	for _, q := range fixtures {
		_, err := db.Exec(q)
		require.NoError(t, err)
	}

	sentinels := status.Sentinels{OK: okStatusID, NoStatus: noStatusID}
	return NewService(NewSQLiteRepository(db), sentinels, zap.NewNop()), db
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(id) FROM "+table))
	return n
}

func checksJSON(t *testing.T, checks []PdvCheck) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(checks)
	require.NoError(t, err)
	return raw
}

func TestFinalizeFansOutHistoryAndProblems(t *testing.T) {
	// Scenario C / P5: two checks with a new status produce two ledger rows
	// and one problem (for the non-"Ok" one).
	svc, db := newTestService(t)

	okID := int64(okStatusID)
	maintID := int64(maintenanceStatusID)
	checks := []PdvCheck{
		{PDVID: 101, Result: ResultOK, NewStatusID: &okID},
		{PDVID: 102, Result: ResultProblem, NewStatusID: &maintID, Observation: "Tecla travada", Issues: []string{"std-2"}},
	}

	result, err := svc.Save(context.Background(), SaveRequest{
		StoreID:   1,
		Date:      "2025-01-10",
		Status:    StatusCompleted,
		PdvChecks: checksJSON(t, checks),
	}, techUserID)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.True(t, result.Finalized)

	assert.Equal(t, 1, countRows(t, db, "checklists"))
	assert.Equal(t, 2, countRows(t, db, "statusHistory"))
	assert.Equal(t, 1, countRows(t, db, "problems"))

	var checklistStatus string
	require.NoError(t, db.Get(&checklistStatus, "SELECT status FROM checklists WHERE id = ?", result.ID))
	assert.Equal(t, StatusCompleted, checklistStatus)

	var descriptions []string
	require.NoError(t, db.Select(&descriptions, "SELECT description FROM statusHistory ORDER BY id"))
	assert.Equal(t, []string{"[CHECKLIST] Tudo OK.", "[CHECKLIST] Tecla travada"}, descriptions)

	var problem struct {
		PDVID          int64  `db:"pdv_id"`
		ItemID         *int64 `db:"item_id"`
		Status         string `db:"status"`
		OriginStatusID int64  `db:"originStatusId"`
	}
	require.NoError(t, db.Get(&problem, "SELECT pdv_id, item_id, status, originStatusId FROM problems"))
	assert.Equal(t, int64(102), problem.PDVID)
	require.NotNil(t, problem.ItemID)
	assert.Equal(t, int64(2), *problem.ItemID)
	assert.Equal(t, "Aberto", problem.Status)
	assert.Equal(t, int64(maintenanceStatusID), problem.OriginStatusID)
}

func TestBusyChecksProduceNoWrites(t *testing.T) {
	svc, db := newTestService(t)

	checks := []PdvCheck{
		{PDVID: 101, Result: ResultBusy},
		{PDVID: 102, Result: ResultBusy},
	}
	result, err := svc.Save(context.Background(), SaveRequest{
		StoreID:   1,
		Date:      "2025-01-10",
		Status:    StatusCompleted,
		PdvChecks: checksJSON(t, checks),
	}, techUserID)
	require.NoError(t, err)
	assert.True(t, result.Finalized)

	assert.Equal(t, 0, countRows(t, db, "statusHistory"))
	assert.Equal(t, 0, countRows(t, db, "problems"))
}

func TestRepeatedCreateUpdatesExistingRow(t *testing.T) {
	// P6: two saves for the same (store, date) without an id must end up in
	// one row.
	svc, db := newTestService(t)
	ctx := context.Background()

	okID := int64(okStatusID)
	checks := checksJSON(t, []PdvCheck{{PDVID: 101, Result: ResultOK, NewStatusID: &okID}})

	first, err := svc.Save(ctx, SaveRequest{StoreID: 1, Date: "2025-01-10", Status: StatusInProgress, PdvChecks: checks}, techUserID)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := svc.Save(ctx, SaveRequest{StoreID: 1, Date: "2025-01-10", Status: StatusCompleted, PdvChecks: checks}, techUserID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.True(t, second.Finalized)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, 1, countRows(t, db, "checklists"))
}

func TestRefinalizeIsIdempotent(t *testing.T) {
	// A second save of an already-completed checklist must not duplicate
	// ledger or problem rows.
	svc, db := newTestService(t)
	ctx := context.Background()

	maintID := int64(maintenanceStatusID)
	req := SaveRequest{
		StoreID:   1,
		Date:      "2025-01-10",
		Status:    StatusCompleted,
		PdvChecks: checksJSON(t, []PdvCheck{{PDVID: 102, Result: ResultProblem, NewStatusID: &maintID}}),
	}

	first, err := svc.Save(ctx, req, techUserID)
	require.NoError(t, err)
	assert.True(t, first.Finalized)
	assert.Equal(t, 1, countRows(t, db, "statusHistory"))
	assert.Equal(t, 1, countRows(t, db, "problems"))

	req.ID = first.ID
	second, err := svc.Save(ctx, req, techUserID)
	require.NoError(t, err)
	assert.False(t, second.Finalized)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, 1, countRows(t, db, "statusHistory"))
	assert.Equal(t, 1, countRows(t, db, "problems"))
	assert.Equal(t, 1, countRows(t, db, "checklists"))
}

func TestFinalizeRollsBackOnFailure(t *testing.T) {
	// P5 failure half: a check referencing an unknown PDV fails the batch;
	// nothing survives, not even the checklist row.
	svc, db := newTestService(t)

	okID := int64(okStatusID)
	checks := []PdvCheck{
		{PDVID: 101, Result: ResultOK, NewStatusID: &okID},
		{PDVID: 999, Result: ResultOK, NewStatusID: &okID},
	}
	_, err := svc.Save(context.Background(), SaveRequest{
		StoreID:   1,
		Date:      "2025-01-10",
		Status:    StatusCompleted,
		PdvChecks: checksJSON(t, checks),
	}, techUserID)
	require.Error(t, err)

	assert.Equal(t, 0, countRows(t, db, "checklists"))
	assert.Equal(t, 0, countRows(t, db, "statusHistory"))
	assert.Equal(t, 0, countRows(t, db, "problems"))
}

func TestFinalizeRollbackKeepsPriorStatus(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, SaveRequest{
		StoreID:   1,
		Date:      "2025-01-10",
		Status:    StatusInProgress,
		PdvChecks: json.RawMessage("[]"),
	}, techUserID)
	require.NoError(t, err)

	okID := int64(okStatusID)
	_, err = svc.Save(ctx, SaveRequest{
		ID:        saved.ID,
		StoreID:   1,
		Date:      "2025-01-10",
		Status:    StatusCompleted,
		PdvChecks: checksJSON(t, []PdvCheck{{PDVID: 999, Result: ResultOK, NewStatusID: &okID}}),
	}, techUserID)
	require.Error(t, err)

	var st string
	require.NoError(t, db.Get(&st, "SELECT status FROM checklists WHERE id = ?", saved.ID))
	assert.Equal(t, StatusInProgress, st)
}

func TestSaveValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, SaveRequest{Date: "2025-01-10", Status: StatusInProgress}, techUserID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Save(ctx, SaveRequest{StoreID: 1, Date: "10/01/2025", Status: StatusInProgress}, techUserID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Save(ctx, SaveRequest{StoreID: 1, Date: "2025-01-10", Status: "done"}, techUserID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Save(ctx, SaveRequest{
		StoreID:   1,
		Date:      "2025-01-10",
		Status:    StatusCompleted,
		PdvChecks: json.RawMessage(`{"not":"an array"}`),
	}, techUserID)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, 0, countRows(t, db, "checklists"))
}

func TestSaveUnknownIDNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Save(context.Background(), SaveRequest{
		ID:      42,
		StoreID: 1,
		Date:    "2025-01-10",
		Status:  StatusInProgress,
	}, techUserID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefaultObservationForProblemResult(t *testing.T) {
	svc, db := newTestService(t)

	maintID := int64(maintenanceStatusID)
	_, err := svc.Save(context.Background(), SaveRequest{
		StoreID:   1,
		Date:      "2025-01-10",
		Status:    StatusCompleted,
		PdvChecks: checksJSON(t, []PdvCheck{{PDVID: 102, Result: ResultProblem, NewStatusID: &maintID}}),
	}, techUserID)
	require.NoError(t, err)

	var description string
	require.NoError(t, db.Get(&description, "SELECT description FROM statusHistory"))
	assert.Equal(t, "[CHECKLIST] Problema reportado.", description)
}

func TestPdvChecksRoundTripIsLossless(t *testing.T) {
	// The raw payload, including unknown fields and element order, must
	// survive the trip through the text column untouched.
	svc, _ := newTestService(t)
	ctx := context.Background()

	raw := json.RawMessage(`[{"pdvId":102,"result":"ok","extra":"kept"},{"pdvId":101,"result":"busy"}]`)
	saved, err := svc.Save(ctx, SaveRequest{
		StoreID:   1,
		Date:      "2025-01-10",
		Status:    StatusInProgress,
		PdvChecks: raw,
	}, techUserID)
	require.NoError(t, err)

	c, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(c.PdvChecks))
	assert.Equal(t, string(raw), string(c.PdvChecks))
}

func TestHistoryListsCompletedOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, SaveRequest{StoreID: 1, Date: "2025-01-09", Status: StatusInProgress, PdvChecks: json.RawMessage("[]")}, techUserID)
	require.NoError(t, err)
	_, err = svc.Save(ctx, SaveRequest{StoreID: 1, Date: "2025-01-10", Status: StatusCompleted, PdvChecks: json.RawMessage("[]")}, techUserID)
	require.NoError(t, err)

	all, err := svc.History(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2025-01-10", all[0].Date)
	assert.Equal(t, StatusCompleted, all[0].Status)

	storeID := int64(2)
	other, err := svc.History(ctx, &storeID)
	require.NoError(t, err)
	assert.Empty(t, other)
}
