package database

import (
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// Seed populates an empty database with the initial reference data: roles,
// stores, users, PDVs, PDV items, status types and a handful of history rows.
// A database that already has users is left untouched.
func Seed(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(id) FROM users"); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	roles := []struct {
		id          int64
		name        string
		permissions string
	}{
		{1, "Administrador", `{"accessAdminPanel":true,"manageUsers":true,"manageStores":true,"manageStatusTypes":true,"managePermissions":true,"viewActionLogs":true,"manageChecklistSettings":true,"managePdvItems":true,"canStartChecklist":true,"editPdvStatus":"all","viewAllPdvStatus":true}`},
		{2, "Técnico", `{"accessAdminPanel":true,"manageUsers":false,"manageStores":false,"manageStatusTypes":false,"managePermissions":false,"viewActionLogs":false,"manageChecklistSettings":false,"managePdvItems":false,"canStartChecklist":true,"editPdvStatus":"own","viewAllPdvStatus":true}`},
		{3, "Supervisor", `{"accessAdminPanel":true,"manageUsers":false,"manageStores":false,"manageStatusTypes":false,"managePermissions":false,"viewActionLogs":false,"manageChecklistSettings":false,"managePdvItems":false,"canStartChecklist":false,"editPdvStatus":"none","viewAllPdvStatus":true}`},
	}
	for _, r := range roles {
		if _, err := tx.Exec("INSERT INTO roles (id, name, permissions) VALUES (?, ?, ?)", r.id, r.name, r.permissions); err != nil {
			return err
		}
	}

	stores := []struct {
		id     int64
		name   string
		start  int
		config string
	}{
		{1, "Nilo - Loja 01 (Centro)", 101, `{"items":[{"id":1,"text":"Verificar Ar Condicionado"}],"noChecklistDaysLimit":5}`},
		{2, "Nilo - Loja 02 (Bairro)", 201, `{"items":[],"noChecklistDaysLimit":3}`},
	}
	for _, s := range stores {
		if _, err := tx.Exec("INSERT INTO stores (id, name, pdvNamingStart, checklistConfig) VALUES (?, ?, ?, ?)", s.id, s.name, s.start, s.config); err != nil {
			return err
		}
	}

	users := []struct {
		id       int64
		name     string
		username string
		password string
		roleID   int64
		storeID  *int64
	}{
		{1, "Administrador", "admin", "Nilo@@1254", 1, nil},
		{2, "Fulano de Tal", "fulano", "123", 2, ptr(int64(1))},
		{3, "Ciclano Supervisor", "supervisor", "", 3, nil},
	}
	for _, u := range users {
		var hash *string
		if u.password != "" {
			h, err := bcrypt.GenerateFromPassword([]byte(u.password), bcryptCost)
			if err != nil {
				return err
			}
			s := string(h)
			hash = &s
		}
		if _, err := tx.Exec("INSERT INTO users (id, name, username, password, roleId, storeId) VALUES (?, ?, ?, ?, ?, ?)",
			u.id, u.name, u.username, hash, u.roleID, u.storeID); err != nil {
			return err
		}
	}

	pdvs := []struct {
		id      int64
		storeID int64
		number  string
	}{
		{101, 1, "101"}, {102, 1, "102"}, {103, 1, "103"}, {104, 2, "201"},
	}
	for _, p := range pdvs {
		if _, err := tx.Exec("INSERT INTO pdvs (id, storeId, number) VALUES (?, ?, ?)", p.id, p.storeID, p.number); err != nil {
			return err
		}
	}

	for _, name := range []string{"Monitor", "Teclado", "Mouse", "Scanner de Mão", "Impressora Fiscal"} {
		if _, err := tx.Exec("INSERT INTO pdvItems (name) VALUES (?)", name); err != nil {
			return err
		}
	}

	statusTypes := []struct {
		name  string
		color string
	}{
		{"Ok", "green"}, {"Atenção", "orange"}, {"Manutenção", "red"}, {"Reserva", "gray"}, {"Sem status", "gray"},
	}
	for _, st := range statusTypes {
		if _, err := tx.Exec("INSERT INTO statusTypes (name, color) VALUES (?, ?)", st.name, st.color); err != nil {
			return err
		}
	}

	history := []struct {
		pdvID       int64
		statusID    int64
		description string
		techID      int64
		timestamp   time.Time
		itemID      *int64
	}{
		{101, 3, "PDV não liga, fonte.", 2, time.Date(2025, 9, 25, 10, 0, 0, 0, time.UTC), nil},
		{101, 1, "Fonte trocada", 2, time.Date(2025, 9, 26, 11, 30, 0, 0, time.UTC), nil},
		{102, 2, `Tecla "5" não funciona`, 2, time.Date(2025, 9, 27, 9, 0, 0, 0, time.UTC), ptr(int64(2))},
	}
	for _, h := range history {
		if _, err := tx.Exec("INSERT INTO statusHistory (pdvId, statusId, description, techId, timestamp, itemId) VALUES (?, ?, ?, ?, ?, ?)",
			h.pdvID, h.statusID, h.description, h.techID, h.timestamp, h.itemID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func ptr[T any](v T) *T { return &v }
