package database

import "github.com/jmoiron/sqlx"

const schema = `
CREATE TABLE IF NOT EXISTS roles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    permissions TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stores (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    pdvNamingStart INTEGER NOT NULL,
    checklistConfig TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    username TEXT NOT NULL UNIQUE,
    password TEXT,
    lastLogin DATETIME,
    roleId INTEGER NOT NULL,
    storeId INTEGER,
    FOREIGN KEY (roleId) REFERENCES roles(id),
    FOREIGN KEY (storeId) REFERENCES stores(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS pdvs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    number TEXT NOT NULL,
    storeId INTEGER NOT NULL,
    FOREIGN KEY (storeId) REFERENCES stores(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS pdvItems (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS statusTypes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    color TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS statusHistory (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL,
    timestamp DATETIME NOT NULL,
    pdvId INTEGER NOT NULL,
    statusId INTEGER NOT NULL,
    techId INTEGER,
    itemId INTEGER,
    FOREIGN KEY (pdvId) REFERENCES pdvs(id) ON DELETE CASCADE,
    FOREIGN KEY (statusId) REFERENCES statusTypes(id),
    FOREIGN KEY (techId) REFERENCES users(id) ON DELETE SET NULL,
    FOREIGN KEY (itemId) REFERENCES pdvItems(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS checklists (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    status TEXT NOT NULL, -- 'in-progress', 'completed'
    pdvChecks TEXT NOT NULL,
    storeId INTEGER NOT NULL,
    finalizedByUserId INTEGER,
    FOREIGN KEY (storeId) REFERENCES stores(id) ON DELETE CASCADE,
    FOREIGN KEY (finalizedByUserId) REFERENCES users(id) ON DELETE SET NULL,
    UNIQUE(date, storeId)
);

CREATE TABLE IF NOT EXISTS actionLogs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    description TEXT NOT NULL,
    timestamp DATETIME NOT NULL,
    userId INTEGER,
    userName TEXT,
    metadata TEXT,
    FOREIGN KEY (userId) REFERENCES users(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS problems (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    pdv_id INTEGER NOT NULL,
    item_id INTEGER,
    reported_by_user_id INTEGER NOT NULL,
    assigned_to_user_id INTEGER,
    title TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL DEFAULT 'Aberto', -- Aberto, Em Andamento, Resolvido
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    resolved_at DATETIME,
    resolution_notes TEXT,
    resolved_by_user_id INTEGER,
    originStatusId INTEGER NOT NULL,
    FOREIGN KEY (pdv_id) REFERENCES pdvs(id) ON DELETE CASCADE,
    FOREIGN KEY (item_id) REFERENCES pdvItems(id) ON DELETE SET NULL,
    FOREIGN KEY (reported_by_user_id) REFERENCES users(id) ON DELETE SET NULL,
    FOREIGN KEY (assigned_to_user_id) REFERENCES users(id) ON DELETE SET NULL,
    FOREIGN KEY (resolved_by_user_id) REFERENCES users(id) ON DELETE SET NULL,
    FOREIGN KEY (originStatusId) REFERENCES statusTypes(id) ON DELETE SET NULL
);
`

// Migrate creates any missing tables. It is safe to run on every startup.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
