package user

import "time"

// User is a dashboard account: an administrator, technician or supervisor.
// PasswordHash is nil until the user completes first login.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Username     string     `db:"username" json:"username"`
	PasswordHash *string    `db:"password" json:"-"`
	LastLogin    *time.Time `db:"lastLogin" json:"lastLogin,omitempty"`
	RoleID       int64      `db:"roleId" json:"roleId"`
	StoreID      *int64     `db:"storeId" json:"storeId,omitempty"`
}
