package status

// StatusType is a reference status a PDV can be in. Two rows are reserved:
// "Ok" means no issue, "Sem status" means the PDV was never inspected.
type StatusType struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Color string `db:"color" json:"color"`
}

const (
	NameOK       = "Ok"
	NameNoStatus = "Sem status"
)

// Sentinels holds the database ids of the reserved status rows, resolved once
// at startup. Core services branch on these ids, never on the names.
type Sentinels struct {
	OK       int64
	NoStatus int64
}
