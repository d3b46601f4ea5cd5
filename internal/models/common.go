package models

// Storage layouts. SQLite keeps dates, timestamps and decimals as TEXT.
const (
	TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
	DateLayout      = "2006-01-02"
)

// AuditFields holds the stored audit timestamps.
type AuditFields struct {
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}
