package sqlite

// Schema DDL for the key-value table. Keys compare with the BINARY
// collation so ORDER BY key matches byte order.
const (
	createKV = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY NOT NULL,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// schemaDDL lists the statements executed on Open, in order.
var schemaDDL = []string{
	createKV,
}

// Pragmas applied through the DSN so every pooled connection gets them.
const dsnPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
