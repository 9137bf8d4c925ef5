package migrations

import "embed"

// Files holds the numbered schema files applied by db.OpenSQLite.
//
//go:embed *.sql
var Files embed.FS
