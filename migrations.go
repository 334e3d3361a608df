package modules

import (
	"embed"
)

//go:embed data/sql/migrations/sqlite/*.sql data/sql/migrations/postgres/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files for this package.
// Files live under data/sql/migrations/<dialect>.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
