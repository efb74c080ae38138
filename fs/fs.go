package appfs

import "embed"

// FS holds the SQL migrations (one directory per engine) and the demo seed data.
//
//go:embed migrations seeds
var FS embed.FS

const (
	MigrationsDir = "migrations"
	DemoSeedFile  = "seeds/demo.yaml"
)
