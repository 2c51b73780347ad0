package modkit

import (
	"rfinder/internal/modkit/repokit"
	"rfinder/internal/platform/config"
	"rfinder/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
	// PG is nil when no database is configured
	PG repokit.Queryer
}

// HasPG reports whether a database is wired
func (d Deps) HasPG() bool { return d.PG != nil }
