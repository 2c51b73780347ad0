package module

import "rfinder/internal/services/finder/domain"

// Ports defines finder module ports exposed to commands and other modules
type Ports struct {
	Finder domain.FinderPort
	Runs   domain.RunsPort
	// Stop signals every active run
	Stop func() int
}
