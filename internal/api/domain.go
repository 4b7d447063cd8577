package api

import (
	"github.com/JaimeStill/vigil/internal/analyses"
	"github.com/JaimeStill/vigil/internal/monitor"
	"github.com/JaimeStill/vigil/internal/situations"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses   analyses.System
	Monitor    monitor.System
	Situations situations.System
}

// NewDomain creates all domain systems from the API runtime.
// The situations repository doubles as the monitor's catalog store.
func NewDomain(runtime *Runtime) *Domain {
	situationsSystem := situations.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	monitorSystem := monitor.New(
		runtime.Assessment,
		situationsSystem,
		runtime.Logger,
	)

	analysesSystem := analyses.New(
		monitorSystem,
		runtime.Vision,
		runtime.Speech,
		runtime.Logger,
	)

	return &Domain{
		Analyses:   analysesSystem,
		Monitor:    monitorSystem,
		Situations: situationsSystem,
	}
}
