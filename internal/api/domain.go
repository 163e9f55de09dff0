package api

import (
	"github.com/JaimeStill/vantage/internal/session"
	"github.com/JaimeStill/vantage/internal/settings"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Session  session.System
	Settings settings.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	sessionSystem := session.New(
		runtime.Agent,
		runtime.Activity,
		runtime.Logger,
		session.Options{
			SessionID: runtime.SessionID,
			AgentID:   runtime.Agent.AgentID(),
		},
	)

	settingsSystem := settings.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Session:  sessionSystem,
		Settings: settingsSystem,
	}
}
