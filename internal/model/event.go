package model

// EventType identifies a sink lifecycle change reported by the sound server.
type EventType string

const (
	// EventChanged is reported when an existing sink changes state,
	// for example when a jack is plugged into it.
	EventChanged EventType = "changed"
	// EventNew is reported when a sink is created.
	EventNew EventType = "new"
	// EventRemoved is reported when a sink disappears.
	EventRemoved EventType = "removed"
)

// Event is a single sink event from the subscription feed.
type Event struct {
	Type EventType `json:"type"`
	Sink int       `json:"sink"`
}

// Role names a logical routing target.
type Role string

const (
	// RoleFallback is the internal device that is always expected to exist.
	RoleFallback Role = "fallback"
	// RolePreferred is the removable device used when present and no
	// headphones are connected.
	RolePreferred Role = "preferred"
)

// Roles binds each routing role to a sink's stable name.
type Roles struct {
	Fallback  string `json:"fallback" toml:"fallback"`
	Preferred string `json:"preferred" toml:"preferred"`
}

// Name returns the stable name bound to role.
func (r Roles) Name(role Role) string {
	switch role {
	case RoleFallback:
		return r.Fallback
	case RolePreferred:
		return r.Preferred
	default:
		return ""
	}
}

// Switch records one redirection decision.
type Switch struct {
	ID                  string `json:"id" yaml:"id"`
	Role                Role   `json:"role" yaml:"role"`
	StableName          string `json:"stable_name" yaml:"stable_name"`
	Handle              int    `json:"handle" yaml:"handle"`
	StreamsMoved        int    `json:"streams_moved" yaml:"streams_moved"`
	HeadphonesConnected bool   `json:"headphones_connected" yaml:"headphones_connected"`
}
