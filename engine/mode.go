package engine

// Mode is the movement mode of a body.
type Mode uint8

const (
	// ModeWalking is used while the body is supported by the ground.
	ModeWalking Mode = iota
	// ModeFalling is used while the body is airborne and affected by gravity.
	ModeFalling
	// ModeFlying ignores gravity entirely.
	ModeFlying
)

func (m Mode) String() string {
	switch m {
	case ModeWalking:
		return "walking"
	case ModeFalling:
		return "falling"
	case ModeFlying:
		return "flying"
	}
	return "unknown"
}

// TeleportKind describes how a position set interacts with physics.
type TeleportKind uint8

const (
	// TeleportNone keeps velocity-based physics state as-is.
	TeleportNone TeleportKind = iota
	// TeleportPhysics moves the body instantly without interpolation.
	TeleportPhysics
)

// Engine-owned compressed flags. Bits from intent.CustomFlagOffset upwards are left to custom
// movement.
const (
	FlagJump byte = 1 << iota
	FlagCrouch
)
