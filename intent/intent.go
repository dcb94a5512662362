package intent

import "github.com/go-gl/mathgl/mgl32"

// Intent is what the local player wants to do during the current tick. Only the boolean fields
// are carried by the compressed flags byte: WallNormal and FrameTime travel over the auxiliary
// channel instead.
type Intent struct {
	WantsTeleport bool
	WantsJetpack  bool
	WantsWallJump bool

	// WallNormal is the normal of the wall the player last asked to jump off.
	WallNormal mgl32.Vec3
	// FrameTime is the duration of the tick the intent is processed in.
	FrameTime float32
}

// Flag returns the boolean field bound to the flag given. Flags outside the known set are
// always false.
func (i *Intent) Flag(f Flag) bool {
	if field := i.field(f); field != nil {
		return *field
	}
	return false
}

// SetFlag sets the boolean field bound to the flag given. Unknown flags are ignored.
func (i *Intent) SetFlag(f Flag, v bool) {
	if field := i.field(f); field != nil {
		*field = v
	}
}

// Active returns true if any ability flag is set.
func (i *Intent) Active() bool {
	for f := range Flags() {
		if i.Flag(f) {
			return true
		}
	}
	return false
}

// ClearFlags resets every boolean field, leaving WallNormal and FrameTime untouched.
func (i *Intent) ClearFlags() {
	for f := range Flags() {
		i.SetFlag(f, false)
	}
}

// EqualFlags returns true if both intents hold the same boolean values.
func (i *Intent) EqualFlags(other *Intent) bool {
	return Encode(*i) == Encode(*other)
}

func (i *Intent) field(f Flag) *bool {
	switch f {
	case FlagTeleport:
		return &i.WantsTeleport
	case FlagJetpack:
		return &i.WantsJetpack
	case FlagWallJump:
		return &i.WantsWallJump
	}
	return nil
}
