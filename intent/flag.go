package intent

import (
	"fmt"
	"iter"
)

// Flag is the bit position of an ability inside the ability bitmask. The order below is the wire
// layout: new abilities are appended at the end and existing entries are never renumbered.
type Flag uint8

const (
	FlagTeleport Flag = iota
	FlagJetpack
	FlagWallJump

	flagCount
)

// CustomFlagOffset is the first bit of the engine's compressed flags byte that is reserved for
// custom movement. Bits below it belong to the engine (jump, crouch).
const CustomFlagOffset = 4

// customFlagBits is the number of bits the engine leaves for custom movement.
const customFlagBits = 8 - CustomFlagOffset

// Mask holds a bit for every known flag.
const Mask byte = 1<<flagCount - 1

var flagNames = [...]string{
	FlagTeleport: "teleport",
	FlagJetpack:  "jetpack",
	FlagWallJump: "wall_jump",
}

// Flags iterates over every known flag in bit order.
func Flags() iter.Seq[Flag] {
	return func(yield func(Flag) bool) {
		for f := range flagCount {
			if !yield(f) {
				return
			}
		}
	}
}

// Bit returns the mask of the flag inside the ability bitmask.
func (f Flag) Bit() byte {
	return 1 << f
}

// Valid returns true if the flag is part of the known ability set.
func (f Flag) Valid() bool {
	return f < flagCount
}

func (f Flag) String() string {
	if !f.Valid() {
		return fmt.Sprintf("flag(%d)", uint8(f))
	}
	return flagNames[f]
}
