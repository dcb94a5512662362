package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/oomph-ac/movement/ability"
	"github.com/oomph-ac/movement/engine"
	"github.com/oomph-ac/movement/movement"
	"github.com/oomph-ac/movement/prediction"
	"github.com/oomph-ac/movement/session"
	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured about movement and its replication.
type Settings struct {
	Movement struct {
		MaxSpeed        float32
		Gravity         float32
		JumpVelocity    float32
		BrakingFriction float32
		FlyingDrag      float32
		GroundHeight    float32

		TargetingSpeedModifier float32
		RunningSpeedModifier   float32
	}
	Teleport struct {
		Distance           float32
		ClipSafetyDistance float32
	}
	Jetpack struct {
		InitialForce float32
		MaxForce     float32
		IncreaseRate float32
	}
	WallJump struct {
		Velocity     float32
		LateralForce float32
	}
	Prediction struct {
		MaxSmoothNetUpdateDist float32
		NoSmoothNetUpdateDist  float32
		MaxMoveDeltaTime       float32
		MaxHistory             int
	}
	Network struct {
		// Network is either "raknet" or "kcp".
		Network string
		Address string
		// SendInterval is the time between two move batches, in seconds.
		SendInterval float32
		// FrameTimeRate is the max amount of frame time updates per second. Zero disables the limit.
		FrameTimeRate       float64
		CorrectionThreshold float32
	}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	settings := Settings{}
	conf := movement.DefaultConfig()

	settings.Movement.MaxSpeed = conf.MaxSpeed
	settings.Movement.Gravity = conf.Engine.Gravity
	settings.Movement.JumpVelocity = conf.Engine.JumpVelocity
	settings.Movement.BrakingFriction = conf.Engine.BrakingFriction
	settings.Movement.FlyingDrag = conf.Engine.FlyingDrag
	settings.Movement.TargetingSpeedModifier = 0.5
	settings.Movement.RunningSpeedModifier = 1.5

	settings.Teleport.Distance = conf.Abilities.TeleportDistance
	settings.Teleport.ClipSafetyDistance = conf.Abilities.ClipSafetyDistance

	settings.Jetpack.InitialForce = conf.Abilities.JetpackInitialForce
	settings.Jetpack.MaxForce = conf.Abilities.JetpackMaxForce
	settings.Jetpack.IncreaseRate = conf.Abilities.JetpackIncreaseRate

	settings.WallJump.Velocity = conf.Abilities.WallJumpVelocity
	settings.WallJump.LateralForce = conf.Abilities.WallJumpLateralForce

	settings.Prediction.MaxSmoothNetUpdateDist = conf.Prediction.MaxSmoothNetUpdateDist
	settings.Prediction.NoSmoothNetUpdateDist = conf.Prediction.NoSmoothNetUpdateDist
	settings.Prediction.MaxMoveDeltaTime = conf.Prediction.MaxMoveDeltaTime
	settings.Prediction.MaxHistory = conf.Prediction.MaxHistory

	settings.Network.Network = "raknet"
	settings.Network.Address = "127.0.0.1:19140"
	settings.Network.SendInterval = 1.0 / 30
	settings.Network.CorrectionThreshold = session.DefaultCorrectionThreshold
	return settings
}

// MovementConfig returns the configuration of a movement component.
func (s Settings) MovementConfig() movement.Config {
	return movement.Config{
		Abilities: ability.Config{
			TeleportDistance:     s.Teleport.Distance,
			ClipSafetyDistance:   s.Teleport.ClipSafetyDistance,
			JetpackInitialForce:  s.Jetpack.InitialForce,
			JetpackMaxForce:      s.Jetpack.MaxForce,
			JetpackIncreaseRate:  s.Jetpack.IncreaseRate,
			WallJumpVelocity:     s.WallJump.Velocity,
			WallJumpLateralForce: s.WallJump.LateralForce,
		},
		Prediction: prediction.Config{
			MaxSmoothNetUpdateDist: s.Prediction.MaxSmoothNetUpdateDist,
			NoSmoothNetUpdateDist:  s.Prediction.NoSmoothNetUpdateDist,
			MaxMoveDeltaTime:       s.Prediction.MaxMoveDeltaTime,
			MaxHistory:             s.Prediction.MaxHistory,
		},
		Engine: engine.Options{
			Gravity:         s.Movement.Gravity,
			JumpVelocity:    s.Movement.JumpVelocity,
			BrakingFriction: s.Movement.BrakingFriction,
			FlyingDrag:      s.Movement.FlyingDrag,
			GroundHeight:    s.Movement.GroundHeight,
		},
		MaxSpeed: s.Movement.MaxSpeed,
	}
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %v", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %v", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %v", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	return settings, nil
}
