package network

import "math"

const (
	MinSpeed     = 0.1
	MaxSpeed     = 2.0
	DefaultSpeed = 0.5

	// StageDone is the stage index once every stage has been revealed.
	StageDone = 5
)

// AnimationState is the mutable state owned by a Controller.
type AnimationState struct {
	Progress float64
	Stage    int
	Running  bool
	Speed    float64
}

// progressEpsilon absorbs float drift from summing fractional speeds.
const progressEpsilon = 1e-6

// Tick advances progress by one frame. It knows nothing about stages.
func Tick(s AnimationState) AnimationState {
	p := s.Progress + s.Speed
	if p >= 100-progressEpsilon {
		p = 100
	}
	s.Progress = p
	return s
}

// TicksToComplete is the number of frames a stage takes at speed.
func TicksToComplete(speed float64) int {
	return int(math.Ceil(100 / ClampSpeed(speed)))
}

// ClampSpeed limits v to [MinSpeed, MaxSpeed]; NaN yields DefaultSpeed.
func ClampSpeed(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return DefaultSpeed
	case v < MinSpeed:
		return MinSpeed
	case v > MaxSpeed:
		return MaxSpeed
	}
	return v
}
