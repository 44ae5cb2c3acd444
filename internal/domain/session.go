package domain

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseReady    Phase = "ready"
	PhaseWaiting  Phase = "waiting"
	PhaseStimulus Phase = "stimulus"
	PhaseTooEarly Phase = "too_early"
	PhaseResult   Phase = "result"
)

type Input int

const (
	InputStart Input = iota
	InputPointer
	InputRetry
	InputTimerFired
)

func (in Input) String() string {
	switch in {
	case InputStart:
		return "start"
	case InputPointer:
		return "input"
	case InputRetry:
		return "retry"
	case InputTimerFired:
		return "timer"
	default:
		return "unknown"
	}
}

const (
	MinDelay = 2000 * time.Millisecond
	MaxDelay = 5000 * time.Millisecond
)

type Attempt struct {
	Milliseconds int       `json:"ms"`
	RecordedAt   time.Time `json:"recordedAt"`
}

type Session struct {
	ID       string
	Phase    Phase
	OnsetAt  time.Time
	Attempts []Attempt
	Best     *int
	// NewBest reports whether the latest attempt set Best.
	NewBest bool
}

// Effect is what the owner of a Session must do after a transition.
type Effect struct {
	Arm     time.Duration
	Cancel  bool
	NewBest bool
}

func NewSession(id string, best *int) Session {
	if id == "" {
		id = uuid.New().String()
	}

	return Session{
		ID:    id,
		Phase: PhaseReady,
		Best:  best,
	}
}

// RandomDelay returns a delay uniformly drawn from [MinDelay, MaxDelay).
func RandomDelay(r *rand.Rand) time.Duration {
	return MinDelay + time.Duration(r.Int63n(int64(MaxDelay-MinDelay)))
}

func ReactionMillis(onset, now time.Time) int {
	ms := math.Round(float64(now.Sub(onset)) / float64(time.Millisecond))
	if ms < 0 {
		return 0
	}
	return int(ms)
}

// Transition applies in to s and returns the next session. s is never
// modified; inputs not valid for s.Phase return s unchanged with no effect.
func Transition(s Session, in Input, now time.Time, r *rand.Rand) (Session, Effect) {
	switch s.Phase {
	case PhaseReady:
		if in == InputStart {
			return arm(s, r)
		}

	case PhaseWaiting:
		switch in {
		case InputTimerFired:
			s.Phase = PhaseStimulus
			s.OnsetAt = now
			return s, Effect{}
		case InputPointer:
			s.Phase = PhaseTooEarly
			return s, Effect{Cancel: true}
		}

	case PhaseStimulus:
		if in == InputPointer {
			// An input stamped before the onset was made while still waiting.
			if now.Before(s.OnsetAt) {
				s.Phase = PhaseTooEarly
				s.OnsetAt = time.Time{}
				return s, Effect{}
			}
			return record(s, now)
		}

	case PhaseTooEarly:
		if in == InputStart || in == InputRetry {
			return arm(s, r)
		}

	case PhaseResult:
		switch in {
		case InputRetry:
			s.Phase = PhaseReady
			s.OnsetAt = time.Time{}
			return s, Effect{}
		case InputStart:
			return arm(s, r)
		}
	}

	return s, Effect{}
}

func arm(s Session, r *rand.Rand) (Session, Effect) {
	s.Phase = PhaseWaiting
	s.OnsetAt = time.Time{}
	return s, Effect{Arm: RandomDelay(r)}
}

func record(s Session, now time.Time) (Session, Effect) {
	ms := ReactionMillis(s.OnsetAt, now)

	s.Attempts = append(slices.Clip(s.Attempts), Attempt{
		Milliseconds: ms,
		RecordedAt:   now,
	})
	s.Phase = PhaseResult

	var eff Effect
	s.NewBest = false
	if s.Best == nil || ms < *s.Best {
		best := ms
		s.Best = &best
		s.NewBest = true
		eff.NewBest = true
	}

	return s, eff
}
