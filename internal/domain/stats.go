package domain

import "math"

const (
	barFastMs = 100
	barSlowMs = 600
)

type Outcome struct {
	ReactionMs  int     `json:"reactionMs"`
	Band        Band    `json:"band"`
	BarPosition float64 `json:"barPosition"`
	Count       int     `json:"count"`
	AverageMs   int     `json:"averageMs"`
	BestMs      int     `json:"bestMs"`
	NewBest     bool    `json:"newBest"`
}

func Average(attempts []Attempt) int {
	if len(attempts) == 0 {
		return 0
	}

	sum := 0
	for _, a := range attempts {
		sum += a.Milliseconds
	}
	return int(math.Round(float64(sum) / float64(len(attempts))))
}

// BarPosition maps ms onto [0,100]: 100ms or faster is 100, 600ms or slower is 0.
func BarPosition(ms int) float64 {
	pos := float64(barSlowMs-ms) * 100 / float64(barSlowMs-barFastMs)

	if pos < 0 {
		return 0
	}
	if pos > 100 {
		return 100
	}
	return pos
}

// Summarize returns the display values for the latest attempt. ok is false
// when s is not in PhaseResult.
func Summarize(s Session) (Outcome, bool) {
	if s.Phase != PhaseResult || len(s.Attempts) == 0 {
		return Outcome{}, false
	}

	last := s.Attempts[len(s.Attempts)-1].Milliseconds
	out := Outcome{
		ReactionMs:  last,
		Band:        Classify(last),
		BarPosition: BarPosition(last),
		Count:       len(s.Attempts),
		AverageMs:   Average(s.Attempts),
		NewBest:     s.NewBest,
	}
	if s.Best != nil {
		out.BestMs = *s.Best
	}

	return out, true
}
