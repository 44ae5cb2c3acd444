package domain

import "math"

type Band struct {
	MaxMs       int    `json:"maxMs"`
	Rating      string `json:"rating"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// Unbounded is the MaxMs of the final band.
const Unbounded = math.MaxInt

// Bands is ordered by strictly increasing MaxMs.
var Bands = []Band{
	{MaxMs: 150, Rating: "🏆 Superhuman!", Emoji: "⚡", Description: "Faster than a hummingbird's wingbeat. Are you a robot?"},
	{MaxMs: 200, Rating: "🥇 Lightning Fast", Emoji: "🐆", Description: "Cheetah-level reflexes. You could be a fighter pilot."},
	{MaxMs: 250, Rating: "🎯 Excellent", Emoji: "🦅", Description: "Eagle-eye reflexes. Sharper than most humans."},
	{MaxMs: 300, Rating: "👍 Above Average", Emoji: "🐕", Description: "Better than the average human (273ms). Nice!"},
	{MaxMs: 350, Rating: "😊 Average", Emoji: "🧑", Description: "Right around human average. Perfectly normal reflexes."},
	{MaxMs: 450, Rating: "🐢 Getting Sleepy?", Emoji: "🐢", Description: "A bit slow. Maybe need some coffee?"},
	{MaxMs: 600, Rating: "🦥 Sloth Mode", Emoji: "🦥", Description: "Taking it easy today? Try again after a nap."},
	{MaxMs: Unbounded, Rating: "💤 Did You Fall Asleep?", Emoji: "😴", Description: "We measured that in seconds, not milliseconds..."},
}

func Classify(ms int) Band {
	for _, b := range Bands {
		if ms <= b.MaxMs {
			return b
		}
	}
	return Bands[len(Bands)-1]
}
