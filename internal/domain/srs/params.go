package srs

// Params defines all configurable parameters for the review scheduling
// algorithm.
type Params struct {
	// MinEasiness is the floor for the easiness factor. Easiness never
	// drops below this value no matter how many wrong answers accumulate.
	MinEasiness float64

	// WrongEasinessPenalty is subtracted from easiness on a wrong answer.
	WrongEasinessPenalty float64

	// CorrectEasinessReward is added to easiness on a correct answer.
	CorrectEasinessReward float64

	// FirstInterval is the interval in days after the first successful
	// repetition, and the reset interval after any wrong answer.
	FirstInterval int

	// SecondInterval is the interval in days after the second successful
	// repetition.
	SecondInterval int
}

// NewDefaultParams creates a new Params instance with the standard SM-2
// values.
func NewDefaultParams() *Params {
	return &Params{
		MinEasiness:           1.3,
		WrongEasinessPenalty:  0.2,
		CorrectEasinessReward: 0.1,
		FirstInterval:         1,
		SecondInterval:        6,
	}
}
