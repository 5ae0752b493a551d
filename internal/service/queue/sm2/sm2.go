// Package sm2 implements the SM-2-family spaced repetition policy.
// Pure computation: no I/O, no clock, no logger — all decisions are
// deterministic functions of the inputs.
package sm2

import (
	"fmt"
	"math"
	"time"
)

// Params holds all policy constants. Exact values are configuration, not
// invariants; DefaultParams gives the standard parameterization.
type Params struct {
	// InitialIntervalDays is the first interval granted on any first review
	// except EASY, which gets EasyInitialIntervalDays.
	InitialIntervalDays     int
	EasyInitialIntervalDays int

	DefaultEase float64
	MinEase     float64
	MaxEase     float64

	AgainPenalty float64 // ease decrease on AGAIN
	HardPenalty  float64 // ease decrease on HARD
	EasyBonus    float64 // ease increase on EASY

	MaxIntervalDays int

	// RetentionDecay shapes the forgetting curve in Retention.
	RetentionDecay float64
}

// DefaultParams returns the standard SM-2 parameterization.
func DefaultParams() Params {
	return Params{
		InitialIntervalDays:     1,
		EasyInitialIntervalDays: 4,
		DefaultEase:             2.5,
		MinEase:                 1.0,
		MaxEase:                 5.0,
		AgainPenalty:            0.20,
		HardPenalty:             0.15,
		EasyBonus:               0.15,
		MaxIntervalDays:         365,
		RetentionDecay:          2.5,
	}
}

// Validate checks that the parameter set is internally consistent.
func (p Params) Validate() error {
	if p.InitialIntervalDays < 1 || p.EasyInitialIntervalDays < 1 {
		return fmt.Errorf("initial intervals must be >= 1")
	}
	if p.MinEase <= 0 || p.MaxEase <= p.MinEase {
		return fmt.Errorf("ease domain [%v, %v] invalid", p.MinEase, p.MaxEase)
	}
	if p.DefaultEase < p.MinEase || p.DefaultEase > p.MaxEase {
		return fmt.Errorf("default ease %v outside [%v, %v]", p.DefaultEase, p.MinEase, p.MaxEase)
	}
	if p.AgainPenalty < 0 || p.HardPenalty < 0 || p.EasyBonus < 0 {
		return fmt.Errorf("ease deltas must be non-negative")
	}
	if p.MaxIntervalDays < 1 {
		return fmt.Errorf("max interval must be >= 1")
	}
	if p.RetentionDecay <= 0 {
		return fmt.Errorf("retention decay must be positive")
	}
	return nil
}

// Feedback is the recall grade driving a transition.
// Difficulty ordering: Again < Hard < Good < Easy.
type Feedback int

const (
	Again Feedback = 1
	Hard  Feedback = 2
	Good  Feedback = 3
	Easy  Feedback = 4
)

func (f Feedback) valid() bool { return f >= Again && f <= Easy }

// State is the scheduling state a transition starts from.
type State struct {
	IntervalDays        int
	EaseFactor          float64
	ConsecutiveFailures int
}

// Result is the outcome of a policy calculation.
type Result struct {
	IntervalDays        int
	EaseFactor          float64
	ConsecutiveFailures int
	NextReviewAt        time.Time
}

// Initial computes the first-ever transition for a schedule. It is distinct
// from Next so the recurrence math never runs against an uninitialized ease
// factor: the interval is a fixed grant, not a product of the previous one.
func Initial(p Params, feedback Feedback, now time.Time) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if !feedback.valid() {
		return Result{}, fmt.Errorf("unknown feedback %d", feedback)
	}

	ease := p.DefaultEase
	interval := p.InitialIntervalDays
	failures := 0

	switch feedback {
	case Again:
		ease = clampEase(ease-p.AgainPenalty, p)
		failures = 1
	case Hard:
		ease = clampEase(ease-p.HardPenalty, p)
	case Easy:
		ease = clampEase(ease+p.EasyBonus, p)
		interval = p.EasyInitialIntervalDays
	}

	interval = clampInterval(interval, p)
	return Result{
		IntervalDays:        interval,
		EaseFactor:          ease,
		ConsecutiveFailures: failures,
		NextReviewAt:        now.AddDate(0, 0, interval),
	}, nil
}

// Next computes a recurring transition from an initialized state.
//
// AGAIN resets the interval to one day and applies the ease penalty.
// HARD/GOOD/EASY grow the interval multiplicatively by the adjusted ease.
// Ease stays in [MinEase, MaxEase]; the interval in [1, MaxIntervalDays].
func Next(p Params, s State, feedback Feedback, now time.Time) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if !feedback.valid() {
		return Result{}, fmt.Errorf("unknown feedback %d", feedback)
	}
	// Out-of-domain state is a programming error on the caller's side.
	if s.IntervalDays <= 0 {
		return Result{}, fmt.Errorf("interval %d must be positive", s.IntervalDays)
	}
	if s.EaseFactor < p.MinEase || s.EaseFactor > p.MaxEase {
		return Result{}, fmt.Errorf("ease %v outside [%v, %v]", s.EaseFactor, p.MinEase, p.MaxEase)
	}

	var (
		ease     float64
		interval int
		failures int
	)

	switch feedback {
	case Again:
		ease = clampEase(s.EaseFactor-p.AgainPenalty, p)
		interval = 1
		failures = s.ConsecutiveFailures + 1

	case Hard:
		ease = clampEase(s.EaseFactor-p.HardPenalty, p)
		interval = int(math.Round(float64(s.IntervalDays) * ease))

	case Good:
		ease = s.EaseFactor
		interval = int(math.Round(float64(s.IntervalDays) * ease))

	case Easy:
		ease = clampEase(s.EaseFactor+p.EasyBonus, p)
		interval = int(math.Round(float64(s.IntervalDays) * ease))
	}

	interval = clampInterval(interval, p)
	return Result{
		IntervalDays:        interval,
		EaseFactor:          ease,
		ConsecutiveFailures: failures,
		NextReviewAt:        now.AddDate(0, 0, interval),
	}, nil
}

// Retention estimates recall probability after elapsed time, given the
// schedule's interval and ease. Exponential forgetting curve:
//
//	R(t) = exp(-t * decay / (interval * ease))
//
// Monotonically decreasing in t, increasing in ease.
func Retention(p Params, elapsed time.Duration, intervalDays int, ease float64) float64 {
	if elapsed <= 0 {
		return 1.0
	}
	if intervalDays < 1 || ease <= 0 {
		return 0
	}
	elapsedDays := elapsed.Hours() / 24
	return math.Exp(-elapsedDays * p.RetentionDecay / (float64(intervalDays) * ease))
}

func clampEase(ease float64, p Params) float64 {
	if ease < p.MinEase {
		return p.MinEase
	}
	if ease > p.MaxEase {
		return p.MaxEase
	}
	return ease
}

func clampInterval(days int, p Params) int {
	if days < 1 {
		return 1
	}
	if days > p.MaxIntervalDays {
		return p.MaxIntervalDays
	}
	return days
}
