package main

import "math"

// throwResult describes one safari ball throw.
type throwResult struct {
	Caught bool
	// Shakes counts the shake checks passed before the creature broke
	// free; 4 means the ball held.
	Shakes int
	// Immediate is set when the creature broke free before the ball
	// shook at all.
	Immediate bool
}

// effectiveCatchRate folds the encounter's anger and eating state into the
// species catch rate. Unknown species fall back to a rate of 45. The eating
// halving happens in real arithmetic with a single floor at the end, and the
// result is clamped to [1, 255] so the shake formula never divides by zero.
func effectiveCatchRate(e *Encounter, sp Species, known bool) int {
	rate := float64(defaultCatchRate)
	if known {
		rate = float64(sp.CatchRate)
	}
	if e.Anger > angerStart {
		rate *= 2
	}
	if e.EatingTurns > 0 {
		rate /= 2
	}
	clamped := int(math.Floor(rate))
	if clamped < 1 {
		clamped = 1
	}
	if clamped > 255 {
		clamped = 255
	}
	return clamped
}

// shakeThreshold implements the classic four-shake formula.
func shakeThreshold(rate int) int {
	if rate < 1 {
		rate = 1
	}
	return int(math.Floor(1048560/math.Sqrt(math.Sqrt(16711680/float64(rate))) - 1))
}

// throwBall resolves a single ball throw against an active encounter. The
// caller consumes the ball before resolution; a throw never fails to happen.
func throwBall(e *Encounter, sp Species, known bool, rng RNG) throwResult {
	rate := effectiveCatchRate(e, sp, known)

	if rng.IntBetween(0, 255) > rate {
		return throwResult{Immediate: true}
	}

	threshold := shakeThreshold(rate)
	for shake := 0; shake < 4; shake++ {
		if rng.IntBetween(0, 65535) >= threshold {
			return throwResult{Shakes: shake}
		}
	}
	return throwResult{Caught: true, Shakes: 4}
}
