package main

import "testing"

func TestShakeThresholdFiniteForAllRates(t *testing.T) {
	for rate := 1; rate <= 255; rate++ {
		threshold := shakeThreshold(rate)
		if threshold < 0 || threshold > 65535 {
			t.Fatalf("rate %d: threshold %d out of range", rate, threshold)
		}
	}
	if got := shakeThreshold(255); got != 65534 {
		t.Fatalf("rate 255: expected threshold 65534, got %d", got)
	}
}

func TestEffectiveCatchRate(t *testing.T) {
	sp := Species{Name: "Scyther", BaseSpeed: 105, CatchRate: 45}

	cases := []struct {
		name  string
		enc   Encounter
		known bool
		want  int
	}{
		{name: "base", enc: Encounter{Anger: angerStart}, known: true, want: 45},
		{name: "angry doubles", enc: Encounter{Anger: 4}, known: true, want: 90},
		{name: "eating halves", enc: Encounter{Anger: angerStart, EatingTurns: 3}, known: true, want: 22},
		{name: "angry and eating cancel", enc: Encounter{Anger: 4, EatingTurns: 1}, known: true, want: 45},
		{name: "unknown species falls back", enc: Encounter{Anger: angerStart}, known: false, want: defaultCatchRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := effectiveCatchRate(&tc.enc, sp, tc.known); got != tc.want {
				t.Fatalf("expected rate %d, got %d", tc.want, got)
			}
		})
	}
}

func TestEffectiveCatchRateClampsToOne(t *testing.T) {
	sp := Species{Name: "Dragonair", CatchRate: 1}
	enc := Encounter{Anger: angerStart, EatingTurns: 2}
	if got := effectiveCatchRate(&enc, sp, true); got != 1 {
		t.Fatalf("expected clamp to 1, got %d", got)
	}
}

func TestThrowBallCaughtWithScriptedDraws(t *testing.T) {
	enc := &Encounter{Species: "Pidgey", Anger: angerStart}
	sp := Species{Name: "Pidgey", BaseSpeed: 56, CatchRate: 255}
	rng := &scriptRNG{ints: []int{100, 0, 0, 0, 0}}

	result := throwBall(enc, sp, true, rng)
	if !result.Caught || result.Shakes != 4 {
		t.Fatalf("expected clean catch, got %+v", result)
	}
}

func TestThrowBallBreaksAtShakeCount(t *testing.T) {
	enc := &Encounter{Species: "Pidgey", Anger: angerStart}
	sp := Species{Name: "Pidgey", BaseSpeed: 56, CatchRate: 255}
	rng := &scriptRNG{ints: []int{100, 0, 0, 65535}}

	result := throwBall(enc, sp, true, rng)
	if result.Caught || result.Immediate {
		t.Fatalf("expected shake break, got %+v", result)
	}
	if result.Shakes != 2 {
		t.Fatalf("expected break at shake 2, got %d", result.Shakes)
	}
}

func TestThrowBallImmediateBreak(t *testing.T) {
	enc := &Encounter{Species: "Dratini", Anger: angerStart}
	sp := Species{Name: "Dratini", BaseSpeed: 50, CatchRate: 45}
	rng := &scriptRNG{ints: []int{200}}

	result := throwBall(enc, sp, true, rng)
	if !result.Immediate {
		t.Fatalf("expected immediate break, got %+v", result)
	}
}

func TestCatchRateExtremesStatistically(t *testing.T) {
	rng := newMathRNG(42)

	catches := 0
	for i := 0; i < 1000; i++ {
		enc := &Encounter{Species: "Pidgey", Anger: angerStart}
		sp := Species{Name: "Pidgey", CatchRate: 255}
		if throwBall(enc, sp, true, rng).Caught {
			catches++
		}
	}
	if catches < 990 {
		t.Fatalf("catch rate 255 should nearly always catch, got %d/1000", catches)
	}

	catches = 0
	for i := 0; i < 1000; i++ {
		enc := &Encounter{Species: "Dragonair", Anger: angerStart}
		sp := Species{Name: "Dragonair", CatchRate: 1}
		if throwBall(enc, sp, true, rng).Caught {
			catches++
		}
	}
	if catches > 10 {
		t.Fatalf("catch rate 1 should nearly always break free, got %d/1000 catches", catches)
	}
}
