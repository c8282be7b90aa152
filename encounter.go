package main

import "safari-zone/server/zones"

// Encounter is an active wild creature a player is facing. It is owned
// exclusively by that player's state and destroyed when caught, fled, or
// run from.
type Encounter struct {
	Species     string
	Level       int
	Anger       int
	EatingTurns int

	// rarity keeps the zone-table weight of the row that spawned this
	// encounter so scoring can apply rarity bonuses later.
	rarity int
}

// generateEncounter performs one weighted draw over the zone's table and
// returns nil when the table is empty. Rows whose species does not resolve
// against the catalog are skipped after being drawn, which quietly reduces
// their effective weight; that behavior is inherited and kept.
func generateEncounter(zone zones.Zone, dex SpeciesCatalog, rng RNG) *Encounter {
	total := 0
	for _, spec := range zone.Encounters {
		if spec.Weight > 0 {
			total += spec.Weight
		}
	}
	if total == 0 {
		return nil
	}

	draw := rng.Float64() * float64(total)
	for _, spec := range zone.Encounters {
		if spec.Weight <= 0 {
			continue
		}
		draw -= float64(spec.Weight)
		if draw > 0 {
			continue
		}
		sp, ok := dex.Resolve(spec.Species)
		if !ok {
			return nil
		}
		level := spec.LevelMin
		if spec.LevelMax > spec.LevelMin {
			level = rng.IntBetween(spec.LevelMin, spec.LevelMax)
		}
		return &Encounter{
			Species: sp.Name,
			Level:   level,
			Anger:   angerStart,
			rarity:  spec.Weight,
		}
	}
	return nil
}

// takeTurn advances the encounter's counters ahead of a player movement
// action and rolls the flee check. The flee chance is
// floor(min(255, baseSpeed*anger) / 4) out of 256.
func (e *Encounter) takeTurn(baseSpeed int, rng RNG) (fled, stoppedEating bool) {
	if e.EatingTurns > 0 {
		e.EatingTurns--
		stoppedEating = e.EatingTurns == 0
	}
	threat := baseSpeed * e.Anger
	if threat > 255 {
		threat = 255
	}
	if rng.IntBetween(0, 255) < threat/4 {
		fled = true
	}
	return fled, stoppedEating
}
