package main

import "strings"

// Species carries the static battle stats the engine reads.
type Species struct {
	Name      string
	BaseSpeed int
	CatchRate int
}

// SpeciesCatalog resolves a species name against an external dex.
type SpeciesCatalog interface {
	Resolve(name string) (Species, bool)
}

type builtinDex map[string]Species

func (d builtinDex) Resolve(name string) (Species, bool) {
	sp, ok := d[normalizeSpecies(name)]
	return sp, ok
}

func normalizeSpecies(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// defaultDex covers the classic safari roster. Deployments with a full dex
// service plug their own SpeciesCatalog in instead.
var defaultDex = buildDefaultDex()

func buildDefaultDex() builtinDex {
	species := []Species{
		{Name: "Pidgey", BaseSpeed: 56, CatchRate: 255},
		{Name: "Rattata", BaseSpeed: 72, CatchRate: 255},
		{Name: "Magikarp", BaseSpeed: 80, CatchRate: 255},
		{Name: "Krabby", BaseSpeed: 50, CatchRate: 225},
		{Name: "Paras", BaseSpeed: 25, CatchRate: 190},
		{Name: "Venonat", BaseSpeed: 45, CatchRate: 190},
		{Name: "Doduo", BaseSpeed: 75, CatchRate: 190},
		{Name: "Psyduck", BaseSpeed: 55, CatchRate: 190},
		{Name: "Slowpoke", BaseSpeed: 15, CatchRate: 190},
		{Name: "Nidorina", BaseSpeed: 56, CatchRate: 120},
		{Name: "Nidorino", BaseSpeed: 65, CatchRate: 120},
		{Name: "Rhyhorn", BaseSpeed: 25, CatchRate: 120},
		{Name: "Exeggcute", BaseSpeed: 40, CatchRate: 90},
		{Name: "Parasect", BaseSpeed: 30, CatchRate: 75},
		{Name: "Venomoth", BaseSpeed: 90, CatchRate: 75},
		{Name: "Scyther", BaseSpeed: 105, CatchRate: 45},
		{Name: "Pinsir", BaseSpeed: 85, CatchRate: 45},
		{Name: "Tauros", BaseSpeed: 110, CatchRate: 45},
		{Name: "Kangaskhan", BaseSpeed: 90, CatchRate: 45},
		{Name: "Dratini", BaseSpeed: 50, CatchRate: 45},
		{Name: "Dragonair", BaseSpeed: 70, CatchRate: 27},
		{Name: "Chansey", BaseSpeed: 50, CatchRate: 30},
	}

	dex := make(builtinDex, len(species))
	for _, sp := range species {
		dex[normalizeSpecies(sp.Name)] = sp
	}
	return dex
}
