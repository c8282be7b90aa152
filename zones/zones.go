// Package zones models the per-arena safari map: named zones, their weighted
// wild-encounter tables, and the designated start zone. Maps are mutated by
// configuration commands before a game starts; a running game holds a frozen
// clone and never writes back.
package zones

import (
	"fmt"
	"sort"
)

// ZoneID identifies a zone within one map.
type ZoneID string

// EncounterSpec is one weighted row in a zone's encounter table.
type EncounterSpec struct {
	Species  string `json:"species" jsonschema:"title=Species name,description=Dex name resolved when the encounter spawns"`
	LevelMin int    `json:"levelMin" jsonschema:"minimum=1"`
	LevelMax int    `json:"levelMax" jsonschema:"minimum=1"`
	Weight   int    `json:"weight" jsonschema:"minimum=1,description=Relative rarity weight within the zone"`
}

// Zone is a named area with its own encounter table. An empty table is
// legal; the area is simply quiet.
type Zone struct {
	Name       string          `json:"name"`
	Encounters []EncounterSpec `json:"encounters,omitempty"`
}

// Map is the full zone configuration for one arena.
type Map struct {
	StartZone ZoneID          `json:"startZone"`
	Zones     map[ZoneID]Zone `json:"zones"`
}

// NewMap returns an empty map ready for configuration.
func NewMap() *Map {
	return &Map{Zones: make(map[ZoneID]Zone)}
}

// AddZone registers a new zone. The first zone added becomes the start zone
// until SetStartZone says otherwise.
func (m *Map) AddZone(id ZoneID, name string) error {
	if id == "" {
		return fmt.Errorf("zone id must not be empty")
	}
	if _, ok := m.Zones[id]; ok {
		return fmt.Errorf("zone %q already exists", id)
	}
	if name == "" {
		name = string(id)
	}
	if m.Zones == nil {
		m.Zones = make(map[ZoneID]Zone)
	}
	m.Zones[id] = Zone{Name: name}
	if m.StartZone == "" {
		m.StartZone = id
	}
	return nil
}

// AddEncounter appends a weighted row to a zone's table.
func (m *Map) AddEncounter(id ZoneID, spec EncounterSpec) error {
	zone, ok := m.Zones[id]
	if !ok {
		return fmt.Errorf("zone %q does not exist", id)
	}
	if err := spec.validate(); err != nil {
		return fmt.Errorf("zone %q: %w", id, err)
	}
	zone.Encounters = append(zone.Encounters, spec)
	m.Zones[id] = zone
	return nil
}

// RemoveEncounter deletes every row for the given species from a zone.
func (m *Map) RemoveEncounter(id ZoneID, species string) error {
	zone, ok := m.Zones[id]
	if !ok {
		return fmt.Errorf("zone %q does not exist", id)
	}
	kept := zone.Encounters[:0]
	removed := false
	for _, spec := range zone.Encounters {
		if spec.Species == species {
			removed = true
			continue
		}
		kept = append(kept, spec)
	}
	if !removed {
		return fmt.Errorf("zone %q has no encounter for %q", id, species)
	}
	zone.Encounters = kept
	m.Zones[id] = zone
	return nil
}

// SetStartZone designates where admitted players spawn.
func (m *Map) SetStartZone(id ZoneID) error {
	if _, ok := m.Zones[id]; !ok {
		return fmt.Errorf("zone %q does not exist", id)
	}
	m.StartZone = id
	return nil
}

// List returns every zone id in a stable order.
func (m *Map) List() []ZoneID {
	ids := make([]ZoneID, 0, len(m.Zones))
	for id := range m.Zones {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate reports whether the map can back a game.
func (m *Map) Validate() error {
	if len(m.Zones) == 0 {
		return fmt.Errorf("the zone map is empty")
	}
	if m.StartZone == "" {
		return fmt.Errorf("no start zone is set")
	}
	if _, ok := m.Zones[m.StartZone]; !ok {
		return fmt.Errorf("start zone %q does not exist", m.StartZone)
	}
	for id, zone := range m.Zones {
		for _, spec := range zone.Encounters {
			if err := spec.validate(); err != nil {
				return fmt.Errorf("zone %q: %w", id, err)
			}
		}
	}
	return nil
}

// Clone deep-copies the map so a running game is isolated from later edits.
func (m *Map) Clone() *Map {
	clone := &Map{StartZone: m.StartZone, Zones: make(map[ZoneID]Zone, len(m.Zones))}
	for id, zone := range m.Zones {
		copied := Zone{Name: zone.Name}
		if len(zone.Encounters) > 0 {
			copied.Encounters = make([]EncounterSpec, len(zone.Encounters))
			copy(copied.Encounters, zone.Encounters)
		}
		clone.Zones[id] = copied
	}
	return clone
}

func (s EncounterSpec) validate() error {
	if s.Species == "" {
		return fmt.Errorf("encounter species must not be empty")
	}
	if s.Weight <= 0 {
		return fmt.Errorf("encounter %q: weight must be positive", s.Species)
	}
	if s.LevelMin < 1 || s.LevelMax < s.LevelMin {
		return fmt.Errorf("encounter %q: invalid level range [%d,%d]", s.Species, s.LevelMin, s.LevelMax)
	}
	return nil
}
