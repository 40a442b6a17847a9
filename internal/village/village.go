package village

import "log/slog"

// Village is the settlement aggregate: placed buildings and stockpiles.
// Buildings keep insertion order; slot filling and site selection both
// depend on stable iteration.
type Village struct {
	Name      string
	Buildings []*Building
	Stores    [NumResources]float64
	WallLevel int

	index  map[BuildingID]*Building
	nextID BuildingID
}

// New creates an empty village.
func New(name string) *Village {
	return &Village{
		Name:   name,
		index:  make(map[BuildingID]*Building),
		nextID: 1,
	}
}

// Place adds an unbuilt building of the given type at a position and
// charges its material cost from the stores. Returns nil if the
// catalog has no such type or materials are short.
func (v *Village) Place(t BuildingType, level int, pos Coord) *Building {
	entry, ok := Catalog(t)
	if !ok {
		slog.Warn("place: unknown building type", "type", t)
		return nil
	}
	if level < 1 {
		level = 1
	}
	for res, amount := range entry.BaseCost {
		if v.Stores[res] < amount*float64(level) {
			slog.Warn("place: insufficient materials",
				"type", t.Name(), "resource", res.Name(), "have", v.Stores[res])
			return nil
		}
	}
	for res, amount := range entry.BaseCost {
		v.Stores[res] -= amount * float64(level)
	}

	b := &Building{
		ID:       v.nextID,
		Type:     t,
		Level:    level,
		Position: pos,
	}
	v.nextID++
	v.Buildings = append(v.Buildings, b)
	v.index[b.ID] = b
	return b
}

// Restore re-inserts a building loaded from persistence, keeping the ID
// counter ahead of every restored ID.
func (v *Village) Restore(b *Building) {
	v.Buildings = append(v.Buildings, b)
	v.index[b.ID] = b
	if b.ID >= v.nextID {
		v.nextID = b.ID + 1
	}
}

// Get returns the building with the given ID, or (nil, false).
func (v *Village) Get(id BuildingID) (*Building, bool) {
	b, ok := v.index[id]
	return b, ok
}

// BuiltBuildings returns completed buildings in placement order.
func (v *Village) BuiltBuildings() []*Building {
	out := make([]*Building, 0, len(v.Buildings))
	for _, b := range v.Buildings {
		if b.Built {
			out = append(out, b)
		}
	}
	return out
}

// HousingCapacity is the population the village can shelter.
func (v *Village) HousingCapacity() int {
	cap := 4 // the founding camp shelters a handful regardless
	for _, b := range v.Buildings {
		if b.Built && b.Type == BuildingHouse {
			cap += 4 * b.Level
		}
	}
	return cap
}

// AddStore credits a resource stockpile.
func (v *Village) AddStore(r Resource, amount float64) {
	v.Stores[r] += amount
}
