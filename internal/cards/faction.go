package cards

import "sort"

// Faction is one of the fixed card groupings of the game.
type Faction struct {
	ID      int    `json:"id"`
	Version int    `json:"version"` // deck format version that introduced the faction
	Code    string `json:"code"`    // two uppercase letters, e.g. "DE"
	Name    string `json:"name"`
	SortKey int    `json:"-"` // alphanumeric rank of Code
}

func newFaction(id, version int, code, name string) Faction {
	return Faction{
		ID:      id,
		Version: version,
		Code:    code,
		Name:    name,
		SortKey: int(code[0]-'A')*26 + int(code[1]-'A'),
	}
}

// Known reports whether f came from the registry.
func (f Faction) Known() bool {
	known, ok := factionsByID[f.ID]
	return ok && known.Code == f.Code
}

func (f Faction) String() string {
	return f.Code
}

// Add new factions here when the game introduces them.
var registry = []Faction{
	newFaction(0, 1, "DE", "Demacia"),
	newFaction(1, 1, "FR", "Freljord"),
	newFaction(2, 1, "IO", "Ionia"),
	newFaction(3, 1, "NX", "Noxus"),
	newFaction(4, 1, "PZ", "Piltover & Zaun"),
	newFaction(5, 1, "SI", "Shadow Isles"),
	newFaction(6, 2, "BW", "Bilgewater"),
	newFaction(9, 2, "MT", "Mount Targon"),
	newFaction(7, 3, "SH", "Shurima"),
	newFaction(10, 4, "BC", "Bandle City"),
	newFaction(12, 5, "RU", "Runeterra"),
}

var (
	factionsByID   = make(map[int]Faction, len(registry))
	factionsByCode = make(map[string]Faction, len(registry))
	maxVersion     int
)

func init() {
	for _, f := range registry {
		factionsByID[f.ID] = f
		factionsByCode[f.Code] = f
		if f.Version > maxVersion {
			maxVersion = f.Version
		}
	}
}

// FactionByCode looks up a faction by its two letter code.
func FactionByCode(code string) (Faction, bool) {
	f, ok := factionsByCode[code]
	return f, ok
}

// FactionByID looks up a faction by its numeric id.
func FactionByID(id int) (Faction, bool) {
	f, ok := factionsByID[id]
	return f, ok
}

// MaxVersion returns the newest faction version known to the registry.
func MaxVersion() int {
	return maxVersion
}

// Factions returns every known faction ordered by id.
func Factions() []Faction {
	out := make([]Faction, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
