package cards

// FilterOptions selects cards of a deck. Empty fields match everything.
type FilterOptions struct {
	Factions []string `json:"factions"` // faction codes, e.g. "DE"
	Sets     []int    `json:"sets"`
	Counts   []int    `json:"counts"` // exact counts
	MinCount int      `json:"min_count"`
}

func containsString(hay []string, needle string) bool {
	for _, h := range hay {
		if h == needle {
			return true
		}
	}
	return false
}

func containsInt(hay []int, needle int) bool {
	for _, h := range hay {
		if h == needle {
			return true
		}
	}
	return false
}

// Filter returns the cards matching every non-empty option, in input order.
func Filter(cards []Card, opt FilterOptions) []Card {
	out := []Card{}
	for _, c := range cards {
		if len(opt.Factions) > 0 && !containsString(opt.Factions, c.Faction.Code) {
			continue
		}
		if len(opt.Sets) > 0 && !containsInt(opt.Sets, c.Set) {
			continue
		}
		if len(opt.Counts) > 0 && !containsInt(opt.Counts, c.Count) {
			continue
		}
		if opt.MinCount > 0 && c.Count < opt.MinCount {
			continue
		}
		out = append(out, c)
	}
	return out
}
