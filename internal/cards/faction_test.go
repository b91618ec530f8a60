package cards

import "testing"

func TestFactionLookups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    string
		id      int
		version int
		name    string
	}{
		{"DE", 0, 1, "Demacia"},
		{"FR", 1, 1, "Freljord"},
		{"IO", 2, 1, "Ionia"},
		{"NX", 3, 1, "Noxus"},
		{"PZ", 4, 1, "Piltover & Zaun"},
		{"SI", 5, 1, "Shadow Isles"},
		{"BW", 6, 2, "Bilgewater"},
		{"SH", 7, 3, "Shurima"},
		{"MT", 9, 2, "Mount Targon"},
		{"BC", 10, 4, "Bandle City"},
		{"RU", 12, 5, "Runeterra"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			byCode, ok := FactionByCode(tt.code)
			if !ok {
				t.Fatalf("FactionByCode(%q) not found", tt.code)
			}
			byID, ok := FactionByID(tt.id)
			if !ok {
				t.Fatalf("FactionByID(%d) not found", tt.id)
			}
			if byCode != byID {
				t.Errorf("lookups disagree: %+v vs %+v", byCode, byID)
			}
			if byCode.ID != tt.id || byCode.Version != tt.version || byCode.Name != tt.name {
				t.Errorf("FactionByCode(%q) = %+v", tt.code, byCode)
			}
			if !byCode.Known() {
				t.Errorf("%q should be known", tt.code)
			}
		})
	}
}

func TestFactionLookupMissesReturnAbsence(t *testing.T) {
	t.Parallel()

	if _, ok := FactionByCode("AA"); ok {
		t.Error("FactionByCode(AA) should miss")
	}
	if _, ok := FactionByCode("de"); ok {
		t.Error("FactionByCode(de) should miss, codes are upper case")
	}
	for _, id := range []int{8, 11, 13, -1} {
		if _, ok := FactionByID(id); ok {
			t.Errorf("FactionByID(%d) should miss", id)
		}
	}
	if (Faction{}).Known() {
		t.Error("zero faction should not be known")
	}
	if (Faction{ID: 0, Code: "FR"}).Known() {
		t.Error("mismatched id and code should not be known")
	}
}

func TestFactionSortKey(t *testing.T) {
	t.Parallel()

	de, _ := FactionByCode("DE")
	if de.SortKey != 3*26+4 {
		t.Errorf("DE sort key = %d, want %d", de.SortKey, 3*26+4)
	}
	bc, _ := FactionByCode("BC")
	if bc.SortKey >= de.SortKey {
		t.Errorf("BC (%d) should sort before DE (%d)", bc.SortKey, de.SortKey)
	}
}

func TestMaxVersion(t *testing.T) {
	t.Parallel()

	if got := MaxVersion(); got != 5 {
		t.Errorf("MaxVersion() = %d, want 5", got)
	}
}

func TestFactionsOrderedByID(t *testing.T) {
	t.Parallel()

	all := Factions()
	if len(all) != 11 {
		t.Fatalf("len(Factions()) = %d, want 11", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("Factions() not ordered at %d: %d >= %d", i, all[i-1].ID, all[i].ID)
		}
	}
	all[0].Code = "XX"
	if f, _ := FactionByID(0); f.Code != "DE" {
		t.Error("mutating the returned slice changed the registry")
	}
}
