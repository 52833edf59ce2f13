package taxonomy

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		label   string
		wantKey string
		wantOK  bool
	}{
		{"apple", "apple", true},
		{"Apple", "apple", true},
		{"  BANANA  ", "banana", true},
		{"hot dog", "hotdog", true},
		{"french fries", "fries", true},
		{"doughnut", "donut", true},
		{"cup", "coffee", true},
		{"bowl", "soup", true},
		{"plate", "", false},
		{"dragonfruit", "dragonfruit", true},
		{"Sushi Roll", "sushi roll", true},
	}

	for _, c := range cases {
		key, ok := Resolve(c.label)
		if key != c.wantKey || ok != c.wantOK {
			t.Fatalf("Resolve(%q) = (%q, %v), want (%q, %v)", c.label, key, ok, c.wantKey, c.wantOK)
		}
	}
}

func TestLookup(t *testing.T) {
	info, ok := Lookup("apple")
	if !ok {
		t.Fatal("expected apple in the taxonomy")
	}
	if info.DefaultWeightG != 182 || info.CaloriesPer100g != 52 {
		t.Fatalf("unexpected apple reference: %+v", info)
	}

	if _, ok := Lookup("dragonfruit"); ok {
		t.Fatal("did not expect dragonfruit in the taxonomy")
	}
}

func TestKeysIsACopy(t *testing.T) {
	keys := Keys()
	if len(keys) != 20 {
		t.Fatalf("expected 20 canonical keys, got %d", len(keys))
	}

	keys[0] = "tampered"
	if _, ok := Lookup(keys[1]); !ok {
		t.Fatal("mutating the returned slice must not affect the taxonomy")
	}
}
