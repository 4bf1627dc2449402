package intent

import "testing"

func TestParsePrimary(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  Primary
		ok    bool
	}{
		{"english value", "Economics", Economics, true},
		{"korean label", "경제", Economics, true},
		{"strategy english", "Stock market strategy", StockStrategy, true},
		{"strategy korean", "주식시장 전략", StockStrategy, true},
		{"unknown", "Weather", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrimary(tt.label)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParsePrimary(%q) = (%v, %v), want (%v, %v)", tt.label, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestHasSecondary(t *testing.T) {
	for _, p := range Primaries() {
		want := p == StockStrategy || p == Industry
		if p.HasSecondary() != want {
			t.Errorf("%v.HasSecondary() = %v, want %v", p, p.HasSecondary(), want)
		}
	}
}

func TestSecondariesFor(t *testing.T) {
	if got := SecondariesFor(Economics); got != nil {
		t.Errorf("SecondariesFor(Economics) = %v, want nil", got)
	}
	if got := SecondariesFor(StockStrategy); len(got) != 4 {
		t.Errorf("SecondariesFor(StockStrategy) has %d entries, want 4", len(got))
	}
	if got := SecondariesFor(Industry); len(got) != 11 {
		t.Errorf("SecondariesFor(Industry) has %d entries, want 11", len(got))
	}
}

func TestParseSecondary_RestrictedToPrimary(t *testing.T) {
	if _, ok := ParseSecondary(StockStrategy, "Energy"); ok {
		t.Error("ParseSecondary should reject an industry secondary under StockStrategy")
	}
	got, ok := ParseSecondary(Industry, "에너지")
	if !ok || got != Energy {
		t.Errorf("ParseSecondary(Industry, 에너지) = (%v, %v), want (Energy, true)", got, ok)
	}
}

// Every enum value must carry a distinct localized label; the historical
// implementation kept the labels in a parallel table and the two copies
// drifted. This test pins the one-to-one correspondence.
func TestLabels_Distinct(t *testing.T) {
	seen := make(map[string]Primary)
	for _, p := range Primaries() {
		label := p.Label()
		if label == "" {
			t.Errorf("%v has empty label", p)
		}
		if prev, dup := seen[label]; dup {
			t.Errorf("label %q shared by %v and %v", label, prev, p)
		}
		seen[label] = p
	}

	for _, p := range []Primary{StockStrategy, Industry} {
		seenSec := make(map[string]Secondary)
		for _, s := range SecondariesFor(p) {
			label := s.Label()
			if label == "" {
				t.Errorf("%v has empty label", s)
			}
			if prev, dup := seenSec[label]; dup {
				t.Errorf("label %q shared by %v and %v under %v", label, prev, s, p)
			}
			seenSec[label] = s
		}
	}
}

func TestSearchSpace(t *testing.T) {
	sec := Energy
	tests := []struct {
		name   string
		it     Intent
		domain Domain
		want   []string
	}{
		{"economics domestic", Intent{Primary: Economics}, DomainDomesticAnalyst, []string{"R700", "R600"}},
		{"economics foreign", Intent{Primary: Economics}, DomainForeignAnalyst, []string{"Economy Analysis", "Forex Analysis"}},
		{"policy foreign is unfiltered", Intent{Primary: Policy}, DomainForeignAnalyst, []string{}},
		{"industry energy foreign", Intent{Primary: Industry, Secondary: &sec}, DomainForeignAnalyst, []string{"Energy"}},
		{"industry energy domestic", Intent{Primary: Industry, Secondary: &sec}, DomainDomesticAnalyst, []string{"R200"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchSpace(tt.it, tt.domain)
			if len(got) != len(tt.want) {
				t.Fatalf("SearchSpace() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SearchSpace()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDefault(t *testing.T) {
	it := Default()
	if it.Primary != Economics {
		t.Errorf("Default().Primary = %v, want Economics", it.Primary)
	}
	if it.Secondary != nil {
		t.Errorf("Default().Secondary = %v, want nil", it.Secondary)
	}
}
