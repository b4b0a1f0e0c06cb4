package fixedcost

import (
	"fmt"
	"math/rand"
	"testing"

	"finanzplan/internal/core"
)

func month(s string) core.Month { return core.MustParseMonth(s) }

func rentVersions() []Version {
	return []Version{
		{ID: "a1", BaseID: "A", Name: "Miete", StartMonth: "1900-01", AmountCents: 950},
		{ID: "a2", BaseID: "A", Name: "Miete", StartMonth: "2024-06", AmountCents: 1000},
	}
}

func TestResolveEffectiveScenario(t *testing.T) {
	v := rentVersions()

	got := ResolveEffective(v, month("2024-05"))
	if len(got) != 1 || got[0].AmountCents != 950 {
		t.Fatalf("2024-05: got %+v, want the 950 version", got)
	}
	got = ResolveEffective(v, month("2024-06"))
	if len(got) != 1 || got[0].AmountCents != 1000 {
		t.Fatalf("2024-06: got %+v, want the 1000 version", got)
	}
}

func TestResolveEffectiveDeletion(t *testing.T) {
	v := append(rentVersions(), Version{ID: "a3", BaseID: "A", Name: "Miete", StartMonth: "2024-07", AmountCents: 1000, Deleted: true})

	if got := ResolveEffective(v, month("2024-07")); len(got) != 0 {
		t.Fatalf("2024-07: expected A to be gone, got %+v", got)
	}
	if got := ResolveEffective(v, month("2030-01")); len(got) != 0 {
		t.Fatalf("2030-01: expected A to stay gone, got %+v", got)
	}
	got := ResolveEffective(v, month("2024-06"))
	if len(got) != 1 || got[0].ID != "a2" {
		t.Fatalf("2024-06: got %+v, want a2", got)
	}
}

func TestResolveEffectiveRecreateAfterDelete(t *testing.T) {
	v := append(rentVersions(),
		Version{ID: "a3", BaseID: "A", StartMonth: "2024-07", Deleted: true},
		Version{ID: "a4", BaseID: "A", Name: "Miete neu", StartMonth: "2024-10", AmountCents: 1100},
	)
	if got := ResolveEffective(v, month("2024-09")); len(got) != 0 {
		t.Fatalf("2024-09: expected nothing, got %+v", got)
	}
	got := ResolveEffective(v, month("2024-10"))
	if len(got) != 1 || got[0].ID != "a4" {
		t.Fatalf("2024-10: got %+v, want a4", got)
	}
}

func TestResolveEffectiveTieLastAppendedWins(t *testing.T) {
	v := []Version{
		{ID: "1", BaseID: "A", StartMonth: "2024-03", AmountCents: 100},
		{ID: "2", BaseID: "A", StartMonth: "2024-03", AmountCents: 200},
		{ID: "3", BaseID: "A", StartMonth: "2024-01", AmountCents: 300},
	}
	got := ResolveEffective(v, month("2024-03"))
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("got %+v, want version 2", got)
	}

	// a tie that ends in a deletion removes the cost
	v = append(v, Version{ID: "4", BaseID: "A", StartMonth: "2024-03", Deleted: true})
	if got := ResolveEffective(v, month("2024-03")); len(got) != 0 {
		t.Fatalf("got %+v, want nothing", got)
	}
}

func TestResolveEffectiveNotYetStarted(t *testing.T) {
	v := []Version{
		{ID: "1", BaseID: "A", Name: "A", StartMonth: "2024-01", AmountCents: 100},
		{ID: "2", BaseID: "B", Name: "B", StartMonth: "2024-08", AmountCents: 200},
	}
	got := ResolveEffective(v, month("2024-07"))
	if len(got) != 1 || got[0].BaseID != "A" {
		t.Fatalf("got %+v, want only A", got)
	}
}

func TestResolveEffectiveSkipsMalformed(t *testing.T) {
	v := []Version{
		{ID: "1", BaseID: "A", Name: "A", StartMonth: "2024-01", AmountCents: 100},
		{ID: "2", BaseID: "A", Name: "A", StartMonth: "not-a-month", AmountCents: 999},
		{ID: "3", BaseID: "B", Name: "B", StartMonth: "", AmountCents: 200},
		{ID: "4", BaseID: "", Name: "C", StartMonth: "2024-01", AmountCents: 300},
		{ID: "5", BaseID: "D", Name: "D", StartMonth: "2024-1", AmountCents: 400},
		{ID: "6", BaseID: "A", Name: "A", StartMonth: "768614336404564651-01", AmountCents: 777},
	}
	got := ResolveEffective(v, month("2024-05"))
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("got %+v, want only version 1", got)
	}
}

func TestResolveEffectiveEmpty(t *testing.T) {
	if got := ResolveEffective(nil, month("2024-01")); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestResolveEffectiveSortedByName(t *testing.T) {
	v := []Version{
		{ID: "1", BaseID: "s", Name: "Strom", StartMonth: "2024-01"},
		{ID: "2", BaseID: "i", Name: "internet", StartMonth: "2024-01"},
		{ID: "3", BaseID: "m", Name: "Miete", StartMonth: "2024-01"},
	}
	got := ResolveEffective(v, month("2024-01"))
	if len(got) != 3 || got[0].Name != "internet" || got[1].Name != "Miete" || got[2].Name != "Strom" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestEffectiveVersionAndTotal(t *testing.T) {
	v := rentVersions()
	got, ok := EffectiveVersion(v, "A", month("2024-06"))
	if !ok || got.ID != "a2" {
		t.Fatalf("EffectiveVersion = %+v, %v", got, ok)
	}
	if _, ok := EffectiveVersion(v, "missing", month("2024-06")); ok {
		t.Fatalf("expected no version for unknown base id")
	}
	v = append(v, Version{ID: "b1", BaseID: "B", Name: "Strom", StartMonth: "2024-01", AmountCents: 60})
	if total := Total(ResolveEffective(v, month("2024-06"))); total.Cents != 1060 {
		t.Fatalf("Total = %d, want 1060", total.Cents)
	}
	if h := History(v, "A"); len(h) != 2 || h[0].ID != "a1" || h[1].ID != "a2" {
		t.Fatalf("History = %+v", h)
	}
}

// randomVersions builds a version list over a handful of base ids and months.
func randomVersions(r *rand.Rand, n int) []Version {
	months := []string{"1900-01", "2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "bogus"}
	out := make([]Version, n)
	for i := range out {
		out[i] = Version{
			ID:          fmt.Sprintf("v%d", i),
			BaseID:      fmt.Sprintf("b%d", r.Intn(4)),
			AmountCents: int64(r.Intn(1000) + 1),
			StartMonth:  months[r.Intn(len(months))],
			Deleted:     r.Intn(5) == 0,
		}
	}
	return out
}

func TestResolveEffectiveAtMostOnePerBaseID(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for round := 0; round < 200; round++ {
		versions := randomVersions(r, r.Intn(20))
		for _, m := range []string{"1900-01", "2024-02", "2024-05", "2030-12"} {
			seen := map[string]bool{}
			for _, v := range ResolveEffective(versions, month(m)) {
				if seen[v.BaseID] {
					t.Fatalf("round %d month %s: base id %s resolved twice", round, m, v.BaseID)
				}
				seen[v.BaseID] = true
				if v.Deleted {
					t.Fatalf("round %d month %s: deleted version returned", round, m)
				}
			}
		}
	}
}

func TestResolveEffectiveMonotonic(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	months := []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"}
	for round := 0; round < 200; round++ {
		versions := randomVersions(r, r.Intn(20))
		for i, m1 := range months {
			for _, m2 := range months[i:] {
				for _, v1 := range ResolveEffective(versions, month(m1)) {
					if hasVersionBetween(versions, v1.BaseID, m1, m2) {
						continue
					}
					v2, ok := EffectiveVersion(versions, v1.BaseID, month(m2))
					if !ok || v2.ID != v1.ID {
						t.Fatalf("round %d: %s effective at %s as %s but at %s as %+v (ok=%v)",
							round, v1.BaseID, m1, v1.ID, m2, v2, ok)
					}
				}
			}
		}
	}
}

func hasVersionBetween(versions []Version, baseID, after, upTo string) bool {
	for _, v := range versions {
		s, err := core.ParseMonth(v.StartMonth)
		if err != nil || v.BaseID != baseID {
			continue
		}
		if s.After(month(after)) && !s.After(month(upTo)) {
			return true
		}
	}
	return false
}
