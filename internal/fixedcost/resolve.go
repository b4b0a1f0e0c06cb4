package fixedcost

import (
	"sort"
	"strings"

	"finanzplan/internal/core"
)

type candidate struct {
	version Version
	start   core.Month
}

// ResolveEffective returns the fixed costs in effect during month, one
// version per base id, without deleted ones.
//
// For each base id the version with the latest start month not after month
// wins. Versions sharing a start month are decided by list order: the one
// appended last wins. Versions whose start month cannot be parsed, or that
// lack a base id, are skipped without affecting any other base id.
//
// The result is sorted by name and base id for display.
func ResolveEffective(versions []Version, month core.Month) []Version {
	best := resolve(versions, month)
	out := make([]Version, 0, len(best))
	for _, c := range best {
		if c.version.Deleted {
			continue
		}
		out = append(out, c.version)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].BaseID < out[j].BaseID
	})
	return out
}

// EffectiveVersion returns the version of baseID in effect during month. It
// reports false when the cost does not exist yet or is deleted in that month.
func EffectiveVersion(versions []Version, baseID string, month core.Month) (Version, bool) {
	c, ok := resolve(versions, month)[baseID]
	if !ok || c.version.Deleted {
		return Version{}, false
	}
	return c.version, true
}

// Total sums the amounts of the given versions.
func Total(versions []Version) core.Money {
	var total core.Money
	for _, v := range versions {
		total = total.Add(v.Amount())
	}
	return total
}

// History returns every version of baseID in the order they were appended.
func History(versions []Version, baseID string) []Version {
	var out []Version
	for _, v := range versions {
		if v.BaseID == baseID {
			out = append(out, v)
		}
	}
	return out
}

func resolve(versions []Version, month core.Month) map[string]candidate {
	best := make(map[string]candidate)
	for _, v := range versions {
		if v.BaseID == "" {
			continue
		}
		start, err := core.ParseMonth(v.StartMonth)
		if err != nil || start.After(month) {
			continue
		}
		// >= lets a later append win a tie on the start month
		if cur, ok := best[v.BaseID]; !ok || start.Compare(cur.start) >= 0 {
			best[v.BaseID] = candidate{version: v, start: start}
		}
	}
	return best
}
