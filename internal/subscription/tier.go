package subscription

import "strings"

// Tier is a ChainWise subscription level.
type Tier string

const (
	TierFree  Tier = "free"
	TierPro   Tier = "pro"
	TierElite Tier = "elite"
)

var tierRanks = map[Tier]int{
	TierFree:  0,
	TierPro:   1,
	TierElite: 2,
}

// Parse normalizes a tier string. Unknown values map to free so a
// malformed ledger row can never unlock paid features.
func Parse(s string) Tier {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tierRanks[t]; !ok {
		return TierFree
	}
	return t
}

// Rank returns the ordering of a tier; higher ranks include lower ones.
func (t Tier) Rank() int {
	if rank, ok := tierRanks[t]; ok {
		return rank
	}
	return 0
}

// Allows reports whether a user at tier t may access a feature that
// requires the given tier.
func (t Tier) Allows(required Tier) bool {
	return t.Rank() >= required.Rank()
}

func (t Tier) String() string {
	return string(t)
}

// MonthlyCredits returns the credit allowance granted on each billing
// cycle for a tier.
func (t Tier) MonthlyCredits() int {
	switch t {
	case TierElite:
		return 200
	case TierPro:
		return 50
	default:
		return 3
	}
}
