package model

// Tier is a paid support level. The zero value is not a valid tier;
// "no paid tier" is represented by a nil *Tier.
type Tier string

const (
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

var tierRanks = map[Tier]int{
	TierBronze:   1,
	TierSilver:   2,
	TierGold:     3,
	TierPlatinum: 4,
}

func ParseTier(s string) (Tier, bool) {
	tier := Tier(s)
	_, ok := tierRanks[tier]
	return tier, ok
}

func (t Tier) Valid() bool {
	_, ok := tierRanks[t]
	return ok
}

func (t Tier) Rank() int {
	return tierRanks[t]
}

// Less reports whether t is a lower paid level than other (Bronze < Silver < Gold < Platinum).
func (t Tier) Less(other Tier) bool {
	return tierRanks[t] < tierRanks[other]
}

func (t Tier) String() string {
	return string(t)
}
