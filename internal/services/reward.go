package services

import "math"

const (
	BadgeBronze = "Bronze"
	BadgeSilver = "Silver"
	BadgeGold   = "Gold"

	// Upper bounds (inclusive) of the Bronze and Silver tiers, in minutes.
	bronzeMaxXP = 200
	silverMaxXP = 500
)

// Reward is the gamified view of a user's lifetime minutes.
type Reward struct {
	XP            int    `json:"xp"`
	Badge         string `json:"badge"`
	NextBadge     string `json:"nextBadge,omitempty"`
	XPToNextBadge int    `json:"xpToNextBadge"`
}

// CalculateReward maps lifetime minutes onto xp and a badge tier. One minute
// is one xp. Tiers are decided on the unrounded minutes.
func CalculateReward(totalMinutes float64) Reward {
	if totalMinutes < 0 || math.IsNaN(totalMinutes) {
		totalMinutes = 0
	}
	xp := int(math.Floor(totalMinutes))

	switch {
	case totalMinutes <= bronzeMaxXP:
		return Reward{XP: xp, Badge: BadgeBronze, NextBadge: BadgeSilver, XPToNextBadge: bronzeMaxXP + 1 - xp}
	case totalMinutes <= silverMaxXP:
		return Reward{XP: xp, Badge: BadgeSilver, NextBadge: BadgeGold, XPToNextBadge: silverMaxXP + 1 - xp}
	default:
		return Reward{XP: xp, Badge: BadgeGold}
	}
}
