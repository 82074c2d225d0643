package services

import (
	"strings"

	"word-duel-service/models"
)

// AchievementKind is the heuristic bucket an achievement falls into.
// Classification is string containment on name/description — a deliberate
// stand-in for a rule engine, kept as an explicit ordered rule table so the
// heuristics stay enumerable and testable.
type AchievementKind string

const (
	KindComposite AchievementKind = "composite" // needs cross-game aggregation, never auto-accumulated
	KindWin       AchievementKind = "win"
	KindScore     AchievementKind = "score"
	KindPlay      AchievementKind = "play"
)

type classificationRule struct {
	keywords []string
	kind     AchievementKind
}

// Ordered: first match wins. Composite markers are checked before anything
// else so "win every game type" is excluded rather than counted as a win.
var classificationRules = []classificationRule{
	{[]string{"every game", "all games", "each game", "every mode", "all game types"}, KindComposite},
	{[]string{"win", "won", "victor", "champion", "undefeated"}, KindWin},
	{[]string{"score", "points in a single", "point total", "high point"}, KindScore},
	{[]string{"play", "complete", "finish", "games"}, KindPlay},
}

// ClassifyAchievement buckets an achievement by its name and description.
// Achievements in the games category with no recognizable keyword default
// to plain play counters.
func ClassifyAchievement(a *models.Achievement) AchievementKind {
	text := strings.ToLower(a.Name + " " + a.Description)
	for _, rule := range classificationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.kind
			}
		}
	}
	return KindPlay
}

// mentionsGame reports whether the achievement names the given game
// literally, e.g. "Finish 10 rounds of Word Duel".
func mentionsGame(a *models.Achievement, gameName string) bool {
	name := strings.ToLower(strings.TrimSpace(gameName))
	if name == "" {
		return false
	}
	text := strings.ToLower(a.Name + " " + a.Description)
	return strings.Contains(text, name)
}
