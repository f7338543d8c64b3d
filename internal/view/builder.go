// Package view turns a raw scoring result into renderable presentation
// data. Everything here is pure and synchronous; ordering comes from the
// server and is never revisited.
package view

import "neuroscent-quiz/internal/domain"

// Tier is the locally computed affinity grade used for coloring. The
// server-sent Level is kept alongside for copy, but coloring always uses
// the local step function over the score.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierModerate  Tier = "moderate"
	TierLow       Tier = "low"
)

// Display colors per tier, matching the brand palette.
var tierColors = map[Tier]string{
	TierExcellent: "#10b981",
	TierGood:      "#6366f1",
	TierModerate:  "#f59e0b",
	TierLow:       "#94a3b8",
}

// ChartMax fixes the radar scale; axis values are percentages of it.
const ChartMax = 100

// ChartAxis is one spoke of the profile radar.
type ChartAxis struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Max   float64 `json:"max"`
}

// ProfileChart is the chart-ready projection of the olfactory profile.
type ProfileChart struct {
	Axes      []ChartAxis `json:"axes"`
	Intensity float64     `json:"intensity"`
	Emotion   string      `json:"emotion,omitempty"`
	Season    string      `json:"season,omitempty"`
}

// MatchView is one renderable recommendation card.
type MatchView struct {
	Perfume        domain.Perfume `json:"perfume"`
	Score          float64        `json:"score"`
	Level          string         `json:"level"`
	Tier           Tier           `json:"tier"`
	Color          string         `json:"color"`
	Description    string         `json:"description"`
	Recommendation string         `json:"recommendation"`
	IsTopMatch     bool           `json:"isTopMatch"`
}

// ResultView is the full renderable projection of one Result. Chart is nil
// when the server returned no profile; the section is then omitted rather
// than drawn with zeros.
type ResultView struct {
	TestID   string                `json:"testId"`
	Matches  []MatchView           `json:"matches"`
	Chart    *ProfileChart         `json:"chart,omitempty"`
	Metadata domain.ResultMetadata `json:"metadata"`
}

// Build projects result into its view model, preserving match order
// bit-for-bit and flagging exactly the first entry as the top match.
func Build(result domain.Result) ResultView {
	matches := make([]MatchView, 0, len(result.Matches))
	for i, m := range result.Matches {
		tier := ScoreTier(m.Affinity.Score)
		matches = append(matches, MatchView{
			Perfume:        m.Perfume,
			Score:          m.Affinity.Score,
			Level:          m.Affinity.Level,
			Tier:           tier,
			Color:          tierColors[tier],
			Description:    m.Affinity.Description,
			Recommendation: m.Affinity.Recommendation,
			IsTopMatch:     i == 0,
		})
	}

	return ResultView{
		TestID:   result.TestID,
		Matches:  matches,
		Chart:    buildChart(result.Profile),
		Metadata: result.Metadata,
	}
}

// ScoreTier grades a score with inclusive lower bounds at 80, 60 and 40.
// It depends on the score alone, never on the server-sent level.
func ScoreTier(score float64) Tier {
	switch {
	case score >= 80:
		return TierExcellent
	case score >= 60:
		return TierGood
	case score >= 40:
		return TierModerate
	default:
		return TierLow
	}
}

// TierColor returns the display color for a tier.
func TierColor(t Tier) string { return tierColors[t] }

func buildChart(profile *domain.OlfactoryProfile) *ProfileChart {
	if profile == nil {
		return nil
	}
	// Axis order is fixed; raw values live in [0,1] and the chart scale
	// stays at 100 regardless of the data.
	axes := []ChartAxis{
		{Label: "Citrus", Value: profile.Citrus * 100, Max: ChartMax},
		{Label: "Floral", Value: profile.Floral * 100, Max: ChartMax},
		{Label: "Woody", Value: profile.Woody * 100, Max: ChartMax},
		{Label: "Sweet", Value: profile.Sweet * 100, Max: ChartMax},
		{Label: "Spicy", Value: profile.Spicy * 100, Max: ChartMax},
		{Label: "Green", Value: profile.Green * 100, Max: ChartMax},
		{Label: "Aquatic", Value: profile.Aquatic * 100, Max: ChartMax},
	}
	return &ProfileChart{
		Axes:      axes,
		Intensity: profile.Intensity,
		Emotion:   profile.Emotion,
		Season:    profile.Season,
	}
}
