package view_test

import (
	"testing"

	"neuroscent-quiz/internal/domain"
	"neuroscent-quiz/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func match(id string, score float64, level string) domain.Match {
	return domain.Match{
		Perfume:  domain.Perfume{ID: id, Name: "P-" + id, Brand: "B"},
		Affinity: domain.Affinity{Score: score, Level: level, Description: "d", Recommendation: "r"},
	}
}

func TestBuildMarksExactlyOneTopMatch(t *testing.T) {
	result := domain.Result{
		TestID:  "t1",
		Matches: []domain.Match{match("a", 92, "excellent"), match("b", 71, "good"), match("c", 55, "moderate")},
	}

	built := view.Build(result)

	require.Len(t, built.Matches, 3)
	assert.True(t, built.Matches[0].IsTopMatch)
	assert.False(t, built.Matches[1].IsTopMatch)
	assert.False(t, built.Matches[2].IsTopMatch)

	// Server order is authoritative, even when it disagrees with scores.
	unsorted := domain.Result{
		TestID:  "t2",
		Matches: []domain.Match{match("low", 30, "low"), match("high", 95, "excellent")},
	}
	built = view.Build(unsorted)
	assert.Equal(t, "low", built.Matches[0].Perfume.ID)
	assert.Equal(t, "high", built.Matches[1].Perfume.ID)
	assert.True(t, built.Matches[0].IsTopMatch)
}

func TestBuildEmptyResult(t *testing.T) {
	built := view.Build(domain.Result{TestID: "t-empty"})
	assert.Empty(t, built.Matches)
	assert.Nil(t, built.Chart)
}

func TestScoreTierStepFunction(t *testing.T) {
	cases := []struct {
		score float64
		tier  view.Tier
	}{
		{100, view.TierExcellent},
		{80, view.TierExcellent},
		{79.9, view.TierGood},
		{60, view.TierGood},
		{59.9, view.TierModerate},
		{40, view.TierModerate},
		{39.9, view.TierLow},
		{0, view.TierLow},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.tier, view.ScoreTier(tc.score), "score %v", tc.score)
	}
}

func TestTierColoringIgnoresServerLevel(t *testing.T) {
	// Server says "low" but the score earns excellent: color follows the
	// score, copy keeps the server level.
	result := domain.Result{
		TestID:  "t3",
		Matches: []domain.Match{match("a", 85, "low")},
	}
	built := view.Build(result)

	require.Len(t, built.Matches, 1)
	assert.Equal(t, view.TierExcellent, built.Matches[0].Tier)
	assert.Equal(t, "#10b981", built.Matches[0].Color)
	assert.Equal(t, built.Matches[0].Color, view.TierColor(built.Matches[0].Tier))
	assert.Equal(t, "low", built.Matches[0].Level)
}

func TestProfileChartProjection(t *testing.T) {
	result := domain.Result{
		TestID: "t4",
		Profile: &domain.OlfactoryProfile{
			Citrus:  0.25,
			Floral:  1,
			Woody:   0,
			Sweet:   0.5,
			Spicy:   0.1,
			Green:   0.75,
			Aquatic: 0.33,
			Emotion: "calm",
			Season:  "summer",
		},
	}

	built := view.Build(result)
	require.NotNil(t, built.Chart)
	require.Len(t, built.Chart.Axes, 7)

	labels := []string{"Citrus", "Floral", "Woody", "Sweet", "Spicy", "Green", "Aquatic"}
	values := []float64{25, 100, 0, 50, 10, 75, 33}
	for i, axis := range built.Chart.Axes {
		assert.Equal(t, labels[i], axis.Label)
		assert.InDelta(t, values[i], axis.Value, 1e-9)
		assert.Equal(t, float64(view.ChartMax), axis.Max)
	}
	assert.Equal(t, "calm", built.Chart.Emotion)
	assert.Equal(t, "summer", built.Chart.Season)
}

func TestMissingProfileOmitsChart(t *testing.T) {
	result := domain.Result{
		TestID:  "t5",
		Matches: []domain.Match{match("a", 50, "moderate")},
	}
	assert.Nil(t, view.Build(result).Chart)
}
