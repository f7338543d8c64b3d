// Package catalog holds the static ordered question schema of the sensory
// test. It is defined once at process start and never mutated.
package catalog

import (
	"fmt"

	"neuroscent-quiz/internal/domain"
)

var questions = []domain.Question{
	{
		ID:     "q1_intensity",
		Kind:   domain.KindScale,
		Prompt: "How intense do you like your fragrance?",
		Options: []domain.Option{
			{Value: "1", Label: "Barely there"},
			{Value: "2", Label: "Subtle"},
			{Value: "3", Label: "Balanced"},
			{Value: "4", Label: "Noticeable"},
			{Value: "5", Label: "Bold"},
		},
		Required: true,
	},
	{
		ID:     "q2_preferred_families",
		Kind:   domain.KindMultiple,
		Prompt: "Which scent families attract you most?",
		Options: []domain.Option{
			{Value: "citrus", Label: "Citrus"},
			{Value: "floral", Label: "Floral"},
			{Value: "woody", Label: "Woody"},
			{Value: "sweet", Label: "Sweet"},
			{Value: "spicy", Label: "Spicy"},
			{Value: "green", Label: "Green"},
			{Value: "aquatic", Label: "Aquatic"},
		},
		Required: true,
	},
	{
		ID:     "q3_rejected_families",
		Kind:   domain.KindMultiple,
		Prompt: "Any scent families you dislike?",
		Options: []domain.Option{
			{Value: "citrus", Label: "Citrus"},
			{Value: "floral", Label: "Floral"},
			{Value: "woody", Label: "Woody"},
			{Value: "sweet", Label: "Sweet"},
			{Value: "spicy", Label: "Spicy"},
			{Value: "green", Label: "Green"},
			{Value: "aquatic", Label: "Aquatic"},
		},
	},
	{
		ID:     "q4_emotion",
		Kind:   domain.KindSingle,
		Prompt: "What should your fragrance make you feel?",
		Options: []domain.Option{
			{Value: "freshness", Label: "Fresh and clean"},
			{Value: "energy", Label: "Energized"},
			{Value: "calm", Label: "Calm and relaxed"},
			{Value: "confidence", Label: "Confident"},
			{Value: "seduction", Label: "Seductive"},
			{Value: "elegance", Label: "Elegant"},
		},
		Required: true,
	},
	{
		ID:     "q5_time_of_day",
		Kind:   domain.KindMultiple,
		Prompt: "When would you wear it?",
		Options: []domain.Option{
			{Value: "morning", Label: "Morning"},
			{Value: "afternoon", Label: "Afternoon"},
			{Value: "evening", Label: "Evening"},
			{Value: "night", Label: "Night"},
		},
		Required: true,
	},
	{
		ID:     "q6_occasions",
		Kind:   domain.KindMultiple,
		Prompt: "For which occasions?",
		Options: []domain.Option{
			{Value: "daily", Label: "Everyday"},
			{Value: "work", Label: "Work"},
			{Value: "date", Label: "Date night"},
			{Value: "party", Label: "Parties"},
			{Value: "sport", Label: "Sport"},
			{Value: "special_event", Label: "Special events"},
		},
		Required: true,
	},
	{
		ID:     "q7_season",
		Kind:   domain.KindSingle,
		Prompt: "Which season fits your style best?",
		Options: []domain.Option{
			{Value: "spring", Label: "Spring"},
			{Value: "summer", Label: "Summer"},
			{Value: "autumn", Label: "Autumn"},
			{Value: "winter", Label: "Winter"},
		},
		Required: true,
	},
	{
		ID:     "q8_longevity",
		Kind:   domain.KindScale,
		Prompt: "How long should it last on your skin?",
		Options: []domain.Option{
			{Value: "1", Label: "A couple of hours"},
			{Value: "2", Label: "Half a day"},
			{Value: "3", Label: "A full workday"},
			{Value: "4", Label: "Into the evening"},
			{Value: "5", Label: "All day and night"},
		},
		Required: true,
	},
	{
		ID:     "q9_concentration",
		Kind:   domain.KindSingle,
		Prompt: "Do you prefer a particular concentration?",
		Options: []domain.Option{
			{Value: "eau_de_cologne", Label: "Eau de Cologne"},
			{Value: "eau_de_toilette", Label: "Eau de Toilette"},
			{Value: "eau_de_parfum", Label: "Eau de Parfum"},
			{Value: "parfum", Label: "Parfum"},
		},
	},
	{
		ID:     "q10_reference",
		Kind:   domain.KindText,
		Prompt: "Is there a perfume you already love? (optional)",
	},
}

// Count returns the number of questions in the schema.
func Count() int {
	return len(questions)
}

// At returns the question at index i. The index comes from a cursor the
// flow keeps in bounds, so an error here is a programming bug.
func At(i int) (domain.Question, error) {
	if i < 0 || i >= len(questions) {
		return domain.Question{}, fmt.Errorf("%w: %d of %d", domain.ErrQuestionIndex, i, len(questions))
	}
	return questions[i], nil
}
