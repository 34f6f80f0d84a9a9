package qualification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  UrgencyLevel
	}{
		{0, UrgencyLow},
		{2, UrgencyLow},
		{3, UrgencyMedium},
		{5, UrgencyMedium},
		{6, UrgencyHigh},
		{9, UrgencyHigh},
		{10, UrgencyUrgent},
		{20, UrgencyUrgent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestCalculateUrgencyScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"routine visit", "just a routine check-up, feeling fine", 2},
		{"urgent crisis", "I have severe chest pain and need help immediately, it started today and keeps getting worse", 20},
		{"pain then qualifier bonus", "my back pain is terrible and I can't sleep", 5},
		{"near-term phrasing", "I want an appointment this week", 2},
		{"immediate overrides near-term", "I need this today and this week", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateUrgencyScore(tt.text))
		})
	}
}

func TestCalculateUrgencyScoreClamped(t *testing.T) {
	text := strings.Repeat("severe emergency urgent critical immediate chest pain ", 3) + "today now"
	assert.Equal(t, maxUrgencyScore, CalculateUrgencyScore(text))
}

func TestCategorizeTreatment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want TreatmentType
	}{
		{"no signal defaults to general wellness", "hello there", TreatmentGeneralWellness},
		{"empty defaults to general wellness", "", TreatmentGeneralWellness},
		{"hair keywords pick prp", "I'm worried about hair loss and thinning hair", TreatmentPRP},
		{"blood keywords", "I need a blood test to check my cholesterol", TreatmentBloodTesting},
		{"weight keywords", "struggling with weight loss and my metabolism", TreatmentWeightManagement},
		{"phrase outweighs single word", "my hormone levels seem off", TreatmentBloodTesting},
		{"tie keeps first enumerated type", "diabetes hangover", TreatmentBloodTesting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeTreatment(tt.text))
		})
	}
}

func TestExtractSymptoms(t *testing.T) {
	symptoms := ExtractSymptoms("I feel tired and have a headache, so tired lately")
	assert.Equal(t, []string{"headache", "tired"}, symptoms, "deduplicated and sorted")

	assert.Empty(t, ExtractSymptoms("everything is great"))
}

func TestGenerateRecommendations(t *testing.T) {
	urgent := GenerateRecommendations(TreatmentBloodTesting, UrgencyUrgent)
	require.Len(t, urgent, 4)
	assert.Equal(t, "PRIORITY: Schedule within 24-48 hours", urgent[0])

	high := GenerateRecommendations(TreatmentPRP, UrgencyHigh)
	assert.Equal(t, "Schedule within 1 week", high[0])

	medium := GenerateRecommendations(TreatmentIVTherapy, UrgencyMedium)
	assert.Equal(t, "Schedule within 2 weeks", medium[0])

	low := GenerateRecommendations(TreatmentGeneralWellness, UrgencyLow)
	require.Len(t, low, 3)
	assert.NotContains(t, low[0], "Schedule within")
}

func TestAnalyzeResponsesUrgentLead(t *testing.T) {
	q := NewQualifier(NewInMemoryRepository(), nil, nil)

	result, err := q.AnalyzeResponses(context.Background(), "subj-1", []Answer{
		{Question: "main_concern", Response: "I have severe chest pain and need help immediately"},
		{Question: "duration", Response: "it started today and keeps getting worse"},
	})
	require.NoError(t, err)

	assert.Equal(t, "subj-1", result.SubjectID)
	assert.GreaterOrEqual(t, result.UrgencyScore, 10)
	assert.Equal(t, UrgencyUrgent, result.UrgencyLevel())
	assert.True(t, result.Qualified)
	assert.Contains(t, result.KeySymptoms, "pain")
	assert.Equal(t, "PRIORITY: Schedule within 24-48 hours", result.RecommendedActions[0])
	assert.False(t, result.CreatedAt.IsZero(), "save stamps created_at")
}

func TestAnalyzeResponsesRoutineLead(t *testing.T) {
	q := NewQualifier(NewInMemoryRepository(), nil, nil)

	result, err := q.AnalyzeResponses(context.Background(), "subj-2", []Answer{
		{Question: "main_concern", Response: "just a routine check-up, feeling fine"},
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, result.UrgencyScore, 2)
	assert.Equal(t, UrgencyLow, result.UrgencyLevel())
	assert.Equal(t, TreatmentGeneralWellness, result.TreatmentType)
}

func TestAnalyzeResponsesConfidence(t *testing.T) {
	q := NewQualifier(NewInMemoryRepository(), nil, nil)
	ctx := context.Background()

	t.Run("completeness only", func(t *testing.T) {
		// Both answered, no treatment keywords: 0.6 * 1.0 + 0.4 * 0.
		result, err := q.AnalyzeResponses(ctx, "subj-3", []Answer{
			{Question: "q1", Response: "nothing much to report"},
			{Question: "q2", Response: "feeling alright overall"},
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.6, result.ConfidenceScore, 1e-9)
	})

	t.Run("keyword density adds weight", func(t *testing.T) {
		// Two matched blood keywords out of a ceiling of five: 0.6 + 0.4*0.4.
		result, err := q.AnalyzeResponses(ctx, "subj-4", []Answer{
			{Question: "q1", Response: "I want a blood test for my cholesterol"},
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.76, result.ConfidenceScore, 1e-9)
	})

	t.Run("unanswered questions reduce confidence", func(t *testing.T) {
		result, err := q.AnalyzeResponses(ctx, "subj-5", []Answer{
			{Question: "q1", Response: "worried about my thyroid levels"},
			{Question: "q2", Response: "   "},
		})
		require.NoError(t, err)
		assert.Less(t, result.ConfidenceScore, 0.6)
	})

	t.Run("no answers means zero confidence", func(t *testing.T) {
		result, err := q.AnalyzeResponses(ctx, "subj-6", nil)
		require.NoError(t, err)
		assert.Zero(t, result.ConfidenceScore)
		assert.False(t, result.Qualified)
	})
}

func TestAnalyzeResponsesQualificationGates(t *testing.T) {
	q := NewQualifier(NewInMemoryRepository(), nil, nil)
	ctx := context.Background()

	t.Run("short answer fails length gate", func(t *testing.T) {
		result, err := q.AnalyzeResponses(ctx, "subj-7", []Answer{
			{Question: "q1", Response: "urgent"},
		})
		require.NoError(t, err)
		assert.Positive(t, result.UrgencyScore)
		assert.False(t, result.Qualified)
	})

	t.Run("zero urgency fails urgency gate", func(t *testing.T) {
		result, err := q.AnalyzeResponses(ctx, "subj-8", []Answer{
			{Question: "q1", Response: "I would like a blood test for cholesterol please"},
		})
		require.NoError(t, err)
		assert.Zero(t, result.UrgencyScore)
		assert.False(t, result.Qualified)
	})

	t.Run("all gates pass", func(t *testing.T) {
		result, err := q.AnalyzeResponses(ctx, "subj-9", []Answer{
			{Question: "q1", Response: "my hair loss is getting worse and I'm really worried about it"},
		})
		require.NoError(t, err)
		assert.True(t, result.Qualified)
	})
}

func TestAnalyzeResponsesMissingSubject(t *testing.T) {
	q := NewQualifier(NewInMemoryRepository(), nil, nil)

	_, err := q.AnalyzeResponses(context.Background(), "   ", []Answer{
		{Question: "q1", Response: "anything"},
	})
	assert.ErrorIs(t, err, ErrMissingSubjectID)
}

type failingRepo struct {
	Repository
}

func (failingRepo) SaveQualification(context.Context, *QualificationResult) error {
	return errors.New("store down")
}

func TestAnalyzeResponsesSaveFailurePropagates(t *testing.T) {
	q := NewQualifier(failingRepo{NewInMemoryRepository()}, nil, nil)

	_, err := q.AnalyzeResponses(context.Background(), "subj-10", []Answer{
		{Question: "q1", Response: "worried about hair loss getting worse"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store down")
}

func TestAnalyzeResponsesPersistsResult(t *testing.T) {
	repo := NewInMemoryRepository()
	q := NewQualifier(repo, nil, nil)
	ctx := context.Background()

	_, err := q.AnalyzeResponses(ctx, "subj-11", []Answer{
		{Question: "main_concern", Response: "severe fatigue, I need an iv therapy vitamin drip soon"},
	})
	require.NoError(t, err)

	stored, err := repo.GetLatestQualification(ctx, "subj-11")
	require.NoError(t, err)
	assert.Equal(t, TreatmentIVTherapy, stored.TreatmentType)
	assert.Contains(t, stored.Notes, "Categorized as: Iv Therapy")
	assert.Contains(t, stored.Notes, "Urgency level:")
}
