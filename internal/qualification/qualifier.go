package qualification

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/thewellnesslondon/wellness-connect/internal/observability/metrics"
	"github.com/thewellnesslondon/wellness-connect/pkg/logging"
)

var qualifierTracer = otel.Tracer("wellness.internal.qualification")

const (
	minConfidence   = 0.3
	minUrgencyScore = 1
	minAnswerLength = 20
	maxUrgencyScore = 20

	// keywordDensityCeiling is the match count at which keyword density saturates.
	keywordDensityCeiling = 5
)

// Qualifier scores health-assessment answers and persists the verdict.
type Qualifier struct {
	repo    Repository
	logger  *logging.Logger
	metrics *metrics.QualificationMetrics
}

// NewQualifier constructs a qualifier backed by the given store.
func NewQualifier(repo Repository, logger *logging.Logger, m *metrics.QualificationMetrics) *Qualifier {
	if repo == nil {
		panic("qualification: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Qualifier{repo: repo, logger: logger, metrics: m}
}

// AnalyzeResponses scores a completed assessment and saves the result.
// Analysis failures are fatal to the request: qualification gates every
// downstream action, so errors propagate instead of degrading silently.
func (q *Qualifier) AnalyzeResponses(ctx context.Context, subjectID string, responses []Answer) (*QualificationResult, error) {
	ctx, span := qualifierTracer.Start(ctx, "qualification.analyze")
	defer span.End()
	span.SetAttributes(attribute.String("wellness.subject_id", subjectID))

	if strings.TrimSpace(subjectID) == "" {
		return nil, ErrMissingSubjectID
	}

	combined := combineResponses(responses)

	treatment := CategorizeTreatment(combined)
	urgencyScore := CalculateUrgencyScore(combined)
	level := LevelForScore(urgencyScore)
	symptoms := ExtractSymptoms(combined)
	actions := GenerateRecommendations(treatment, level)
	confidence := confidenceScore(responses, treatment)
	qualified := isQualified(urgencyScore, confidence, combined)

	result := &QualificationResult{
		SubjectID:          subjectID,
		TreatmentType:      treatment,
		UrgencyScore:       urgencyScore,
		ConfidenceScore:    confidence,
		KeySymptoms:        symptoms,
		RecommendedActions: actions,
		Notes:              buildNotes(responses, treatment, level),
		Qualified:          qualified,
	}

	if err := q.repo.SaveQualification(ctx, result); err != nil {
		span.RecordError(err)
		q.logger.Error("failed to save qualification", "subject_id", subjectID, "error", err)
		return nil, fmt.Errorf("qualification: save result: %w", err)
	}

	q.metrics.ObserveQualification(string(treatment), level.String(), qualified)
	q.logger.Info("qualification completed",
		"subject_id", subjectID,
		"treatment_type", treatment,
		"urgency_level", level.String(),
		"qualified", qualified,
	)
	return result, nil
}

// CategorizeTreatment picks the treatment type whose keywords score highest
// in the text. Each matched keyword contributes its word count, so longer,
// more specific phrases weigh more. Ties keep the first enumerated type;
// an all-zero result falls back to general wellness.
func CategorizeTreatment(text string) TreatmentType {
	text = strings.ToLower(text)

	best := TreatmentGeneralWellness
	bestScore := 0
	for _, treatment := range TreatmentTypes {
		score := 0
		for _, keyword := range treatmentKeywords[treatment] {
			if strings.Contains(text, keyword) {
				score += len(strings.Fields(keyword))
			}
		}
		if score > bestScore {
			best = treatment
			bestScore = score
		}
	}
	return best
}

// CalculateUrgencyScore sums tier-weighted keyword hits plus fixed bonuses
// for phrasings the tiers alone miss. The result is clamped to [0, 20], so
// repeating high-urgency keywords cannot inflate it without bound.
func CalculateUrgencyScore(text string) int {
	text = strings.ToLower(text)

	score := 0
	for _, tier := range urgencyKeywords {
		for _, keyword := range tier.keywords {
			if strings.Contains(text, keyword) {
				score += int(tier.level)
			}
		}
	}

	if severePainPattern.MatchString(text) {
		score += 3
	}
	if cannotFunctionPattern.MatchString(text) {
		score += 2
	}
	if worseningPattern.MatchString(text) {
		score += 2
	}
	if immediatePattern.MatchString(text) {
		score += 3
	} else if nearTermPattern.MatchString(text) {
		score += 2
	}

	if score > maxUrgencyScore {
		return maxUrgencyScore
	}
	if score < 0 {
		return 0
	}
	return score
}

// ExtractSymptoms returns the normalized symptom tokens found in the text,
// deduplicated and sorted.
func ExtractSymptoms(text string) []string {
	text = strings.ToLower(text)

	seen := make(map[string]struct{})
	for _, pattern := range symptomPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			seen[match] = struct{}{}
		}
	}

	symptoms := make([]string, 0, len(seen))
	for s := range seen {
		symptoms = append(symptoms, s)
	}
	sort.Strings(symptoms)
	return symptoms
}

// GenerateRecommendations returns the per-treatment action list, prefixed
// with a scheduling priority line when urgency warrants one.
func GenerateRecommendations(treatment TreatmentType, level UrgencyLevel) []string {
	base := treatmentRecommendations[treatment]
	actions := make([]string, 0, len(base)+1)

	switch level {
	case UrgencyUrgent:
		actions = append(actions, "PRIORITY: Schedule within 24-48 hours")
	case UrgencyHigh:
		actions = append(actions, "Schedule within 1 week")
	case UrgencyMedium:
		actions = append(actions, "Schedule within 2 weeks")
	}

	return append(actions, base...)
}

// confidenceScore weights answer completeness over keyword specificity:
// a fully answered assessment with weak keyword signal is still moderately
// trusted.
func confidenceScore(responses []Answer, treatment TreatmentType) float64 {
	total := len(responses)
	if total == 0 {
		return 0
	}

	answered := 0
	for _, a := range responses {
		if strings.TrimSpace(a.Response) != "" {
			answered++
		}
	}
	completeness := float64(answered) / float64(total)

	combined := strings.ToLower(combineResponses(responses))
	matches := 0
	for _, keyword := range treatmentKeywords[treatment] {
		if strings.Contains(combined, keyword) {
			matches++
		}
	}
	density := math.Min(float64(matches)/keywordDensityCeiling, 1.0)

	return math.Round((completeness*0.6+density*0.4)*100) / 100
}

// isQualified applies three independent gates; failing any one disqualifies.
// The length gate stops near-empty submissions that happen to hit a keyword.
func isQualified(urgencyScore int, confidence float64, combined string) bool {
	return confidence >= minConfidence &&
		urgencyScore >= minUrgencyScore &&
		len(strings.TrimSpace(combined)) > minAnswerLength
}

func combineResponses(responses []Answer) string {
	parts := make([]string, 0, len(responses))
	for _, a := range responses {
		parts = append(parts, a.Response)
	}
	return strings.Join(parts, " ")
}

func buildNotes(responses []Answer, treatment TreatmentType, level UrgencyLevel) string {
	notes := []string{
		"Categorized as: " + treatmentTitle(treatment),
		"Urgency level: " + level.String(),
	}
	for _, a := range responses {
		if len(strings.TrimSpace(a.Response)) > 10 {
			notes = append(notes, a.Question+": "+truncate(a.Response, 100)+"...")
		}
	}
	return strings.Join(notes, " | ")
}

func treatmentTitle(t TreatmentType) string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
