package qualification

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// GenerateQualificationReport assembles the staff-facing summary for a
// subject's latest qualification. Missing profile or qualification is an
// error; a report without either is useless to staff.
func (q *Qualifier) GenerateQualificationReport(ctx context.Context, subjectID string) (*Report, error) {
	profile, err := q.repo.GetUserProfile(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("qualification: report for %s: %w", subjectID, err)
	}

	result, err := q.repo.GetLatestQualification(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("qualification: report for %s: %w", subjectID, err)
	}

	report := &Report{
		SubjectID:       subjectID,
		GeneratedAt:     time.Now().UTC(),
		Contact:         profile,
		Qualification:   result,
		UrgencyLevel:    result.UrgencyLevel().String(),
		NextSteps:       nextSteps(result),
		PriorityRanking: priorityRanking(result),
	}

	q.logger.Info("generated qualification report", "subject_id", subjectID)
	return report, nil
}

// GetQualifiedLeads lists qualified subjects sorted by priority, joined with
// their contact details. Store errors propagate; a partial lead list would
// silently hide leads from staff.
func (q *Qualifier) GetQualifiedLeads(ctx context.Context, limit int) ([]*QualifiedLead, error) {
	results, err := q.repo.ListQualified(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("qualification: list qualified leads: %w", err)
	}

	leads := make([]*QualifiedLead, 0, len(results))
	for _, result := range results {
		lead := &QualifiedLead{
			SubjectID:       result.SubjectID,
			Name:            "Unknown",
			TreatmentType:   result.TreatmentType,
			UrgencyScore:    result.UrgencyScore,
			UrgencyLevel:    result.UrgencyLevel().String(),
			ConfidenceScore: result.ConfidenceScore,
			CreatedAt:       result.CreatedAt,
		}
		if profile, err := q.repo.GetUserProfile(ctx, result.SubjectID); err == nil {
			if profile.Name != "" {
				lead.Name = profile.Name
			}
			lead.Phone = profile.Phone
		} else if !errors.Is(err, ErrProfileNotFound) {
			return nil, fmt.Errorf("qualification: profile for %s: %w", result.SubjectID, err)
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

// nextSteps converts the verdict into concrete staff actions.
func nextSteps(result *QualificationResult) []string {
	var steps []string
	if result.Qualified {
		switch result.UrgencyLevel() {
		case UrgencyUrgent, UrgencyHigh:
			steps = append(steps, "Contact within 24 hours")
		default:
			steps = append(steps, "Schedule follow-up call")
		}
		steps = append(steps, result.RecommendedActions...)
		return steps
	}
	return []string{
		"Send educational content",
		"Schedule follow-up in 1 week",
	}
}

// priorityRanking orders leads for staff: urgency dominates, confidence
// refines, qualification adds a flat bonus.
func priorityRanking(result *QualificationResult) int {
	priority := result.UrgencyScore * 10
	priority += int(result.ConfidenceScore * 50)
	if result.Qualified {
		priority += 100
	}
	return priority
}
