package qualification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresRepository stores qualifications in the relational database.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository initializes a repo backed by database/sql.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	if db == nil {
		panic("qualification: db handle required")
	}
	return &PostgresRepository{db: db}
}

// SaveQualification upserts the subject's row so the latest read path always
// reflects the most recent assessment. A placeholder subjects row is created
// in the same transaction when the lead has no profile yet, keeping the
// foreign key satisfied for first-contact subjects.
func (r *PostgresRepository) SaveQualification(ctx context.Context, result *QualificationResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("qualification: begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO subjects (subject_id)
		VALUES ($1)
		ON CONFLICT (subject_id) DO NOTHING`,
		result.SubjectID); err != nil {
		return fmt.Errorf("qualification: ensure subject: %w", err)
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO lead_qualifications
		    (subject_id, treatment_type, urgency_score, confidence_score,
		     key_symptoms, recommended_actions, notes, qualified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (subject_id) DO UPDATE SET
		    treatment_type=EXCLUDED.treatment_type, urgency_score=EXCLUDED.urgency_score,
		    confidence_score=EXCLUDED.confidence_score, key_symptoms=EXCLUDED.key_symptoms,
		    recommended_actions=EXCLUDED.recommended_actions, notes=EXCLUDED.notes,
		    qualified=EXCLUDED.qualified, created_at=EXCLUDED.created_at`,
		result.SubjectID, string(result.TreatmentType), result.UrgencyScore, result.ConfidenceScore,
		pq.Array(result.KeySymptoms), pq.Array(result.RecommendedActions), result.Notes,
		result.Qualified, now); err != nil {
		return fmt.Errorf("qualification: upsert failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("qualification: commit save: %w", err)
	}
	result.CreatedAt = now
	return nil
}

// GetLatestQualification selects the newest row for the subject.
func (r *PostgresRepository) GetLatestQualification(ctx context.Context, subjectID string) (*QualificationResult, error) {
	var (
		result        QualificationResult
		treatmentType string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT subject_id, treatment_type, urgency_score, confidence_score,
		       key_symptoms, recommended_actions, notes, qualified, created_at
		FROM lead_qualifications
		WHERE subject_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, subjectID).Scan(
		&result.SubjectID, &treatmentType, &result.UrgencyScore, &result.ConfidenceScore,
		pq.Array(&result.KeySymptoms), pq.Array(&result.RecommendedActions), &result.Notes,
		&result.Qualified, &result.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrQualificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("qualification: select latest failed: %w", err)
	}
	result.TreatmentType = TreatmentType(treatmentType)
	if result.KeySymptoms == nil {
		result.KeySymptoms = []string{}
	}
	if result.RecommendedActions == nil {
		result.RecommendedActions = []string{}
	}
	return &result, nil
}

// ListQualified returns qualified rows ordered by urgency, confidence, recency.
func (r *PostgresRepository) ListQualified(ctx context.Context, limit int) ([]*QualificationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT subject_id, treatment_type, urgency_score, confidence_score,
		       key_symptoms, recommended_actions, notes, qualified, created_at
		FROM lead_qualifications
		WHERE qualified
		ORDER BY urgency_score DESC, confidence_score DESC, created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("qualification: list qualified failed: %w", err)
	}
	defer rows.Close()

	var out []*QualificationResult
	for rows.Next() {
		var (
			result        QualificationResult
			treatmentType string
		)
		if err := rows.Scan(
			&result.SubjectID, &treatmentType, &result.UrgencyScore, &result.ConfidenceScore,
			pq.Array(&result.KeySymptoms), pq.Array(&result.RecommendedActions), &result.Notes,
			&result.Qualified, &result.CreatedAt); err != nil {
			return nil, fmt.Errorf("qualification: scan qualified row: %w", err)
		}
		result.TreatmentType = TreatmentType(treatmentType)
		out = append(out, &result)
	}
	if out == nil {
		out = []*QualificationResult{}
	}
	return out, rows.Err()
}

// GetUserProfile fetches the subject's contact details.
func (r *PostgresRepository) GetUserProfile(ctx context.Context, subjectID string) (*SubjectProfile, error) {
	var profile SubjectProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT subject_id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(email, '')
		FROM subjects
		WHERE subject_id = $1`, subjectID).Scan(
		&profile.SubjectID, &profile.Name, &profile.Phone, &profile.Email)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("qualification: select profile failed: %w", err)
	}
	return &profile, nil
}
