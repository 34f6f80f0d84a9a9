package qualification

import "time"

// TreatmentType identifies the clinic service a lead is interested in.
type TreatmentType string

const (
	TreatmentBloodTesting     TreatmentType = "blood_testing"
	TreatmentPRP              TreatmentType = "prp"
	TreatmentWeightManagement TreatmentType = "weight_management"
	TreatmentIVTherapy        TreatmentType = "iv_therapy"
	TreatmentHormoneTherapy   TreatmentType = "hormone_therapy"
	TreatmentGeneralWellness  TreatmentType = "general_wellness"
)

// TreatmentTypes enumerates all recognized treatment types in scoring order.
// The order matters: CategorizeTreatment breaks ties in favor of the first entry.
var TreatmentTypes = []TreatmentType{
	TreatmentBloodTesting,
	TreatmentPRP,
	TreatmentWeightManagement,
	TreatmentIVTherapy,
	TreatmentHormoneTherapy,
	TreatmentGeneralWellness,
}

// UrgencyLevel is the ordinal bucket derived from the numeric urgency score.
// It is never persisted; LevelForScore is the single source of truth.
type UrgencyLevel int

const (
	UrgencyLow UrgencyLevel = iota + 1
	UrgencyMedium
	UrgencyHigh
	UrgencyUrgent
)

func (l UrgencyLevel) String() string {
	switch l {
	case UrgencyLow:
		return "low"
	case UrgencyMedium:
		return "medium"
	case UrgencyHigh:
		return "high"
	case UrgencyUrgent:
		return "urgent"
	default:
		return "unknown"
	}
}

// LevelForScore maps a clamped urgency score to its level bucket.
func LevelForScore(score int) UrgencyLevel {
	switch {
	case score >= 10:
		return UrgencyUrgent
	case score >= 6:
		return UrgencyHigh
	case score >= 3:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// Answer is a single question/response pair from a health assessment.
// Answers are ordered; the combined text is built in submission order.
type Answer struct {
	Question string `json:"question"`
	Response string `json:"response"`
}

// QualificationResult is the scored verdict for one completed assessment.
type QualificationResult struct {
	SubjectID          string        `json:"subject_id"`
	TreatmentType      TreatmentType `json:"treatment_type"`
	UrgencyScore       int           `json:"urgency_score"`
	ConfidenceScore    float64       `json:"confidence_score"`
	KeySymptoms        []string      `json:"key_symptoms"`
	RecommendedActions []string      `json:"recommended_actions"`
	Notes              string        `json:"notes"`
	Qualified          bool          `json:"qualified"`
	CreatedAt          time.Time     `json:"created_at"`
}

// UrgencyLevel derives the level bucket from the stored score.
func (r *QualificationResult) UrgencyLevel() UrgencyLevel {
	return LevelForScore(r.UrgencyScore)
}

// SubjectProfile holds the contact details kept for a lead.
type SubjectProfile struct {
	SubjectID string `json:"subject_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Report is the staff-facing summary of a subject's latest qualification.
type Report struct {
	SubjectID       string               `json:"subject_id"`
	GeneratedAt     time.Time            `json:"generated_at"`
	Contact         *SubjectProfile      `json:"contact"`
	Qualification   *QualificationResult `json:"qualification"`
	UrgencyLevel    string               `json:"urgency_level"`
	NextSteps       []string             `json:"next_steps"`
	PriorityRanking int                  `json:"priority_ranking"`
}

// QualifiedLead is one row of the staff lead list, sorted by priority.
type QualifiedLead struct {
	SubjectID       string        `json:"subject_id"`
	Name            string        `json:"name"`
	Phone           string        `json:"phone"`
	TreatmentType   TreatmentType `json:"treatment_type"`
	UrgencyScore    int           `json:"urgency_score"`
	UrgencyLevel    string        `json:"urgency_level"`
	ConfidenceScore float64       `json:"confidence_score"`
	CreatedAt       time.Time     `json:"created_at"`
}
