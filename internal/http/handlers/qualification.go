package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thewellnesslondon/wellness-connect/internal/qualification"
	"github.com/thewellnesslondon/wellness-connect/pkg/logging"
)

// QualificationHandler exposes lead qualification over HTTP.
type QualificationHandler struct {
	qualifier *qualification.Qualifier
	logger    *logging.Logger
}

// NewQualificationHandler creates a qualification handler.
func NewQualificationHandler(qualifier *qualification.Qualifier, logger *logging.Logger) *QualificationHandler {
	if qualifier == nil {
		panic("handlers: qualifier required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &QualificationHandler{qualifier: qualifier, logger: logger}
}

// AnalyzeRequest is the assessment submission payload.
type AnalyzeRequest struct {
	SubjectID string                 `json:"subject_id"`
	Answers   []qualification.Answer `json:"answers"`
}

// AnalyzeResponse mirrors a stored qualification result.
type AnalyzeResponse struct {
	SubjectID          string   `json:"subject_id"`
	TreatmentType      string   `json:"treatment_type"`
	UrgencyScore       int      `json:"urgency_score"`
	UrgencyLevel       string   `json:"urgency_level"`
	ConfidenceScore    float64  `json:"confidence_score"`
	KeySymptoms        []string `json:"key_symptoms"`
	RecommendedActions []string `json:"recommended_actions"`
	Qualified          bool     `json:"qualified"`
	Notes              string   `json:"notes,omitempty"`
	CreatedAt          string   `json:"created_at"`
}

func analyzeResponse(result *qualification.QualificationResult) AnalyzeResponse {
	return AnalyzeResponse{
		SubjectID:          result.SubjectID,
		TreatmentType:      string(result.TreatmentType),
		UrgencyScore:       result.UrgencyScore,
		UrgencyLevel:       result.UrgencyLevel().String(),
		ConfidenceScore:    result.ConfidenceScore,
		KeySymptoms:        result.KeySymptoms,
		RecommendedActions: result.RecommendedActions,
		Qualified:          result.Qualified,
		Notes:              result.Notes,
		CreatedAt:          result.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Analyze scores a completed assessment and persists the result.
// POST /api/qualification/analyze
func (h *QualificationHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.SubjectID) == "" {
		writeError(w, http.StatusBadRequest, "subject_id is required")
		return
	}

	result, err := h.qualifier.AnalyzeResponses(r.Context(), req.SubjectID, req.Answers)
	if err != nil {
		if errors.Is(err, qualification.ErrMissingSubjectID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("qualification analyze failed", "subject_id", req.SubjectID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to analyze responses")
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse(result))
}

// QualifiedLeads lists qualified leads ordered by priority.
// GET /admin/qualification/leads?limit=20
func (h *QualificationHandler) QualifiedLeads(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	leads, err := h.qualifier.GetQualifiedLeads(r.Context(), limit)
	if err != nil {
		h.logger.Error("list qualified leads failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list qualified leads")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"leads": leads,
		"count": len(leads),
	})
}

// Report returns the full qualification report for one subject.
// GET /admin/qualification/{subjectID}/report
func (h *QualificationHandler) Report(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		writeError(w, http.StatusBadRequest, "missing subjectID")
		return
	}

	report, err := h.qualifier.GenerateQualificationReport(r.Context(), subjectID)
	if err != nil {
		switch {
		case errors.Is(err, qualification.ErrProfileNotFound),
			errors.Is(err, qualification.ErrQualificationNotFound):
			writeError(w, http.StatusNotFound, "no qualification found for subject")
		default:
			h.logger.Error("qualification report failed", "subject_id", subjectID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to build report")
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}
