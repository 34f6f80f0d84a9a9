package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thewellnesslondon/wellness-connect/internal/http/handlers"
	"github.com/thewellnesslondon/wellness-connect/internal/qualification"
	"github.com/thewellnesslondon/wellness-connect/internal/scheduling"
)

type noopNotifier struct{}

func (noopNotifier) SendBookingConfirmation(context.Context, *scheduling.Appointment) error {
	return nil
}
func (noopNotifier) SendRescheduleConfirmation(context.Context, *scheduling.Appointment) error {
	return nil
}
func (noopNotifier) SendCancellationNotice(context.Context, *scheduling.Appointment) error {
	return nil
}
func (noopNotifier) SendReminder(context.Context, *scheduling.Appointment) error { return nil }

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	qualifier := qualification.NewQualifier(qualification.NewInMemoryRepository(), nil, nil)
	scheduler := scheduling.NewScheduler(scheduling.NewInMemoryRepository(), noopNotifier{}, nil, nil)
	return New(&Config{
		Qualification:   handlers.NewQualificationHandler(qualifier, nil),
		Scheduling:      handlers.NewSchedulingHandler(scheduler, nil),
		StaffAuthSecret: testSecret,
	})
}

func staffToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "staff-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAnalyzeEndpoint(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]any{
		"subject_id": "subj-1",
		"answers": []map[string]string{
			{"question": "main_concern", "response": "I have severe chest pain and need help immediately"},
			{"question": "duration", "response": "it started today and keeps getting worse"},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/qualification/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "subj-1", resp.SubjectID)
	assert.Equal(t, "urgent", resp.UrgencyLevel)
	assert.True(t, resp.Qualified)
}

func TestAnalyzeRejectsMissingSubject(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/qualification/analyze", bytes.NewReader([]byte(`{"answers":[]}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	// Availability on a Tuesday shows the morning slot.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appointments/availability?date=2030-03-05&treatment_type=blood_testing", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	book := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{
			"subject_id":     "subj-2",
			"contact_handle": "447700900010",
			"date":           "2030-03-05",
			"start_time":     "09:00",
			"treatment_type": "blood_testing",
		})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body)))
		return rec
	}

	first := book()
	require.Equal(t, http.StatusCreated, first.Code)

	var appt scheduling.Appointment
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &appt))
	assert.Equal(t, "2030-03-05", appt.Date)
	assert.Equal(t, 30, appt.DurationMinutes)

	// Same slot again conflicts.
	second := book()
	assert.Equal(t, http.StatusConflict, second.Code)

	// Cancel frees the slot.
	cancelReq := httptest.NewRequest(http.MethodPost, "/api/appointments/"+appt.ID.String()+"/cancel",
		bytes.NewReader([]byte(`{"reason":"patient request"}`)))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, cancelReq)
	assert.Equal(t, http.StatusOK, rec.Code)

	third := book()
	assert.Equal(t, http.StatusCreated, third.Code)
}

func TestBookingValidationErrors(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{
		"subject_id":     "subj-3",
		"contact_handle": "447700900011",
		"date":           "2001-01-01",
		"start_time":     "09:00",
		"treatment_type": "blood_testing",
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/appointments", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "past dates are rejected")
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/schedule/2030-03-05", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/schedule/2030-03-05", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken(t))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminReportNotFound(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/qualification/subj-missing/report", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken(t))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
