package endpoint_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-leadwizard/internal/store"
	"github.com/goliatone/go-leadwizard/pkg/content"
	"github.com/goliatone/go-leadwizard/pkg/endpoint"
	"github.com/goliatone/go-leadwizard/pkg/submission"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

type fakeStore struct {
	surveys   [][]wizard.Response
	inquiries []map[string]string
	err       error
}

func (f *fakeStore) SaveSurvey(_ context.Context, responses []wizard.Response) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.surveys = append(f.surveys, responses)
	return "survey-1", nil
}

func (f *fakeStore) SaveInquiry(_ context.Context, fields map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.inquiries = append(f.inquiries, fields)
	return "inquiry-1", nil
}

func newRouter(h *endpoint.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) (int, submission.Reply) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var reply submission.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply), rec.Body.String())
	return rec.Code, reply
}

const validInquiry = `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","phone":"555","country":"UK","model":"Aurora"}`

func TestHandler_Survey(t *testing.T) {
	fs := &fakeStore{}
	router := newRouter(endpoint.NewHandler(fs))

	code, reply := do(t, router, http.MethodPost, "/api/survey",
		`{"responses":[{"fieldName":"model","fieldType":"radio","value":"Aurora","sectionIndex":0}]}`)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, reply.Success)
	assert.Equal(t, "survey-1", reply.ResponseID)
	require.Len(t, fs.surveys, 1)
	assert.Equal(t, []wizard.Response{{FieldName: "model", FieldType: "radio", Value: "Aurora"}}, fs.surveys[0])
}

func TestHandler_SurveyRejected(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "malformed", body: `{"responses":`, message: "Invalid request body"},
		{name: "missing responses", body: `{}`, message: "At least one response is required"},
		{name: "empty responses", body: `{"responses":[]}`, message: "At least one response is required"},
		{name: "missing field name", body: `{"responses":[{"value":"x"}]}`, message: "Each response needs a field name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeStore{}
			code, reply := do(t, newRouter(endpoint.NewHandler(fs)), http.MethodPost, "/api/survey", tt.body)

			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, reply.Success)
			assert.Equal(t, tt.message, reply.Error)
			assert.Empty(t, fs.surveys)
		})
	}
}

func TestHandler_Inquiry(t *testing.T) {
	fs := &fakeStore{}
	code, reply := do(t, newRouter(endpoint.NewHandler(fs)), http.MethodPost, "/api/inquiry", validInquiry)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, reply.Success)
	assert.Equal(t, "inquiry-1", reply.ResponseID)
	require.Len(t, fs.inquiries, 1)
	assert.Equal(t, "Aurora", fs.inquiries[0]["model"])
	assert.Equal(t, "UK", fs.inquiries[0]["country"])
}

func TestHandler_InquiryValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "bad email",
			body:    `{"firstName":"Ada","lastName":"L","email":"nope","phone":"1","country":"UK"}`,
			message: "Please enter a valid email address",
		},
		{
			name:    "missing names",
			body:    `{"email":"ada@example.com","phone":"1","country":"UK"}`,
			message: "First name is required; Last name is required",
		},
		{
			name:    "blank country",
			body:    `{"firstName":"Ada","lastName":"L","email":"ada@example.com","phone":"1","country":"  "}`,
			message: "Country is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeStore{}
			code, reply := do(t, newRouter(endpoint.NewHandler(fs)), http.MethodPost, "/api/inquiry", tt.body)

			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.message, reply.Error)
			assert.Empty(t, fs.inquiries)
		})
	}
}

func TestHandler_StoreFailure(t *testing.T) {
	fs := &fakeStore{err: errors.New("disk full")}
	code, reply := do(t, newRouter(endpoint.NewHandler(fs)), http.MethodPost, "/api/inquiry", validInquiry)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, reply.Success)
	assert.Equal(t, "Failed to save inquiry", reply.Error)
}

func TestHandler_Forms(t *testing.T) {
	steps := []wizard.Step{{ID: "model", Question: "Pick", Field: wizard.FieldSpec{FieldName: "model", FieldType: wizard.FieldTypeRadio, Options: []string{"A"}}}}
	forms := func(_ context.Context, formType string) ([]wizard.Step, error) {
		if formType != "survey" {
			return nil, content.ErrNoForms
		}
		return steps, nil
	}
	router := newRouter(endpoint.NewHandler(&fakeStore{}, endpoint.WithForms(forms)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/forms/survey", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool          `json:"success"`
		Steps   []wizard.Step `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, steps, body.Steps)

	code, reply := do(t, router, http.MethodGet, "/api/forms/inquiry", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "no published inquiry form", reply.Error)
}

func TestHandler_ClientRoundTrip(t *testing.T) {
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := httptest.NewServer(newRouter(endpoint.NewHandler(db)))
	defer srv.Close()

	client := submission.NewSurvey(submission.WithBaseURL(srv.URL))
	responses := []wizard.Response{
		{FieldName: "model", FieldType: "radio", Value: "Aurora", SectionIndex: 0},
		{FieldName: "email", FieldType: "email", Value: "ada@example.com", SectionIndex: 1},
	}
	res, err := client.Submit(context.Background(), wizard.Submission{Responses: responses})
	require.NoError(t, err)
	require.NotEmpty(t, res.ResponseID)

	stored, err := db.Survey(context.Background(), res.ResponseID)
	require.NoError(t, err)
	assert.Equal(t, responses, stored)

	inquiry := submission.NewInquiry(submission.WithBaseURL(srv.URL))
	_, err = inquiry.Submit(context.Background(), wizard.Submission{Fields: map[string]string{"firstName": "Ada"}})
	require.Error(t, err)
	assert.Equal(t, "Last name is required; Email is required; Phone number is required; Country is required", wizard.UserMessage(err))
}
