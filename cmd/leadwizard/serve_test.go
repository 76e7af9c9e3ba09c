package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadwizard/internal/config"
	"github.com/goliatone/go-leadwizard/internal/store"
	"github.com/goliatone/go-leadwizard/pkg/submission"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

const testForms = `
forms:
  - id: survey-1
    type: survey
    title: Owner survey
    hero:
      title: Tell us about your drive
    sections:
      - title: Which model?
        fieldName: model
        fieldType: radio
        fields: [Aurora, Boreal]
      - title: Your details
        fieldType: form
        fields: [firstName, lastName, email, phone, country]
`

func testConfig(t *testing.T, forms string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "forms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(forms), 0o600))

	c := config.Default()
	c.Content.Source = path
	c.Database.Path = filepath.Join(dir, "leads.db")
	c.Countries.Preferred = []string{"ES"}
	return c
}

func testRouter(t *testing.T, c *config.Config) (http.Handler, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), c.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	router, err := newRouter(c, st, zap.NewNop())
	require.NoError(t, err)
	return router, st
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_SurveyIsStored(t *testing.T) {
	router, st := testRouter(t, testConfig(t, testForms))

	rec := do(t, router, http.MethodPost, submission.SurveyPath, map[string]any{
		"responses": []map[string]any{
			{"fieldName": "model", "fieldType": "radio", "value": "Boreal", "sectionIndex": 0},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var reply submission.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.True(t, reply.Success)

	saved, err := st.Survey(context.Background(), reply.ResponseID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Boreal", saved[0].Value)
}

func TestRouter_Forms(t *testing.T) {
	router, _ := testRouter(t, testConfig(t, testForms))

	rec := do(t, router, http.MethodGet, "/api/forms/survey", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool          `json:"success"`
		Steps   []wizard.Step `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Steps, 2)
	assert.Equal(t, "model", body.Steps[0].ID)

	rec = do(t, router, http.MethodGet, "/api/forms/inquiry", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Countries(t *testing.T) {
	router, _ := testRouter(t, testConfig(t, testForms))

	rec := do(t, router, http.MethodGet, "/api/countries?q=nor", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Norway")
}

func TestRouter_WizardPages(t *testing.T) {
	router, _ := testRouter(t, testConfig(t, testForms))

	rec := do(t, router, http.MethodGet, "/wizard/survey", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tell us about your drive")

	// no inquiry form in the content
	rec = do(t, router, http.MethodGet, "/wizard/inquiry", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "We could not load this form")

	rec = do(t, router, http.MethodGet, "/wizard/newsletter", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CountriesHead(t *testing.T) {
	router, _ := testRouter(t, testConfig(t, testForms))

	rec := do(t, router, http.MethodHead, "/api/countries", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_WizardPageAppliesFlavourConfig(t *testing.T) {
	c := testConfig(t, testForms)
	c.Survey.CompletionPolicy = "forever"
	router, _ := testRouter(t, c)

	rec := do(t, router, http.MethodGet, "/wizard/survey", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBuildMachine_AppliesFlavourConfig(t *testing.T) {
	c := testConfig(t, testForms)
	c.Survey.SuccessMessage = "Tak!"
	c.Survey.ResetDelay = 2 * time.Second
	c.Survey.PreserveOnExit = true

	loader, src, err := contentFor(c.Content)
	require.NoError(t, err)
	machine, def, err := buildMachine(context.Background(), c, loader, src, "survey")
	require.NoError(t, err)

	assert.Equal(t, "survey-1", def.ID)
	wc := machine.Config()
	assert.Equal(t, "Tak!", wc.SuccessMessage)
	assert.Equal(t, 2*time.Second, wc.ResetDelay)
	assert.True(t, wc.PreserveOnExit)
	assert.Equal(t, wizard.ResetToHero, wc.CompletionPolicy)
}

func TestRouter_TemplateDir(t *testing.T) {
	c := testConfig(t, testForms)
	c.Views.TemplateDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(c.Views.TemplateDir, "hero.tpl"), []byte(`branded {{ hero.title }}`), 0o600))
	router, _ := testRouter(t, c)

	rec := do(t, router, http.MethodGet, "/wizard/survey", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "branded Tell us about your drive", rec.Body.String())
}

func TestRouter_OpenAPIContent(t *testing.T) {
	c := testConfig(t, testForms)
	c.Content.Source = filepath.Join("..", "..", "pkg", "content", "testdata", "openapi.json")
	c.Content.Format = config.FormatOpenAPI
	c.Content.Operation = "createInquiry"
	router, _ := testRouter(t, c)

	rec := do(t, router, http.MethodGet, "/api/forms/inquiry", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Steps []wizard.Step `json:"steps"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Steps, 4)
	assert.Equal(t, "model", body.Steps[0].ID)

	rec = do(t, router, http.MethodGet, "/wizard/inquiry", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_RejectsPlainHTTPContent(t *testing.T) {
	c := config.Default()
	c.Content.Source = "http://cms.example.com/forms"

	_, err := newRouter(c, nil, zap.NewNop())
	assert.Error(t, err)

	c.Content.AllowHTTP = true
	_, err = newRouter(c, nil, zap.NewNop())
	assert.NoError(t, err)
}

func TestPreviewState(t *testing.T) {
	m, err := wizard.NewMachine([]wizard.Step{
		{ID: "model", Question: "Model?", Field: wizard.FieldSpec{FieldName: "model", FieldType: wizard.FieldTypeRadio, Options: []string{"A"}}},
		{ID: "contact", Question: "You", Field: wizard.PersonalInfoField("contact")},
	}, wizard.NewConfig(wizard.WithCompletionPolicy(wizard.ShowPostSubmissionView)))
	require.NoError(t, err)

	s, err := previewState(m, "step", 1)
	require.NoError(t, err)
	assert.Equal(t, wizard.PhaseStep, s.Phase)
	assert.Equal(t, 1, s.CurrentStepIndex)

	s, err = previewState(m, "success", 0)
	require.NoError(t, err)
	assert.True(t, s.ShowcaseVisible)

	_, err = previewState(m, "step", 5)
	assert.Error(t, err)
	_, err = previewState(m, "done", 0)
	assert.Error(t, err)
}
