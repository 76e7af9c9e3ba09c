package views_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-leadwizard/pkg/content"
	"github.com/goliatone/go-leadwizard/pkg/views"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

func testMachine(t *testing.T, policy wizard.CompletionPolicy) *wizard.Machine {
	t.Helper()
	steps := []wizard.Step{
		{
			ID:       "model",
			Question: "Which model?",
			Field: wizard.FieldSpec{
				FieldName: "model",
				FieldType: wizard.FieldTypeRadio,
				Required:  true,
				Options:   []string{"Aurora", "Boreal"},
			},
		},
		{ID: "contact", Question: "About you", Field: wizard.PersonalInfoField("contact")},
	}
	m, err := wizard.NewMachine(steps, wizard.NewConfig(wizard.WithCompletionPolicy(policy)))
	if err != nil {
		t.Fatalf("machine: %v", err)
	}
	return m
}

func newRenderer(t *testing.T, opts ...views.PageOption) *views.Renderer {
	t.Helper()
	engine, err := views.New()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return views.NewRenderer(engine, opts...)
}

func render(t *testing.T, r *views.Renderer, m *wizard.Machine, s wizard.State) string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.Render(&buf, m, s); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func assertContains(t *testing.T, html string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(html, part) {
			t.Fatalf("expected output to contain %q\n%s", part, html)
		}
	}
}

func TestRender_Hero(t *testing.T) {
	m := testMachine(t, wizard.ResetToHero)
	r := newRenderer(t, views.WithHero(content.Hero{Title: "Drive the future", CTA: "Book a test drive", Media: "/hero.jpg"}))

	html := render(t, r, m, m.Initial())
	assertContains(t, html, `wizard--hero`, "Drive the future", "Book a test drive", `src="/hero.jpg"`)
}

func TestRender_StepControls(t *testing.T) {
	m := testMachine(t, wizard.ResetToHero)
	r := newRenderer(t)

	s := m.Reduce(m.Initial(), wizard.Start{})
	html := render(t, r, m, s)
	assertContains(t, html, "Which model?", "Step 1 of 2", `value="Aurora"`, `value="next" disabled`)

	s = m.Reduce(s, wizard.Answer{StepID: "model", Value: "Boreal"})
	html = render(t, r, m, s)
	assertContains(t, html, `value="Boreal" checked`)
	if strings.Contains(html, `value="next" disabled`) {
		t.Fatalf("next should be enabled after a valid answer")
	}
}

func TestRender_CompositeAndError(t *testing.T) {
	m := testMachine(t, wizard.ResetToHero)
	r := newRenderer(t, views.WithFieldOptions(wizard.FieldCountry, []string{"Norway", "Spain"}))

	s := m.Reduce(m.Initial(), wizard.Start{})
	s = m.Reduce(s, wizard.Answer{StepID: "model", Value: "Aurora"})
	s = m.Reduce(s, wizard.Next{})
	for field, value := range map[string]string{
		wizard.FieldFirstName: "Ada",
		wizard.FieldLastName:  "Lovelace",
		wizard.FieldEmail:     "ada@example.com",
		wizard.FieldPhone:     "555",
		wizard.FieldCountry:   "Spain",
	} {
		s = m.Reduce(s, wizard.AnswerField{StepID: "contact", Field: field, Value: value})
	}
	s = m.Reduce(s, wizard.Submit{})
	if s.Phase != wizard.PhaseSubmitting {
		t.Fatalf("expected submitting, got %s", s.Phase)
	}
	s = m.Reduce(s, wizard.SubmitFailed{Message: "<b>Denied</b>"})

	html := render(t, r, m, s)
	assertContains(t, html,
		`name="contact.email" value="ada@example.com"`,
		`<option value="Spain" selected>`,
		`<option value="Norway">`,
		"Submit",
		"&lt;b&gt;Denied&lt;/b&gt;",
	)
}

func TestRender_Success(t *testing.T) {
	m := testMachine(t, wizard.ShowPostSubmissionView)
	r := newRenderer(t, views.WithHero(content.Hero{Title: "Aurora"}))

	s := wizard.State{
		Phase:            wizard.PhaseSuccess,
		SubmissionStatus: wizard.StatusSuccess,
		Message:          "Thanks!",
		ResponseID:       "abc",
		ShowcaseVisible:  true,
	}
	html := render(t, r, m, s)
	assertContains(t, html, "Thanks!", "Reference: abc", "wizard-showcase")
}

func TestRenderError(t *testing.T) {
	r := newRenderer(t, views.WithLoadErrorMessage("Form unavailable"))
	var buf bytes.Buffer
	if err := r.RenderError(&buf); err != nil {
		t.Fatalf("render error: %v", err)
	}
	assertContains(t, buf.String(), "Form unavailable", `role="alert"`)
}

func TestEngine_CustomFS(t *testing.T) {
	files := fstest.MapFS{
		"hero.tpl": {Data: []byte(`custom {{ hero.title }}`)},
	}
	engine, err := views.New(views.WithFS(files))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	m := testMachine(t, wizard.ResetToHero)
	r := views.NewRenderer(engine, views.WithHero(content.Hero{Title: "X"}))

	if got := render(t, r, m, m.Initial()); got != "custom X" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_BaseDirOverridesTemplate(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hero.tpl"), []byte(`local {{ hero.title }}`), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	engine, err := views.New(views.WithBaseDir(dir))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	r := views.NewRenderer(engine, views.WithHero(content.Hero{Title: "X"}), views.WithLoadErrorMessage("Down"))

	m := testMachine(t, wizard.ResetToHero)
	if got := render(t, r, m, m.Initial()); got != "local X" {
		t.Fatalf("unexpected output %q", got)
	}

	// templates missing from dir come from the built-in set
	var buf bytes.Buffer
	if err := r.RenderError(&buf); err != nil {
		t.Fatalf("render error: %v", err)
	}
	assertContains(t, buf.String(), "Down", `role="alert"`)
}

func TestTemplateFor(t *testing.T) {
	tests := map[wizard.Phase]string{
		wizard.PhaseHero:       views.TemplateHero,
		wizard.PhaseStep:       views.TemplateStep,
		wizard.PhaseSubmitting: views.TemplateStep,
		wizard.PhaseSuccess:    views.TemplateSuccess,
	}
	for phase, want := range tests {
		if got := views.TemplateFor(wizard.State{Phase: phase}); got != want {
			t.Fatalf("phase %s: expected %s, got %s", phase, want, got)
		}
	}
}
