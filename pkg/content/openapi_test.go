package content_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadwizard/pkg/content"
	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

func TestStepsFromOpenAPI(t *testing.T) {
	steps, err := content.StepsFromOpenAPI(context.Background(), readFixture(t, "openapi.json"), "createInquiry")
	if err != nil {
		t.Fatalf("steps: %v", err)
	}

	want := []wizard.Step{
		{
			ID:       "model",
			Question: "Model",
			Field: wizard.FieldSpec{
				FieldName: "model",
				FieldType: wizard.FieldTypeRadio,
				Label:     "Model",
				Required:  true,
				Options:   []string{"Aurora", "Boreal"},
			},
		},
		{
			ID:       "extras",
			Question: "extras",
			Field: wizard.FieldSpec{
				FieldName: "extras",
				FieldType: wizard.FieldTypeCheckbox,
				Options:   []string{"Tow hitch", "Roof rack"},
			},
		},
		{
			ID:       "notes",
			Question: "Anything else?",
			Field: wizard.FieldSpec{
				FieldName: "notes",
				FieldType: wizard.FieldTypeTextarea,
				Label:     "Anything else?",
			},
		},
		{
			ID:       "contact",
			Question: "Contact",
			Field: wizard.FieldSpec{
				FieldName: "contact",
				FieldType: wizard.FieldTypeForm,
				Label:     "Contact",
				Required:  true,
				Fields: []wizard.FieldSpec{
					{FieldName: "email", FieldType: wizard.FieldTypeEmail, Required: true},
					{FieldName: "phone", FieldType: wizard.FieldTypeTel},
				},
			},
		},
	}
	if diff := cmp.Diff(want, steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestStepsFromOpenAPI_UnknownOperation(t *testing.T) {
	if _, err := content.StepsFromOpenAPI(context.Background(), readFixture(t, "openapi.json"), "missing"); err == nil {
		t.Fatalf("expected error for unknown operation")
	}
}

func TestNewOpenAPIStepBuilder(t *testing.T) {
	build := content.NewOpenAPIStepBuilder(content.NewLoader(), content.SourceFromFile("testdata/openapi.json"), "createInquiry")
	steps, err := build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(steps) == 0 || steps[0].ID != "model" {
		t.Fatalf("unexpected steps: %+v", steps)
	}
	if _, err := wizard.NewMachine(steps, wizard.NewConfig()); err != nil {
		t.Fatalf("machine: %v", err)
	}
}

func TestNewOpenAPIStepBuilder_LoadFailure(t *testing.T) {
	build := content.NewOpenAPIStepBuilder(content.NewLoader(), content.SourceFromFile("testdata/absent.json"), "createInquiry")
	_, err := build(context.Background())
	if !errors.Is(err, content.ErrLoadFailed) {
		t.Fatalf("expected ErrLoadFailed, got %v", err)
	}
}
