package wizard

import "testing"

func TestIsStepValid(t *testing.T) {
	text := Step{ID: "name", Field: FieldSpec{FieldType: FieldTypeText, Required: true}}
	optional := Step{ID: "notes", Field: FieldSpec{FieldType: FieldTypeTextarea}}
	checkbox := Step{ID: "tags", Field: FieldSpec{FieldType: FieldTypeCheckbox, Required: true, Options: []string{"a", "b"}}}
	composite := Step{ID: "contact", Field: FieldSpec{FieldType: FieldTypeForm, Required: true}}

	full := map[string]string{
		FieldFirstName: "Ada",
		FieldLastName:  "Lovelace",
		FieldEmail:     "ada@example.com",
		FieldPhone:     "123",
		FieldCountry:   "UK",
	}
	missingPhone := map[string]string{
		FieldFirstName: "Ada",
		FieldLastName:  "Lovelace",
		FieldEmail:     "ada@example.com",
		FieldCountry:   "UK",
	}

	tests := []struct {
		name string
		step Step
		data FormData
		want bool
	}{
		{name: "optional empty", step: optional, data: FormData{}, want: true},
		{name: "text missing", step: text, data: FormData{}, want: false},
		{name: "text empty", step: text, data: FormData{"name": ""}, want: false},
		{name: "text nil", step: text, data: FormData{"name": nil}, want: false},
		{name: "text set", step: text, data: FormData{"name": "x"}, want: true},
		{name: "text wrong type", step: text, data: FormData{"name": []string{"x"}}, want: false},
		{name: "checkbox empty", step: checkbox, data: FormData{"tags": []string{}}, want: false},
		{name: "checkbox string", step: checkbox, data: FormData{"tags": "a"}, want: false},
		{name: "checkbox selected", step: checkbox, data: FormData{"tags": []string{"a"}}, want: true},
		{name: "checkbox any slice", step: checkbox, data: FormData{"tags": []any{"b"}}, want: true},
		{name: "composite full", step: composite, data: FormData{"contact": full}, want: true},
		{name: "composite missing phone", step: composite, data: FormData{"contact": missingPhone}, want: false},
		{name: "composite wrong type", step: composite, data: FormData{"contact": "Ada"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsStepValid([]Step{tt.step}, tt.data, 0)
			if got != tt.want {
				t.Fatalf("IsStepValid = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsStepValid_OutOfRange(t *testing.T) {
	steps := []Step{{ID: "a"}}
	if IsStepValid(steps, FormData{}, -1) || IsStepValid(steps, FormData{}, 1) {
		t.Fatalf("out of range index must be invalid")
	}
}

func TestRequiredSubFields_Declared(t *testing.T) {
	field := FieldSpec{
		FieldType: FieldTypeForm,
		Fields: []FieldSpec{
			{FieldName: "email", Required: true},
			{FieldName: "newsletter"},
		},
	}
	got := RequiredSubFields(field)
	if len(got) != 1 || got[0] != "email" {
		t.Fatalf("unexpected required sub-fields %v", got)
	}
}
