package wizard

// FieldType enumerates the input kinds a step can collect.
type FieldType string

const (
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSelect   FieldType = "select"
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeTextarea FieldType = "textarea"
	// FieldTypeForm marks a composite step whose answer is a set of named
	// sub-field values (for example the personal-info step).
	FieldTypeForm FieldType = "form"
)

// IsChoice reports whether the type selects from a fixed option list.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeRadio, FieldTypeCheckbox, FieldTypeSelect:
		return true
	default:
		return false
	}
}

// FieldSpec describes how a step renders and validates its answer. Options is
// the exhaustive, ordered list of choices for choice types; Fields lists the
// sub-fields of a composite step.
type FieldSpec struct {
	FieldName string      `json:"fieldName" yaml:"fieldName"`
	FieldType FieldType   `json:"fieldType" yaml:"fieldType"`
	Label     string      `json:"label,omitempty" yaml:"label,omitempty"`
	Required  bool        `json:"required" yaml:"required"`
	Options   []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Fields    []FieldSpec `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Step is one screen of the wizard. ID is unique within a run and keys the
// answer in FormData.
type Step struct {
	ID       string    `json:"id" yaml:"id"`
	Question string    `json:"question" yaml:"question"`
	Field    FieldSpec `json:"field" yaml:"field"`
	Image    string    `json:"image,omitempty" yaml:"image,omitempty"`
}

// HasOption reports whether value is one of the step's declared options.
func (s Step) HasOption(value string) bool {
	for _, option := range s.Field.Options {
		if option == value {
			return true
		}
	}
	return false
}

// Personal-info sub-field names.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldCountry   = "country"
)

// PersonalInfoFields lists the sub-fields a composite step requires when it
// does not declare its own.
var PersonalInfoFields = []string{FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldCountry}

// PersonalInfoField returns the composite FieldSpec used by the contact
// step of both the survey and inquiry flows.
func PersonalInfoField(name string) FieldSpec {
	return FieldSpec{
		FieldName: name,
		FieldType: FieldTypeForm,
		Required:  true,
		Fields: []FieldSpec{
			{FieldName: FieldFirstName, FieldType: FieldTypeText, Label: "First name", Required: true},
			{FieldName: FieldLastName, FieldType: FieldTypeText, Label: "Last name", Required: true},
			{FieldName: FieldEmail, FieldType: FieldTypeEmail, Label: "Email", Required: true},
			{FieldName: FieldPhone, FieldType: FieldTypeTel, Label: "Phone", Required: true},
			{FieldName: FieldCountry, FieldType: FieldTypeSelect, Label: "Country", Required: true},
		},
	}
}

// Response is one flattened answer handed to the submission endpoint.
type Response struct {
	FieldName    string `json:"fieldName"`
	FieldType    string `json:"fieldType"`
	Value        string `json:"value"`
	SectionIndex int    `json:"sectionIndex"`
}

// Submission is the payload a Submitter receives. Responses carries the
// survey shape, Fields the flat inquiry shape; submitters pick the one their
// endpoint expects.
type Submission struct {
	Endpoint  string
	Responses []Response
	Fields    map[string]string
}

// Result is what a successful submission reports back.
type Result struct {
	ResponseID string
}
