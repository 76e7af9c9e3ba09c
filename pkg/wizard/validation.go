package wizard

// IsStepValid reports whether the answer recorded for steps[i] lets the user
// move on. Optional steps are always valid. Required checkbox steps need a
// non-empty selection, composite steps need every required sub-field, and all
// other steps need a defined, non-empty string.
func IsStepValid(steps []Step, data FormData, i int) bool {
	if i < 0 || i >= len(steps) {
		return false
	}
	step := steps[i]
	if !step.Field.Required {
		return true
	}

	value, ok := data[step.ID]
	if !ok || value == nil {
		return false
	}

	switch step.Field.FieldType {
	case FieldTypeCheckbox:
		return len(asStrings(value)) > 0
	case FieldTypeForm:
		return compositeComplete(step.Field, asFieldMap(value))
	default:
		s, ok := value.(string)
		return ok && s != ""
	}
}

// RequiredSubFields returns the sub-field names a composite field must have
// filled. Composites without declared sub-fields use PersonalInfoFields.
func RequiredSubFields(field FieldSpec) []string {
	if len(field.Fields) == 0 {
		return append([]string(nil), PersonalInfoFields...)
	}
	var names []string
	for _, sub := range field.Fields {
		if sub.Required {
			names = append(names, sub.FieldName)
		}
	}
	return names
}

func compositeComplete(field FieldSpec, values map[string]string) bool {
	if values == nil {
		return false
	}
	for _, name := range RequiredSubFields(field) {
		if values[name] == "" {
			return false
		}
	}
	return true
}
