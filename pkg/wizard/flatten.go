package wizard

import "strings"

// ListSeparator joins multi-select answers into a single value.
const ListSeparator = ", "

// Flatten converts form data into ordered response records, one per answered
// step (one per sub-field for composite steps). Unanswered steps are skipped.
func Flatten(steps []Step, data FormData) []Response {
	var out []Response
	for i, step := range steps {
		value, ok := data[step.ID]
		if !ok || value == nil {
			continue
		}
		name := step.Field.FieldName
		if name == "" {
			name = step.ID
		}

		switch step.Field.FieldType {
		case FieldTypeForm:
			fields := asFieldMap(value)
			for _, sub := range subFieldOrder(step.Field, fields) {
				out = append(out, Response{
					FieldName:    sub.FieldName,
					FieldType:    string(sub.FieldType),
					Value:        fields[sub.FieldName],
					SectionIndex: i,
				})
			}
		default:
			out = append(out, Response{
				FieldName:    name,
				FieldType:    string(step.Field.FieldType),
				Value:        stringify(value),
				SectionIndex: i,
			})
		}
	}
	return out
}

// FlattenInquiry converts form data into the flat key/value object posted by
// inquiry-style wizards. Composite sub-fields are merged at the top level.
func FlattenInquiry(steps []Step, data FormData) map[string]string {
	out := make(map[string]string)
	for _, step := range steps {
		value, ok := data[step.ID]
		if !ok || value == nil {
			continue
		}
		if step.Field.FieldType == FieldTypeForm {
			for k, v := range asFieldMap(value) {
				out[k] = v
			}
			continue
		}
		out[step.ID] = stringify(value)
	}
	return out
}

// subFieldOrder lists declared sub-fields first, then any extra recorded keys
// in name order.
func subFieldOrder(field FieldSpec, values map[string]string) []FieldSpec {
	var ordered []FieldSpec
	seen := make(map[string]struct{}, len(field.Fields))
	for _, sub := range field.Fields {
		seen[sub.FieldName] = struct{}{}
		if _, ok := values[sub.FieldName]; ok {
			ordered = append(ordered, sub)
		}
	}
	for _, key := range sortedKeys(values) {
		if _, ok := seen[key]; ok {
			continue
		}
		ordered = append(ordered, FieldSpec{FieldName: key, FieldType: FieldTypeText})
	}
	return ordered
}

func stringify(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case []string, []any:
		return strings.Join(asStrings(typed), ListSeparator)
	default:
		return ""
	}
}
