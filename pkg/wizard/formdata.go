package wizard

import "sort"

// FormData maps Step.ID to the recorded answer. Values are a string, a
// []string for checkbox steps, or a map[string]string for composite steps.
type FormData map[string]any

// Clone returns a deep copy so reducers never share backing storage between
// states.
func (d FormData) Clone() FormData {
	out := make(FormData, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

// String returns the answer for id when it is a plain string.
func (d FormData) String(id string) (string, bool) {
	v, ok := d[id]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// List returns the answer for id as a list of selected options.
func (d FormData) List(id string) []string {
	return asStrings(d[id])
}

// Fields returns the sub-field values of a composite answer.
func (d FormData) Fields(id string) map[string]string {
	return asFieldMap(d[id])
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		return asStrings(typed)
	case map[string]string:
		clone := make(map[string]string, len(typed))
		for k, v := range typed {
			clone[k] = v
		}
		return clone
	case map[string]any:
		return asFieldMap(typed)
	default:
		return typed
	}
}

func asStrings(value any) []string {
	switch typed := value.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func asFieldMap(value any) map[string]string {
	switch typed := value.(type) {
	case map[string]string:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			out[k] = v
		}
		return out
	case map[string]any:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out
	default:
		return nil
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
