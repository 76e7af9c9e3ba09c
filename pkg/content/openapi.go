package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-leadwizard/pkg/wizard"
)

// orderExtensionKey lets schema properties declare their step position.
const orderExtensionKey = "x-step-order"

// StepsFromOpenAPI builds steps from the JSON request body of operationID.
// Each top-level property becomes a step: enums become radio steps, arrays of
// enums checkbox steps, objects composite steps, and string formats map to
// email/tel inputs. Properties are ordered by x-step-order, then by name.
func StepsFromOpenAPI(ctx context.Context, raw []byte, operationID string) ([]wizard.Step, error) {
	if len(raw) == 0 {
		return nil, errors.New("content openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("content openapi: load document: %w", err)
	}

	op := findOperation(doc, operationID)
	if op == nil {
		return nil, fmt.Errorf("content openapi: operation %q not found", operationID)
	}
	schema := requestSchema(op)
	if schema == nil || len(schema.Properties) == 0 {
		return nil, fmt.Errorf("content openapi: operation %q has no object request body", operationID)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := stepOrder(schema.Properties[names[i]]), stepOrder(schema.Properties[names[j]])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})

	steps := make([]wizard.Step, 0, len(names))
	for _, name := range names {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		question := sanitizeText(prop.Value.Title)
		if question == "" {
			question = sanitizeText(prop.Value.Description)
		}
		if question == "" {
			question = name
		}
		steps = append(steps, wizard.Step{
			ID:       name,
			Question: question,
			Field:    fieldFromSchema(name, prop.Value, required[name]),
		})
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: operation %q", ErrNoForms, operationID)
	}
	return steps, nil
}

// NewOpenAPIStepBuilder loads src and builds steps for operationID.
func NewOpenAPIStepBuilder(loader *Loader, src Source, operationID string) wizard.StepBuilder {
	return func(ctx context.Context) ([]wizard.Step, error) {
		if loader == nil {
			loader = NewLoader()
		}
		raw, err := loader.Load(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
		return StepsFromOpenAPI(ctx, raw, operationID)
	}
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	mt, ok := content["application/json"]
	if !ok {
		for _, candidate := range content {
			mt = candidate
			break
		}
	}
	if mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

func fieldFromSchema(name string, schema *openapi3.Schema, required bool) wizard.FieldSpec {
	field := wizard.FieldSpec{
		FieldName: name,
		Label:     schema.Title,
		Required:  required,
	}

	switch {
	case schemaIs(schema, "object"):
		field.FieldType = wizard.FieldTypeForm
		subRequired := make(map[string]bool, len(schema.Required))
		for _, n := range schema.Required {
			subRequired[n] = true
		}
		subNames := make([]string, 0, len(schema.Properties))
		for n := range schema.Properties {
			subNames = append(subNames, n)
		}
		sort.Strings(subNames)
		for _, n := range subNames {
			ref := schema.Properties[n]
			if ref == nil || ref.Value == nil {
				continue
			}
			field.Fields = append(field.Fields, fieldFromSchema(n, ref.Value, subRequired[n]))
		}
	case schemaIs(schema, "array"):
		field.FieldType = wizard.FieldTypeCheckbox
		if schema.Items != nil && schema.Items.Value != nil {
			field.Options = enumStrings(schema.Items.Value.Enum)
		}
	case len(schema.Enum) > 0:
		field.FieldType = wizard.FieldTypeRadio
		field.Options = enumStrings(schema.Enum)
	default:
		switch strings.ToLower(schema.Format) {
		case "email":
			field.FieldType = wizard.FieldTypeEmail
		case "tel", "phone":
			field.FieldType = wizard.FieldTypeTel
		case "textarea":
			field.FieldType = wizard.FieldTypeTextarea
		default:
			field.FieldType = wizard.FieldTypeText
		}
	}
	return field
}

func schemaIs(schema *openapi3.Schema, typ string) bool {
	if schema == nil || schema.Type == nil {
		return false
	}
	for _, candidate := range schema.Type.Slice() {
		if candidate == typ {
			return true
		}
	}
	return false
}

func enumStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func stepOrder(ref *openapi3.SchemaRef) float64 {
	if ref == nil || ref.Value == nil {
		return 0
	}
	switch v := ref.Value.Extensions[orderExtensionKey].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case json.RawMessage:
		var f float64
		_ = json.Unmarshal(v, &f)
		return f
	default:
		return 0
	}
}
