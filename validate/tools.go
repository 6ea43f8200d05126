package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/BrewMyTech/grok-mcp/grok"

	"github.com/xeipuuv/gojsonschema"
)

const rootField = "(root)"

// Schema is a compiled JSON Schema paired with the tool it belongs to.
// It is immutable once compiled and safe for concurrent use.
type Schema struct {
	name   string
	doc    json.RawMessage
	schema *gojsonschema.Schema
	root   map[string]any
}

// Compile parses and compiles doc. Schemas are compiled once at startup;
// an error here is a programming error in the embedded schema documents.
func Compile(name string, doc []byte) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("internal schema error for tool '%s': %w", name, err)
	}

	root, err := decodeNumbers(doc)
	if err != nil {
		return nil, fmt.Errorf("internal schema error for tool '%s': %w", name, err)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("internal schema error for tool '%s': schema is not an object", name)
	}

	return &Schema{
		name:   name,
		doc:    json.RawMessage(doc),
		schema: compiled,
		root:   obj,
	}, nil
}

// MustCompile is Compile for package-level schema tables.
func MustCompile(name string, doc []byte) *Schema {
	s, err := Compile(name, doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Document returns the raw schema, as advertised to tool hosts.
func (s *Schema) Document() json.RawMessage { return s.doc }

// Arguments validates raw tool arguments. Every violation is reported, not
// only the first. On success the decoded object is returned with keys the
// schema does not declare removed.
func (s *Schema) Arguments(raw json.RawMessage) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	violations, err := s.check(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, grok.NewValidationError(grok.OriginArguments,
			fmt.Sprintf("Invalid arguments for tool '%s'", s.name),
			[]grok.Violation{{Path: rootField, Reason: err.Error()}})
	}
	if len(violations) > 0 {
		return nil, grok.NewValidationError(grok.OriginArguments,
			fmt.Sprintf("Invalid arguments for tool '%s'", s.name), violations)
	}

	decoded, err := decodeNumbers(raw)
	args, ok := decoded.(map[string]any)
	if err != nil || !ok {
		reason := "arguments must be an object"
		if err != nil {
			reason = err.Error()
		}
		return nil, grok.NewValidationError(grok.OriginArguments,
			fmt.Sprintf("Invalid arguments for tool '%s'", s.name),
			[]grok.Violation{{Path: rootField, Reason: reason}})
	}
	s.strip(s.root, args)
	return args, nil
}

// Response validates a payload returned by the upstream API. A failure here
// means the upstream sent something this client does not understand, so
// the error is tagged with grok.OriginResponse.
func (s *Schema) Response(body any) error {
	violations, err := s.check(gojsonschema.NewGoLoader(body))
	if err != nil {
		return grok.NewValidationError(grok.OriginResponse,
			fmt.Sprintf("Unexpected response from upstream for tool '%s'", s.name),
			[]grok.Violation{{Path: rootField, Reason: err.Error()}})
	}
	if len(violations) > 0 {
		return grok.NewValidationError(grok.OriginResponse,
			fmt.Sprintf("Unexpected response from upstream for tool '%s': payload does not match the expected shape", s.name),
			violations)
	}
	return nil
}

func (s *Schema) check(doc gojsonschema.JSONLoader) ([]grok.Violation, error) {
	result, err := s.schema.Validate(doc)
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]grok.Violation, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, grok.Violation{
			Path:   violationPath(desc),
			Reason: desc.Description(),
		})
	}
	return violations, nil
}

// violationPath points required and unknown-property errors at the
// property itself rather than at its parent object.
func violationPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	switch desc.Type() {
	case "required", "additional_property_not_allowed":
		prop, ok := desc.Details()["property"].(string)
		if !ok || prop == "" {
			return field
		}
		if field == rootField || field == "" {
			return prop
		}
		return field + "." + prop
	}
	return field
}

func decodeNumbers(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// strip removes, at every depth, object keys the schema node does not
// declare. Objects whose node has no "properties" keep all their keys.
func (s *Schema) strip(node map[string]any, v any) {
	node = s.resolve(node)
	if node == nil {
		return
	}
	if branches, ok := node["anyOf"].([]any); ok {
		if branch := s.pick(branches, v); branch != nil {
			s.strip(branch, v)
		}
		return
	}

	switch val := v.(type) {
	case map[string]any:
		if props, ok := node["properties"].(map[string]any); ok {
			for key, child := range val {
				sub, declared := props[key].(map[string]any)
				if !declared {
					delete(val, key)
					continue
				}
				s.strip(sub, child)
			}
			return
		}
		if extra, ok := node["additionalProperties"].(map[string]any); ok {
			for _, child := range val {
				s.strip(extra, child)
			}
		}
	case []any:
		if items, ok := node["items"].(map[string]any); ok {
			for _, elem := range val {
				s.strip(items, elem)
			}
		}
	}
}

// resolve follows local "#/..." references.
func (s *Schema) resolve(node map[string]any) map[string]any {
	for range 8 {
		ref, ok := node["$ref"].(string)
		if !ok {
			return node
		}
		if !strings.HasPrefix(ref, "#/") {
			return nil
		}
		var cur any = s.root
		for _, part := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = m[part]
		}
		if node, ok = cur.(map[string]any); !ok {
			return nil
		}
	}
	return nil
}

// pick returns the first union branch whose type and const or enum
// members agree with v.
func (s *Schema) pick(branches []any, v any) map[string]any {
	for _, b := range branches {
		branch, ok := b.(map[string]any)
		if !ok {
			continue
		}
		if branch = s.resolve(branch); branch != nil && s.agrees(branch, v, true) {
			return branch
		}
	}
	return nil
}

func (s *Schema) agrees(node map[string]any, v any, deep bool) bool {
	if want, ok := node["const"]; ok && !reflect.DeepEqual(want, v) {
		return false
	}
	if enum, ok := node["enum"].([]any); ok {
		found := false
		for _, e := range enum {
			if reflect.DeepEqual(e, v) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if t, ok := node["type"].(string); ok && !hasType(t, v) {
		return false
	}
	if branches, ok := node["anyOf"].([]any); ok {
		return s.pick(branches, v) != nil
	}

	obj, isObj := v.(map[string]any)
	props, hasProps := node["properties"].(map[string]any)
	if !deep || !isObj || !hasProps {
		return true
	}
	if required, ok := node["required"].([]any); ok {
		for _, r := range required {
			if key, _ := r.(string); key != "" {
				if _, present := obj[key]; !present {
					return false
				}
			}
		}
	}
	for key, child := range obj {
		sub, ok := props[key].(map[string]any)
		if !ok {
			continue
		}
		if sub = s.resolve(sub); sub != nil && !s.agrees(sub, child, false) {
			return false
		}
	}
	return true
}

func hasType(t string, v any) bool {
	switch t {
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "number":
		_, ok := v.(json.Number)
		return ok
	case "integer":
		n, ok := v.(json.Number)
		if !ok {
			return false
		}
		_, err := n.Int64()
		return err == nil
	case "null":
		return v == nil
	}
	return true
}
