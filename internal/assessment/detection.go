// Package assessment turns raw vision output (object names, scene labels,
// and safe-search likelihoods) into a deterministic, human-readable report.
//
// The package is pure: it performs no I/O, holds no mutable state after
// construction, and never fails. An Engine may be shared by any number of
// goroutines.
package assessment

import (
	"encoding/json"
	"strconv"
	"strings"
)

const personToken = "person"

// Object is a localized-object detection reported by the vision provider.
type Object struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts an object with a name field or a bare string.
// Non-string names are coerced to text; anything else decodes to an empty
// name, which Normalize drops.
func (o *Object) UnmarshalJSON(data []byte) error {
	o.Name = decodeToken(data, "name")
	return nil
}

// Label is a scene-label detection reported by the vision provider.
type Label struct {
	Description string `json:"description"`
}

// UnmarshalJSON accepts an object with a description field or a bare string.
func (l *Label) UnmarshalJSON(data []byte) error {
	l.Description = decodeToken(data, "description")
	return nil
}

// Detections is the normalized view of one request's detections.
// All holds objects followed by labels, lower-cased, in provider order and
// with repeats kept. Objects holds only the normalized object tokens.
type Detections struct {
	All         []string `json:"all"`
	Objects     []string `json:"objects"`
	PersonCount int      `json:"person_count"`
}

// Normalize lower-cases and concatenates objects then labels.
// Blank tokens are dropped; nothing is deduplicated.
func Normalize(objects []Object, labels []Label) Detections {
	d := Detections{
		All:     make([]string, 0, len(objects)+len(labels)),
		Objects: make([]string, 0, len(objects)),
	}

	for _, o := range objects {
		token := normalizeToken(o.Name)
		if token == "" {
			continue
		}
		d.Objects = append(d.Objects, token)
		d.All = append(d.All, token)
		if token == personToken {
			d.PersonCount++
		}
	}

	for _, l := range labels {
		if token := normalizeToken(l.Description); token != "" {
			d.All = append(d.All, token)
		}
	}

	return d
}

// ObjectsFromNames wraps plain names as Objects.
func ObjectsFromNames(names ...string) []Object {
	objects := make([]Object, len(names))
	for i, n := range names {
		objects[i] = Object{Name: n}
	}
	return objects
}

// LabelsFromDescriptions wraps plain descriptions as Labels.
func LabelsFromDescriptions(descriptions ...string) []Label {
	labels := make([]Label, len(descriptions))
	for i, d := range descriptions {
		labels[i] = Label{Description: d}
	}
	return labels
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func decodeToken(data []byte, field string) string {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return ""
	}

	if obj, ok := raw.(map[string]any); ok {
		raw = obj[field]
	}

	return coerceToken(raw)
}

func coerceToken(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
