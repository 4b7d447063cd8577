package assessment_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/JaimeStill/vigil/internal/assessment"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		objects     []string
		labels      []string
		wantAll     []string
		wantObjects []string
		wantPeople  int
	}{
		{"empty", nil, nil, []string{}, []string{}, 0},
		{
			"objects then labels lower-cased",
			[]string{"Person", "Knife"},
			[]string{"Kitchen"},
			[]string{"person", "knife", "kitchen"},
			[]string{"person", "knife"},
			1,
		},
		{
			"repeats kept",
			[]string{"person", "PERSON"},
			[]string{"person"},
			[]string{"person", "person", "person"},
			[]string{"person", "person"},
			2,
		},
		{
			"labels do not count as people",
			nil,
			[]string{"Person"},
			[]string{"person"},
			[]string{},
			0,
		},
		{
			"blank tokens dropped",
			[]string{"  ", "Ladder "},
			[]string{""},
			[]string{"ladder"},
			[]string{"ladder"},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := assessment.Normalize(
				assessment.ObjectsFromNames(tt.objects...),
				assessment.LabelsFromDescriptions(tt.labels...),
			)

			if !slices.Equal(d.All, tt.wantAll) {
				t.Errorf("All = %v, want %v", d.All, tt.wantAll)
			}
			if !slices.Equal(d.Objects, tt.wantObjects) {
				t.Errorf("Objects = %v, want %v", d.Objects, tt.wantObjects)
			}
			if d.PersonCount != tt.wantPeople {
				t.Errorf("PersonCount = %d, want %d", d.PersonCount, tt.wantPeople)
			}
		})
	}
}

func TestObjectUnmarshalLenient(t *testing.T) {
	input := `[{"name":"Knife"},"Person",{"name":42},{"name":true},{"name":null},{},null,{"name":["x"]}]`

	var objects []assessment.Object
	if err := json.Unmarshal([]byte(input), &objects); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var names []string
	for _, o := range objects {
		names = append(names, o.Name)
	}

	want := []string{"Knife", "Person", "42", "true", "", "", "", ""}
	if !slices.Equal(names, want) {
		t.Errorf("names = %q, want %q", names, want)
	}

	d := assessment.Normalize(objects, nil)
	if !slices.Equal(d.All, []string{"knife", "person", "42", "true"}) {
		t.Errorf("All = %v", d.All)
	}
}

func TestLabelUnmarshalLenient(t *testing.T) {
	input := `[{"description":"Kitchen","score":0.9},"Stairs",{"description":1.5}]`

	var labels []assessment.Label
	if err := json.Unmarshal([]byte(input), &labels); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []string{"Kitchen", "Stairs", "1.5"}
	for i, l := range labels {
		if l.Description != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, l.Description, want[i])
		}
	}
}
