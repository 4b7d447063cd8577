package assessment_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/JaimeStill/vigil/internal/assessment"
)

func TestNewCatalog(t *testing.T) {
	t.Run("normalizes keys and keeps order", func(t *testing.T) {
		c, err := assessment.NewCatalog([]assessment.Situation{
			{Key: " Stairs ", RiskLabel: "on stairs", Advisory: "hold the rail"},
			{Key: "KNIFE", RiskLabel: "knife"},
		})
		if err != nil {
			t.Fatalf("NewCatalog: %v", err)
		}

		if got := c.Keys(); !slices.Equal(got, []string{"stairs", "knife"}) {
			t.Errorf("Keys = %v", got)
		}

		s, ok := c.Lookup("stairs")
		if !ok || s.RiskLabel != "on stairs" {
			t.Errorf("Lookup(stairs) = %+v, %v", s, ok)
		}
	})

	tests := []struct {
		name       string
		situations []assessment.Situation
	}{
		{"empty key", []assessment.Situation{{Key: " ", RiskLabel: "x"}}},
		{"empty risk label", []assessment.Situation{{Key: "knife"}}},
		{"duplicate after normalization", []assessment.Situation{
			{Key: "knife", RiskLabel: "a"},
			{Key: "Knife", RiskLabel: "b"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := assessment.NewCatalog(tt.situations)
			if !errors.Is(err, assessment.ErrInvalidCatalog) {
				t.Errorf("err = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func TestCatalogCopies(t *testing.T) {
	c, err := assessment.NewCatalog([]assessment.Situation{{Key: "knife", RiskLabel: "knife"}})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	rows := c.Situations()
	rows[0].RiskLabel = "mutated"

	if s, _ := c.Lookup("knife"); s.RiskLabel != "knife" {
		t.Errorf("catalog mutated through Situations copy: %q", s.RiskLabel)
	}
}

func TestNilCatalog(t *testing.T) {
	var c *assessment.Catalog
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
	if _, ok := c.Lookup("knife"); ok {
		t.Error("Lookup on nil catalog reported a match")
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := assessment.DefaultCatalog()

	if c.Len() != 16 {
		t.Errorf("Len = %d, want 16", c.Len())
	}

	for _, key := range []string{"knife", "kitchen", "stairs", assessment.AloneKey, "wet"} {
		s, ok := c.Lookup(key)
		if !ok {
			t.Errorf("missing key %q", key)
			continue
		}
		if s.Advisory == "" {
			t.Errorf("key %q has no advisory", key)
		}
	}
}
