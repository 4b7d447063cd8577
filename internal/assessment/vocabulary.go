package assessment

import (
	"fmt"
	"strconv"
	"strings"
)

// Category groups environment terms. Environment descriptions list
// categories in declaration order regardless of detection order.
type Category string

const (
	CategoryLighting Category = "lighting"
	CategoryWetness  Category = "wetness"
	CategoryRoom     Category = "room"
)

var categoryOrder = []Category{CategoryLighting, CategoryWetness, CategoryRoom}

func (c Category) rank() int {
	for i, cat := range categoryOrder {
		if c == cat {
			return i
		}
	}
	return -1
}

// EnvironmentTerm is a token that describes the surroundings rather than a hazard.
type EnvironmentTerm struct {
	Category Category `json:"category" toml:"category" yaml:"category"`
	Token    string   `json:"token" toml:"token" yaml:"token"`
	Phrase   string   `json:"phrase" toml:"phrase" yaml:"phrase"`
}

// ActivityTerm is a token indicating a common, non-hazardous activity.
type ActivityTerm struct {
	Token  string `json:"token" toml:"token" yaml:"token"`
	Phrase string `json:"phrase" toml:"phrase" yaml:"phrase"`
}

// Vocabulary holds the secondary token tables used by the narrative.
type Vocabulary struct {
	Environment []EnvironmentTerm `json:"environment" toml:"environment" yaml:"environment"`
	Activities  []ActivityTerm    `json:"activities" toml:"activities" yaml:"activities"`
}

// Validate normalizes tokens in place and rejects unknown categories and blank entries.
// Environment terms are stably regrouped into category order.
func (v *Vocabulary) Validate() error {
	for i, t := range v.Environment {
		if Category(normalizeToken(string(t.Category))).rank() < 0 {
			return fmt.Errorf("%w: environment term %d has unknown category %q", ErrInvalidVocabulary, i, t.Category)
		}
		if normalizeToken(t.Token) == "" || t.Phrase == "" {
			return fmt.Errorf("%w: environment term %d needs a token and phrase", ErrInvalidVocabulary, i)
		}
	}

	for i, t := range v.Activities {
		if normalizeToken(t.Token) == "" || t.Phrase == "" {
			return fmt.Errorf("%w: activity term %d needs a token and phrase", ErrInvalidVocabulary, i)
		}
	}

	*v = v.Normalized()
	return nil
}

// Normalized returns a copy with tokens lower-cased and environment terms
// stably grouped into category order. Terms Validate would reject are dropped.
func (v Vocabulary) Normalized() Vocabulary {
	grouped := make([][]EnvironmentTerm, len(categoryOrder))

	for _, t := range v.Environment {
		t.Token = normalizeToken(t.Token)
		t.Category = Category(normalizeToken(string(t.Category)))
		rank := t.Category.rank()
		if rank < 0 || t.Token == "" || t.Phrase == "" {
			continue
		}
		grouped[rank] = append(grouped[rank], t)
	}

	out := Vocabulary{}
	for _, g := range grouped {
		out.Environment = append(out.Environment, g...)
	}

	for _, t := range v.Activities {
		t.Token = normalizeToken(t.Token)
		if t.Token == "" || t.Phrase == "" {
			continue
		}
		out.Activities = append(out.Activities, t)
	}

	return out
}

// Phrases holds the fixed sentences of the narrative. Templates use the
// placeholders {items} and {count}.
type Phrases struct {
	ActivityTemplate    string `json:"activity_template" toml:"activity_template" yaml:"activity_template"`
	NoActivity          string `json:"no_activity" toml:"no_activity" yaml:"no_activity"`
	EnvironmentTemplate string `json:"environment_template" toml:"environment_template" yaml:"environment_template"`
	NoEnvironment       string `json:"no_environment" toml:"no_environment" yaml:"no_environment"`
	AllNormal           string `json:"all_normal" toml:"all_normal" yaml:"all_normal"`
	PeopleTemplate      string `json:"people_template" toml:"people_template" yaml:"people_template"`
	ActivityClause      string `json:"activity_clause" toml:"activity_clause" yaml:"activity_clause"`
	ViolenceRisk        string `json:"violence_risk" toml:"violence_risk" yaml:"violence_risk"`
	MedicalRisk         string `json:"medical_risk" toml:"medical_risk" yaml:"medical_risk"`
	Separator           string `json:"separator" toml:"separator" yaml:"separator"`
}

// DefaultPhrases returns the English phrase set.
func DefaultPhrases() Phrases {
	return Phrases{
		ActivityTemplate:    "Currently engaged in: {items}.",
		NoActivity:          "No notable activity detected.",
		EnvironmentTemplate: "The environment shows: {items}.",
		NoEnvironment:       "The environment shows no notable factors.",
		AllNormal:           "All appears normal.",
		PeopleTemplate:      "{count} person(s) present.",
		ActivityClause:      "Observed activity: {items}.",
		ViolenceRisk:        "Violent behavior detected",
		MedicalRisk:         "Medical hazard detected",
		Separator:           ", ",
	}
}

// Merge fills every empty field of p from fallback.
func (p *Phrases) Merge(fallback Phrases) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&p.ActivityTemplate, fallback.ActivityTemplate)
	fill(&p.NoActivity, fallback.NoActivity)
	fill(&p.EnvironmentTemplate, fallback.EnvironmentTemplate)
	fill(&p.NoEnvironment, fallback.NoEnvironment)
	fill(&p.AllNormal, fallback.AllNormal)
	fill(&p.PeopleTemplate, fallback.PeopleTemplate)
	fill(&p.ActivityClause, fallback.ActivityClause)
	fill(&p.ViolenceRisk, fallback.ViolenceRisk)
	fill(&p.MedicalRisk, fallback.MedicalRisk)
	fill(&p.Separator, fallback.Separator)
}

func (p Phrases) items(template string, items []string) string {
	return strings.ReplaceAll(template, "{items}", strings.Join(items, p.Separator))
}

func (p Phrases) people(count int) string {
	return strings.ReplaceAll(p.PeopleTemplate, "{count}", strconv.Itoa(count))
}
