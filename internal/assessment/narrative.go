package assessment

import "strings"

// Narrator renders the three text fields of a Result.
type Narrator struct {
	catalog    *Catalog
	vocabulary Vocabulary
	phrases    Phrases
	mode       MatchMode
}

// NewNarrator returns a narrator over the given tables. The vocabulary is
// normalized first.
func NewNarrator(catalog *Catalog, vocabulary Vocabulary, phrases Phrases, mode MatchMode) *Narrator {
	return &Narrator{
		catalog:    catalog,
		vocabulary: vocabulary.Normalized(),
		phrases:    phrases,
		mode:       mode,
	}
}

// DescribeActivity lists the risk labels of the matched situations,
// excluding the solitary flag, first-seen order and deduplicated.
func (n *Narrator) DescribeActivity(m Match) string {
	labels := newKeySet()
	for _, key := range m.Keys {
		if s, ok := n.catalog.Lookup(key); ok {
			labels.add(s.RiskLabel)
		}
	}

	if len(labels.order) == 0 {
		return n.phrases.NoActivity
	}
	return n.phrases.items(n.phrases.ActivityTemplate, labels.order)
}

// DescribeEnvironment lists the environment phrases present in the
// detections in category order, independent of the classifier.
func (n *Narrator) DescribeEnvironment(d Detections) string {
	phrases := newKeySet()
	for _, term := range n.vocabulary.Environment {
		if n.present(d, term.Token) {
			phrases.add(term.Phrase)
		}
	}

	if len(phrases.order) == 0 {
		return n.phrases.NoEnvironment
	}
	return n.phrases.items(n.phrases.EnvironmentTemplate, phrases.order)
}

// ComposeAdvisory joins, one per line: the people clause, the activity
// clause, then the advisory of every matched situation in match order.
// An empty match replaces the advisories with the all-normal sentence.
func (n *Narrator) ComposeAdvisory(m Match, d Detections) string {
	lines := make([]string, 0, len(m.Keys)+3)

	if d.PersonCount > 0 {
		lines = append(lines, n.phrases.people(d.PersonCount))
	}

	if activities := n.activities(d); len(activities) > 0 {
		lines = append(lines, n.phrases.items(n.phrases.ActivityClause, activities))
	}

	if m.Empty() {
		lines = append(lines, n.phrases.AllNormal)
		return strings.Join(lines, "\n")
	}

	advised := 0
	for _, key := range m.Ordered() {
		s, ok := n.catalog.Lookup(key)
		if !ok || s.Advisory == "" {
			continue
		}
		lines = append(lines, s.Advisory)
		advised++
	}

	if advised == 0 {
		lines = append(lines, n.phrases.AllNormal)
	}

	return strings.Join(lines, "\n")
}

func (n *Narrator) activities(d Detections) []string {
	phrases := newKeySet()
	for _, term := range n.vocabulary.Activities {
		if n.present(d, term.Token) {
			phrases.add(term.Phrase)
		}
	}
	return phrases.order
}

func (n *Narrator) present(d Detections, token string) bool {
	for _, t := range d.All {
		if n.mode.matches(t, token) {
			return true
		}
	}
	return false
}
