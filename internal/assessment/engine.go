package assessment

import "strings"

// Result is the report produced for one analysis.
type Result struct {
	Activity        string   `json:"activity"`
	Environment     string   `json:"environment"`
	Risks           []string `json:"risks"`
	AdvisoryMessage string   `json:"advisory_message"`
}

// Narration returns the spoken form of the report.
func (r Result) Narration() string {
	parts := []string{
		r.Activity,
		r.Environment,
		strings.ReplaceAll(r.AdvisoryMessage, "\n", " "),
	}
	return strings.Join(parts, " ")
}

// Dangerous reports whether any risk was raised.
func (r Result) Dangerous() bool {
	return len(r.Risks) > 0
}

// Evaluation is the full outcome of one analysis: the normalized
// detections, the matched situations and the report.
type Evaluation struct {
	Detections Detections
	Match      Match
	Result     Result
}

// Config carries the injectable tables of an Engine. Zero values fall back
// to an empty catalog, an empty vocabulary, no combinations and the default
// phrases. Vocabulary and Combinations are normalized on construction and
// invalid entries are dropped.
type Config struct {
	Catalog      *Catalog
	Vocabulary   Vocabulary
	Combinations []Combination
	Phrases      Phrases
	Mode         MatchMode
}

// Engine runs the detection-to-report pipeline. It is immutable and safe
// for concurrent use.
type Engine struct {
	catalog      *Catalog
	classifier   *Classifier
	narrator     *Narrator
	vocabulary   Vocabulary
	combinations []Combination
	phrases      Phrases
	mode         MatchMode
}

// New builds an Engine from cfg.
func New(cfg Config) *Engine {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = EmptyCatalog()
	}

	phrases := cfg.Phrases
	phrases.Merge(DefaultPhrases())

	vocabulary := cfg.Vocabulary.Normalized()

	return &Engine{
		catalog:      catalog,
		classifier:   NewClassifier(catalog, cfg.Mode),
		narrator:     NewNarrator(catalog, vocabulary, phrases, cfg.Mode),
		vocabulary:   vocabulary,
		combinations: NormalizeCombinations(cfg.Combinations),
		phrases:      phrases,
		mode:         cfg.Mode,
	}
}

// Default builds an Engine over the embedded catalog, vocabulary,
// combinations and phrases.
func Default() *Engine {
	return New(Config{
		Catalog:      DefaultCatalog(),
		Vocabulary:   DefaultVocabulary(),
		Combinations: DefaultCombinations(),
		Phrases:      DefaultPhrases(),
	})
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// WithCatalog returns a new Engine that keeps this engine's tables and
// match mode but classifies against c.
func (e *Engine) WithCatalog(c *Catalog) *Engine {
	return New(Config{
		Catalog:      c,
		Vocabulary:   e.vocabulary,
		Combinations: e.combinations,
		Phrases:      e.phrases,
		Mode:         e.mode,
	})
}

// Mode returns the engine's match mode.
func (e *Engine) Mode() MatchMode {
	return e.mode
}

// Classify normalizes the detections and returns the matched situations.
func (e *Engine) Classify(objects []Object, labels []Label) (Detections, Match) {
	d := Normalize(objects, labels)
	return d, e.classifier.Classify(d)
}

// Analyze produces the report for one set of detections. It never fails:
// sparse input yields the generic sentences and an empty risk list.
func (e *Engine) Analyze(objects []Object, labels []Label, signal *SafetySignal) Result {
	return e.Evaluate(objects, labels, signal).Result
}

// Evaluate runs the pipeline once and returns every intermediate along
// with the report. Risks list catalog labels in match order, then fired
// combinations, then safety flags.
func (e *Engine) Evaluate(objects []Object, labels []Label, signal *SafetySignal) Evaluation {
	d, m := e.Classify(objects, labels)

	risks := newKeySet()
	for _, key := range m.Ordered() {
		if s, ok := e.catalog.Lookup(key); ok {
			risks.add(s.RiskLabel)
		}
	}
	for _, c := range e.combinations {
		if c.fires(d, m, e.mode) {
			risks.add(c.RiskLabel)
		}
	}

	result := Result{
		Activity:        e.narrator.DescribeActivity(m),
		Environment:     e.narrator.DescribeEnvironment(d),
		Risks:           risks.order,
		AdvisoryMessage: e.narrator.ComposeAdvisory(m, d),
	}
	result.Risks = append(result.Risks, EvaluateSafety(signal, e.phrases)...)

	return Evaluation{Detections: d, Match: m, Result: result}
}
