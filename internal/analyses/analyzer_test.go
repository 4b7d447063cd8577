package analyses_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/JaimeStill/vigil/internal/analyses"
	"github.com/JaimeStill/vigil/internal/assessment"
	"github.com/JaimeStill/vigil/pkg/lifecycle"
	"github.com/JaimeStill/vigil/pkg/speech"
	"github.com/JaimeStill/vigil/pkg/vision"
)

type staticEngine struct {
	engine *assessment.Engine
}

func (s staticEngine) Engine() *assessment.Engine { return s.engine }

type fakeVision struct {
	annotateFn func(ctx context.Context, image []byte) (*vision.Annotation, error)
	calls      atomic.Int32
}

func (v *fakeVision) Start(lc *lifecycle.Coordinator) error { return nil }
func (v *fakeVision) Close() error                          { return nil }

func (v *fakeVision) Annotate(ctx context.Context, image []byte) (*vision.Annotation, error) {
	v.calls.Add(1)
	return v.annotateFn(ctx, image)
}

type fakeSpeech struct {
	text string
	err  error
}

func (s *fakeSpeech) Synthesize(ctx context.Context, text string) (*speech.Audio, error) {
	s.text = text
	if s.err != nil {
		return nil, s.err
	}
	return &speech.Audio{Data: []byte("ID3"), ContentType: speech.ContentType}, nil
}

func kitchenAnnotation() *vision.Annotation {
	return &vision.Annotation{
		Objects: []vision.Object{{Name: "Person", Score: 0.9}, {Name: "Knife", Score: 0.8}},
		Labels:  []vision.Label{{Description: "Kitchen", Score: 0.95}},
		SafeSearch: &vision.SafeSearch{
			Violence: "VERY_UNLIKELY",
			Medical:  "UNLIKELY",
		},
	}
}

func newAnalyzer(v vision.System, s speech.System) analyses.System {
	return analyses.New(staticEngine{assessment.Default()}, v, s, discard())
}

func TestCommandFromAnnotation(t *testing.T) {
	cmd := analyses.Command(kitchenAnnotation())

	if len(cmd.Objects) != 2 || cmd.Objects[1].Name != "Knife" {
		t.Errorf("objects = %+v", cmd.Objects)
	}
	if len(cmd.Labels) != 1 || cmd.Labels[0].Description != "Kitchen" {
		t.Errorf("labels = %+v", cmd.Labels)
	}
	if cmd.SafeSearch == nil || cmd.SafeSearch.Violence != assessment.LikelihoodVeryUnlikely {
		t.Errorf("safe search = %+v", cmd.SafeSearch)
	}

	bare := analyses.Command(&vision.Annotation{})
	if bare.SafeSearch != nil {
		t.Error("missing safe search should stay nil")
	}
}

func TestAnalyze(t *testing.T) {
	v := &fakeVision{
		annotateFn: func(_ context.Context, image []byte) (*vision.Annotation, error) {
			if !bytes.Equal(image, []byte("png")) {
				return nil, fmt.Errorf("unexpected image %q", image)
			}
			return kitchenAnnotation(), nil
		},
	}
	sys := newAnalyzer(v, &fakeSpeech{})

	analysis, err := sys.Analyze(context.Background(), []byte("png"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if analysis.Annotation == nil {
		t.Error("annotation should be attached")
	}
	if analysis.Detections.PersonCount != 1 {
		t.Errorf("person count = %d, want 1", analysis.Detections.PersonCount)
	}
	if !analysis.Result.Dangerous() {
		t.Errorf("risks = %v, want knife risk", analysis.Result.Risks)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	t.Run("no vision provider", func(t *testing.T) {
		sys := analyses.New(staticEngine{assessment.Default()}, nil, &fakeSpeech{}, discard())
		if _, err := sys.Analyze(context.Background(), []byte("png")); !errors.Is(err, analyses.ErrVisionUnavailable) {
			t.Errorf("err = %v, want ErrVisionUnavailable", err)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		v := &fakeVision{
			annotateFn: func(context.Context, []byte) (*vision.Annotation, error) {
				return nil, fmt.Errorf("%w: quota exceeded", vision.ErrAnnotate)
			},
		}
		_, err := newAnalyzer(v, &fakeSpeech{}).Analyze(context.Background(), []byte("png"))
		if !errors.Is(err, vision.ErrAnnotate) {
			t.Errorf("err = %v, want ErrAnnotate", err)
		}
	})
}

func TestAssessDetections(t *testing.T) {
	sys := newAnalyzer(nil, &fakeSpeech{})

	cmd := analyses.DetectionsCommand{
		Objects: assessment.ObjectsFromNames("Person"),
		Labels:  assessment.LabelsFromDescriptions("Stairs"),
		SafeSearch: &assessment.SafetySignal{
			Medical: assessment.LikelihoodLikely,
		},
	}
	analysis := sys.Assess(cmd)

	if analysis.Annotation != nil {
		t.Error("supplied detections carry no annotation")
	}

	want := assessment.Default().Evaluate(cmd.Objects, cmd.Labels, cmd.SafeSearch)
	if !reflect.DeepEqual(analysis.Detections, want.Detections) {
		t.Errorf("detections = %+v, want %+v", analysis.Detections, want.Detections)
	}
	if !reflect.DeepEqual(analysis.Result, want.Result) {
		t.Errorf("result = %+v, want %+v", analysis.Result, want.Result)
	}
	if len(analysis.Result.Risks) < 2 {
		t.Errorf("risks = %v, want stairs and medical", analysis.Result.Risks)
	}

	empty := sys.Assess(analyses.DetectionsCommand{})
	if empty.Result.Dangerous() {
		t.Errorf("empty detections raised %v", empty.Result.Risks)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	v := &fakeVision{
		annotateFn: func(_ context.Context, image []byte) (*vision.Annotation, error) {
			if string(image) == "broken" {
				return nil, fmt.Errorf("%w: bad image data", vision.ErrAnnotate)
			}
			return kitchenAnnotation(), nil
		},
	}
	sys := newAnalyzer(v, &fakeSpeech{})

	images := []analyses.Image{
		{Filename: "a.png", Data: []byte("a")},
		{Filename: "b.png", Data: []byte("broken")},
		{Filename: "c.png", Data: []byte("c")},
	}

	items := sys.AnalyzeBatch(context.Background(), images)

	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if got := v.calls.Load(); got != 3 {
		t.Errorf("vision calls = %d, want 3", got)
	}
	for i, item := range items {
		if item.Filename != images[i].Filename {
			t.Errorf("items[%d].Filename = %s, want %s", i, item.Filename, images[i].Filename)
		}
	}
	if items[1].Error == "" || items[1].Analysis != nil {
		t.Errorf("failed item = %+v", items[1])
	}
	if items[0].Analysis == nil || items[2].Analysis == nil {
		t.Error("successful items should carry an analysis")
	}
}

func TestNarrate(t *testing.T) {
	v := &fakeVision{
		annotateFn: func(context.Context, []byte) (*vision.Annotation, error) {
			return kitchenAnnotation(), nil
		},
	}

	t.Run("speaks the narration", func(t *testing.T) {
		sp := &fakeSpeech{}
		sys := newAnalyzer(v, sp)

		audio, err := sys.Narrate(context.Background(), []byte("png"))
		if err != nil {
			t.Fatalf("Narrate: %v", err)
		}
		if audio.ContentType != speech.ContentType {
			t.Errorf("content type = %s", audio.ContentType)
		}

		analysis, _ := sys.Analyze(context.Background(), []byte("png"))
		if sp.text != analysis.Result.Narration() {
			t.Errorf("spoken %q, want %q", sp.text, analysis.Result.Narration())
		}
	})

	t.Run("speech failure", func(t *testing.T) {
		sys := newAnalyzer(v, &fakeSpeech{err: speech.ErrNotConfigured})
		if _, err := sys.Narrate(context.Background(), []byte("png")); !errors.Is(err, speech.ErrNotConfigured) {
			t.Errorf("err = %v, want ErrNotConfigured", err)
		}
	})
}
