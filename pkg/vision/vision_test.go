package vision_test

import (
	"errors"
	"slices"
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/JaimeStill/vigil/pkg/vision"
)

func TestNewRequest(t *testing.T) {
	req := vision.NewRequest([]byte("jpeg"), 7)

	if len(req.Requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(req.Requests))
	}

	features := req.Requests[0].GetFeatures()
	var types []visionpb.Feature_Type
	for _, f := range features {
		types = append(types, f.GetType())
	}

	want := []visionpb.Feature_Type{
		visionpb.Feature_OBJECT_LOCALIZATION,
		visionpb.Feature_LABEL_DETECTION,
		visionpb.Feature_SAFE_SEARCH_DETECTION,
	}
	if !slices.Equal(types, want) {
		t.Errorf("feature types = %v, want %v", types, want)
	}
	if features[0].GetMaxResults() != 7 {
		t.Errorf("max results = %d, want 7", features[0].GetMaxResults())
	}
	if string(req.Requests[0].GetImage().GetContent()) != "jpeg" {
		t.Error("image content not forwarded")
	}
}

func TestFromResponse(t *testing.T) {
	resp := &visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{{
			LocalizedObjectAnnotations: []*visionpb.LocalizedObjectAnnotation{
				{Name: "Person", Score: 0.94},
				{Name: "Knife", Score: 0.81},
			},
			LabelAnnotations: []*visionpb.EntityAnnotation{
				{Description: "Kitchen", Score: 0.9},
			},
			SafeSearchAnnotation: &visionpb.SafeSearchAnnotation{
				Violence: visionpb.Likelihood_LIKELY,
				Medical:  visionpb.Likelihood_VERY_UNLIKELY,
			},
		}},
	}

	a, err := vision.FromResponse(resp)
	if err != nil {
		t.Fatalf("FromResponse: %v", err)
	}

	if got := a.ObjectNames(); !slices.Equal(got, []string{"Person", "Knife"}) {
		t.Errorf("objects = %v", got)
	}
	if got := a.LabelDescriptions(); !slices.Equal(got, []string{"Kitchen"}) {
		t.Errorf("labels = %v", got)
	}
	if a.SafeSearch == nil || a.SafeSearch.Violence != "LIKELY" || a.SafeSearch.Medical != "VERY_UNLIKELY" {
		t.Errorf("safe search = %+v", a.SafeSearch)
	}
}

func TestFromResponseWithoutSafeSearch(t *testing.T) {
	a, err := vision.FromResponse(&visionpb.BatchAnnotateImagesResponse{
		Responses: []*visionpb.AnnotateImageResponse{{}},
	})
	if err != nil {
		t.Fatalf("FromResponse: %v", err)
	}
	if a.SafeSearch != nil {
		t.Errorf("safe search = %+v, want nil", a.SafeSearch)
	}
	if a.Objects == nil || a.Labels == nil {
		t.Error("objects and labels should be empty, not nil")
	}
}

func TestFromResponseEmpty(t *testing.T) {
	_, err := vision.FromResponse(&visionpb.BatchAnnotateImagesResponse{})
	if !errors.Is(err, vision.ErrAnnotate) {
		t.Errorf("error = %v, want ErrAnnotate", err)
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_VISION_MAX", "25")

	cfg := vision.Config{}
	if err := cfg.Finalize(&vision.Env{MaxResults: "TEST_VISION_MAX"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.MaxResults != 25 {
		t.Errorf("max results = %d, want 25", cfg.MaxResults)
	}
	if cfg.TimeoutDuration().Seconds() != 15 {
		t.Errorf("timeout = %v, want 15s", cfg.TimeoutDuration())
	}

	bad := vision.Config{Timeout: "-1s"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error for non-positive timeout")
	}
}
