package vision

import (
	"fmt"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

// Object is a localized object reported by the vision service.
type Object struct {
	Name  string  `json:"name"`
	Score float32 `json:"score"`
}

// Label is a scene label reported by the vision service.
type Label struct {
	Description string  `json:"description"`
	Score       float32 `json:"score"`
}

// SafeSearch carries the safe-search likelihood names the engine consumes
// (e.g., "LIKELY").
type SafeSearch struct {
	Violence string `json:"violence"`
	Medical  string `json:"medical"`
}

// Annotation is the perception output for one image. Objects and labels
// keep the provider's descending-confidence order.
type Annotation struct {
	Objects    []Object    `json:"objects"`
	Labels     []Label     `json:"labels"`
	SafeSearch *SafeSearch `json:"safe_search,omitempty"`
}

// ObjectNames returns the object names in provider order.
func (a *Annotation) ObjectNames() []string {
	names := make([]string, len(a.Objects))
	for i, o := range a.Objects {
		names[i] = o.Name
	}
	return names
}

// LabelDescriptions returns the label descriptions in provider order.
func (a *Annotation) LabelDescriptions() []string {
	descriptions := make([]string, len(a.Labels))
	for i, l := range a.Labels {
		descriptions[i] = l.Description
	}
	return descriptions
}

// NewRequest builds a single-image request for object localization,
// label detection, and safe-search detection.
func NewRequest(image []byte, maxResults int32) *visionpb.BatchAnnotateImagesRequest {
	return &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_OBJECT_LOCALIZATION, MaxResults: maxResults},
				{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: maxResults},
				{Type: visionpb.Feature_SAFE_SEARCH_DETECTION},
			},
		}},
	}
}

// FromResponse converts a batch response holding one image result into an
// Annotation. A per-image error status is returned wrapped in ErrAnnotate.
func FromResponse(resp *visionpb.BatchAnnotateImagesResponse) (*Annotation, error) {
	if len(resp.GetResponses()) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrAnnotate)
	}

	r := resp.GetResponses()[0]
	if status := r.GetError(); status != nil && status.GetCode() != 0 {
		return nil, fmt.Errorf("%w: %s (code %d)", ErrAnnotate, status.GetMessage(), status.GetCode())
	}

	a := &Annotation{
		Objects: make([]Object, 0, len(r.GetLocalizedObjectAnnotations())),
		Labels:  make([]Label, 0, len(r.GetLabelAnnotations())),
	}

	for _, o := range r.GetLocalizedObjectAnnotations() {
		a.Objects = append(a.Objects, Object{Name: o.GetName(), Score: o.GetScore()})
	}
	for _, l := range r.GetLabelAnnotations() {
		a.Labels = append(a.Labels, Label{Description: l.GetDescription(), Score: l.GetScore()})
	}
	if ss := r.GetSafeSearchAnnotation(); ss != nil {
		a.SafeSearch = &SafeSearch{
			Violence: ss.GetViolence().String(),
			Medical:  ss.GetMedical().String(),
		}
	}

	return a, nil
}
