// Package analyses runs images and detections through the active assessment
// engine and voices the resulting reports.
package analyses

import (
	"github.com/JaimeStill/vigil/internal/assessment"
	"github.com/JaimeStill/vigil/pkg/vision"
)

// Image is one uploaded image.
type Image struct {
	Filename string
	Data     []byte
}

// DetectionsCommand is vision output supplied directly by the caller.
// Objects and labels accept either objects or bare strings.
type DetectionsCommand struct {
	Objects    []assessment.Object      `json:"objects"`
	Labels     []assessment.Label       `json:"labels"`
	SafeSearch *assessment.SafetySignal `json:"safe_search,omitempty"`
}

// SpeechCommand is text to voice.
type SpeechCommand struct {
	Text string `json:"text"`
}

// Analysis is the report for one image or detection set together with the
// normalized detections it was built from.
type Analysis struct {
	Annotation *vision.Annotation    `json:"annotation,omitempty"`
	Detections assessment.Detections `json:"detections"`
	Result     assessment.Result     `json:"result"`
}

// BatchItem is the outcome for one image of a batch. Exactly one of
// Analysis and Error is set.
type BatchItem struct {
	Filename string    `json:"filename"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Command converts an annotation into engine input.
func Command(a *vision.Annotation) DetectionsCommand {
	cmd := DetectionsCommand{
		Objects: assessment.ObjectsFromNames(a.ObjectNames()...),
		Labels:  assessment.LabelsFromDescriptions(a.LabelDescriptions()...),
	}
	if a.SafeSearch != nil {
		cmd.SafeSearch = &assessment.SafetySignal{
			Violence: assessment.ParseLikelihood(a.SafeSearch.Violence),
			Medical:  assessment.ParseLikelihood(a.SafeSearch.Medical),
		}
	}
	return cmd
}
