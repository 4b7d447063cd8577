package analyses

import (
	"github.com/JaimeStill/vigil/pkg/openapi"
	"github.com/JaimeStill/vigil/pkg/speech"
)

type spec struct {
	Analyze    *openapi.Operation
	Audio      *openapi.Operation
	Detections *openapi.Operation
	Batch      *openapi.Operation
	Speech     *openapi.Operation
}

// Spec describes the analysis and speech endpoints.
var Spec = spec{
	Analyze: &openapi.Operation{
		Summary:     "Analyze an image",
		Description: "Annotates the image with the vision provider and returns the assessment report.",
		RequestBody: openapi.RequestBodyMultipart("Image to analyze", "image/*", map[string]bool{"image": false}),
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Assessment", "Analysis"),
		}, 400, 413, 502, 503),
	},
	Audio: &openapi.Operation{
		Summary:     "Analyze an image and speak the report",
		RequestBody: openapi.RequestBodyMultipart("Image to analyze", "image/*", map[string]bool{"image": false}),
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseBinary("Spoken report", speech.ContentType),
		}, 400, 413, 502, 503),
	},
	Detections: &openapi.Operation{
		Summary:     "Assess detections",
		Description: "Runs supplied objects, labels and safe-search likelihoods through the engine without calling the vision provider.",
		RequestBody: openapi.RequestBodyJSON("Detections", true),
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Assessment", "Analysis"),
		}, 400),
	},
	Batch: &openapi.Operation{
		Summary:     "Analyze several images",
		Description: "Images are analyzed concurrently. A failed image reports its error without failing the batch.",
		RequestBody: openapi.RequestBodyMultipart("Images to analyze", "image/*", map[string]bool{"images": true}),
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: {
				Description: "Per-image results in upload order",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("BatchItem")}},
				},
			},
		}, 400, 413),
	},
	Speech: &openapi.Operation{
		Summary:     "Speak text",
		RequestBody: openapi.RequestBodyJSON("SpeechCommand", true),
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseBinary("Spoken text", speech.ContentType),
		}, 400, 502, 503),
	},
}

// Schemas returns the component schemas referenced by Spec.
func Schemas() map[string]*openapi.Schema {
	stringArray := &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}
	likelihood := &openapi.Schema{
		Type:        "string",
		Description: "UNKNOWN, VERY_UNLIKELY, UNLIKELY, POSSIBLE, LIKELY or VERY_LIKELY; ordinals 0-5 are accepted",
		Example:     "LIKELY",
	}

	return map[string]*openapi.Schema{
		"Detections": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"objects": {
					Type:        "array",
					Description: "Objects as {name} or bare strings",
					Items:       &openapi.Schema{Type: "object", Properties: map[string]*openapi.Schema{"name": {Type: "string"}}},
					Example:     []string{"Person", "Knife"},
				},
				"labels": {
					Type:        "array",
					Description: "Labels as {description} or bare strings",
					Items:       &openapi.Schema{Type: "object", Properties: map[string]*openapi.Schema{"description": {Type: "string"}}},
					Example:     []string{"Kitchen", "Cooking"},
				},
				"safe_search": {
					Type:       "object",
					Properties: map[string]*openapi.Schema{"violence": likelihood, "medical": likelihood},
				},
			},
		},
		"Report": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"activity":         {Type: "string"},
				"environment":      {Type: "string"},
				"risks":            stringArray,
				"advisory_message": {Type: "string"},
			},
		},
		"Analysis": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"annotation": {Type: "object", Description: "Raw vision output, absent for supplied detections"},
				"detections": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"all":          stringArray,
						"objects":      stringArray,
						"person_count": {Type: "integer"},
					},
				},
				"result": openapi.SchemaRef("Report"),
			},
		},
		"BatchItem": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"filename": {Type: "string"},
				"analysis": openapi.SchemaRef("Analysis"),
				"error":    {Type: "string"},
			},
		},
		"SpeechCommand": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"text": {Type: "string"}},
			Required:   []string{"text"},
		},
	}
}
