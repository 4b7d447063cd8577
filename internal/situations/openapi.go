package situations

import "github.com/JaimeStill/vigil/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Create *openapi.Operation
	Update *openapi.Operation
	Delete *openapi.Operation
	Search *openapi.Operation
	Export *openapi.Operation
	Import *openapi.Operation
}

// Spec describes the situation endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary: "List situations",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Matches key, risk label or advisory", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. position,-key", false),
			openapi.QueryParam("key", "string", "Key contains", false),
			openapi.QueryParam("risk_label", "string", "Risk label contains", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of situations", "SituationPage"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find a situation",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Situation ID")},
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Situation", "Situation"),
		}, 400, 404),
	},
	Create: &openapi.Operation{
		Summary:     "Add a situation",
		Description: "Position defaults to the end of the catalog.",
		RequestBody: openapi.RequestBodyJSON("CreateSituation", true),
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created situation", "Situation"),
		}, 400, 409),
	},
	Update: &openapi.Operation{
		Summary:     "Replace a situation",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Situation ID")},
		RequestBody: openapi.RequestBodyJSON("UpdateSituation", true),
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated situation", "Situation"),
		}, 400, 404, 409),
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a situation",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Situation ID")},
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			204: {Description: "Deleted"},
		}, 400, 404),
	},
	Search: &openapi.Operation{
		Summary:     "Search situations",
		RequestBody: openapi.RequestBodyJSON("SituationSearch", true),
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of situations", "SituationPage"),
		}, 400),
	},
	Export: &openapi.Operation{
		Summary:     "Export the catalog",
		Description: "Writes the stored catalog to blob storage as a TOML document.",
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			201: openapi.ResponseJSON("Exported catalog", "CatalogSnapshot"),
		}, 409, 503),
	},
	Import: &openapi.Operation{
		Summary:     "Import a catalog",
		Description: "Replaces every stored situation with the situations of a TOML or YAML document in blob storage.",
		RequestBody: openapi.RequestBodyJSON("CatalogImport", true),
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Imported catalog", "CatalogSnapshot"),
		}, 400, 404, 409, 413),
	},
}

// Schemas returns the component schemas referenced by Spec.
func Schemas() map[string]*openapi.Schema {
	situation := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string", Format: "uuid"},
			"key":        {Type: "string", Example: "knife"},
			"risk_label": {Type: "string", Example: "holding a knife"},
			"advisory":   {Type: "string", Example: "Careful with the knife."},
			"position":   {Type: "integer"},
			"created_at": {Type: "string", Format: "date-time"},
			"updated_at": {Type: "string", Format: "date-time"},
		},
	}

	command := func(positionRequired bool) *openapi.Schema {
		required := []string{"key", "risk_label"}
		if positionRequired {
			required = append(required, "position")
		}
		return &openapi.Schema{
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":        {Type: "string"},
				"risk_label": {Type: "string"},
				"advisory":   {Type: "string"},
				"position":   {Type: "integer"},
			},
			Required: required,
		}
	}

	return map[string]*openapi.Schema{
		"Situation":       situation,
		"CreateSituation": command(false),
		"UpdateSituation": command(true),
		"SituationPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Situation")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"SituationSearch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":       {Type: "integer"},
				"page_size":  {Type: "integer"},
				"search":     {Type: "string"},
				"sort":       {Type: "string"},
				"key":        {Type: "string"},
				"risk_label": {Type: "string"},
			},
		},
		"CatalogImport": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"key": {Type: "string", Example: "catalogs/kitchen.toml"}},
			Required:   []string{"key"},
		},
		"CatalogSnapshot": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":        {Type: "string"},
				"situations": {Type: "integer"},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
	}
}
