package gloss

import "github.com/abhisek/chunkz/internal/llm"

// ChunkGlossSchema defines the JSON schema for chunk meanings.
var ChunkGlossSchema = &llm.Schema{
	Name:        "chunk-gloss",
	Description: "Short meanings for each chunk of an English sentence, in the learner's language",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"chunks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The chunk text exactly as given",
						},
						"meaning": map[string]any{
							"type":        "string",
							"description": "Meaning of the chunk in context (1-6 words)",
						},
					},
					"required":             []any{"text", "meaning"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"chunks"},
		"additionalProperties": false,
	},
}
