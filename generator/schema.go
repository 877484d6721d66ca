package generator

import "google.golang.org/genai"

// PromptSchema constrains experience-prompt generation output.
func PromptSchema() Schema {
	return Schema{
		Name: "experience_prompts",
		Def: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"items": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title":      {Type: genai.TypeString, Description: "Short evocative title"},
							"prompt":     {Type: genai.TypeString, Description: "The writing prompt itself, second person, 1-3 sentences"},
							"activities": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
							"interests":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						},
						Required: []string{"title", "prompt"},
					},
				},
			},
			Required: []string{"items"},
		},
	}
}

// DiscoverySchema constrains discovery-suggestion generation output.
// Same item shape as prompts; the prompt field holds the suggestion text.
func DiscoverySchema() Schema {
	s := PromptSchema()
	s.Name = "discovery_suggestions"
	return s
}
