package dto

// GenerateRequest is the request body for both generation endpoints.
type GenerateRequest struct {
	SubjectContext    string   `json:"subject_context"`
	DesiredCount      int      `json:"desired_count"`
	Interests         []string `json:"interests"`
	ExistingItems     []string `json:"existing_items"`
	AdditionalContext string   `json:"additional_context"`
	// ContextURL, when set, is fetched and its extracted text is folded
	// into the prompt context.
	ContextURL string `json:"context_url"`
	// IncludeHappenings folds recent Nevada feed titles into the prompt.
	IncludeHappenings bool `json:"include_happenings"`
	// Optional pinned location; fields left empty are resolved from
	// request headers instead.
	City      string `json:"city"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}
