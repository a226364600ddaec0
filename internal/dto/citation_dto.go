package dto

type EvidenceInput struct {
	Excerpt   string `json:"excerpt" validate:"required"`
	SourceRef string `json:"source_ref" validate:"required"`
	Title     string `json:"title"`
	URL       string `json:"url"`
}

type BuildPackRequest struct {
	Evidence []EvidenceInput `json:"evidence" validate:"required,dive"`
}

type PackEntryResponse struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	SourceRef   string `json:"source_ref"`
	Excerpt     string `json:"excerpt"`
	Fingerprint string `json:"fingerprint"`
}

type BuildPackResponse struct {
	PromptBlock     string              `json:"prompt_block"`
	SourcesMarkdown string              `json:"sources_markdown"`
	Entries         []PackEntryResponse `json:"entries"`
}

type EnforceGroundingRequest struct {
	Text    string          `json:"text" validate:"required"`
	Entries []EvidenceInput `json:"entries"`
}

type EnforceGroundingResponse struct {
	Text    string `json:"text"`
	Patched bool   `json:"patched"`
}
