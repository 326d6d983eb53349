package models

// Audience profiles for the summarizer. Unrecognized values fall back to self.
const (
	AudienceEngineering = "engineering"
	AudienceBusiness    = "business"
	AudienceSelf        = "self"
)

// SummaryContent is the generated, audience-tailored summary.
type SummaryContent struct {
	Audience     string   `json:"audience"`
	Content      string   `json:"content"`
	KeyTakeaways []string `json:"key_takeaways"`
	CodeExamples []string `json:"code_examples,omitempty"`
}

// SummarizeResult is the summarizer's output.
type SummarizeResult struct {
	ContentTitle string         `json:"content_title"`
	Summary      SummaryContent `json:"summary"`
}
