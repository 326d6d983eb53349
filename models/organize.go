package models

// ContentMedium values accepted for organized content.
const (
	MediumWhitepaper    = "whitepaper"
	MediumResearchPaper = "research_paper"
	MediumArticle       = "article"
	MediumVideo         = "video"
	MediumAudio         = "audio"
	MediumCourse        = "course"
	MediumPodcast       = "podcast"
	MediumEbook         = "ebook"
)

// ValidMediums is the closed set of medium values.
var ValidMediums = map[string]bool{
	MediumWhitepaper:    true,
	MediumResearchPaper: true,
	MediumArticle:       true,
	MediumVideo:         true,
	MediumAudio:         true,
	MediumCourse:        true,
	MediumPodcast:       true,
	MediumEbook:         true,
}

// Progress status values for a content node.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on_hold"
	StatusArchived   = "archived"
)

// ContentNode is the metadata filed into the learning graph.
type ContentNode struct {
	Title             string   `json:"title"`
	Medium            string   `json:"medium"`
	Subjects          []string `json:"subjects"`
	URL               string   `json:"url,omitempty"`
	Status            string   `json:"status"`
	ProgressPercent   int      `json:"progressPercent"`
	Author            string   `json:"author,omitempty"`
	Source            string   `json:"source,omitempty"`
	EstimatedDuration int      `json:"estimatedDuration,omitempty"`
	Priority          int      `json:"priority"`
	Notes             string   `json:"notes,omitempty"`
	Tags              []string `json:"tags"`
}

// AISuggestion carries the model's filing suggestion alongside the node.
type AISuggestion struct {
	Title        string   `json:"title"`
	Medium       string   `json:"medium"`
	Subjects     []string `json:"subjects"`
	Tags         []string `json:"tags"`
	IsNewSubject bool     `json:"isNewSubject"`
	Confidence   float64  `json:"confidence"`
}

// OrganizeResult is the organizer's output.
type OrganizeResult struct {
	ContentNode  ContentNode  `json:"content_node"`
	AISuggestion AISuggestion `json:"ai_suggestion"`
}

// TriageResult is the combined output of the score -> organize pipeline.
type TriageResult struct {
	Assessment   *Assessment     `json:"assessment"`
	Organization *OrganizeResult `json:"organization"`
}
