package types

// TokenEntity is one token/entity pair returned by a named-entity model.
// EntityGroup is set by aggregated responses ("ORG"); Entity carries the
// raw IOB tag ("B-ORG") when the model does not aggregate.
type TokenEntity struct {
	EntityGroup string  `json:"entity_group,omitempty"`
	Entity      string  `json:"entity,omitempty"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
}

// EntityBundle holds the entities extracted from one text blob
type EntityBundle struct {
	Skills     []string `json:"skills"`
	Companies  []string `json:"companies"`
	Locations  []string `json:"locations"`
	Educations []string `json:"educations"`
}

// Entities pairs the resume and job entity bundles
type Entities struct {
	Resume EntityBundle `json:"resume"`
	Job    EntityBundle `json:"job"`
}

// KeywordAnalysis is the catalog-driven keyword comparison.
// All four fields are duplicate-free and in catalog order.
type KeywordAnalysis struct {
	Matched      []string `json:"matched"`
	Missing      []string `json:"missing"`
	JobSkills    []string `json:"jobSkills"`
	ResumeSkills []string `json:"resumeSkills"`
}

// ATSScoreBreakdown represents the ATS compatibility sub-scores (0-100 each)
type ATSScoreBreakdown struct {
	KeywordMatch        float64 `json:"keywordMatch"`
	FormatOptimization  float64 `json:"formatOptimization"`
	ContentStructure    float64 `json:"contentStructure"`
	ExperienceAlignment float64 `json:"experienceAlignment"`
	Overall             int     `json:"overall"`
}

// IndustryAnalysis represents the detected industry and its advice
type IndustryAnalysis struct {
	DetectedIndustry string   `json:"detectedIndustry"`
	Recommendations  []string `json:"recommendations"`
}

// ScoringResult is the complete output of one scoring run
type ScoringResult struct {
	MatchScore       int               `json:"matchScore"`
	MatchedKeywords  []string          `json:"matchedKeywords"`
	MissingKeywords  []string          `json:"missingKeywords"`
	Recommendations  []string          `json:"recommendations"`
	Entities         Entities          `json:"entities"`
	ATSScore         ATSScoreBreakdown `json:"atsScore"`
	IndustryAnalysis IndustryAnalysis  `json:"industryAnalysis"`
}

// CatalogListing is the printable view of the keyword catalog and industry taxonomy
type CatalogListing struct {
	Terms      []string            `json:"terms"`
	Categories map[string][]string `json:"categories"`
	Industries []IndustryKeywords  `json:"industries"`
}

// IndustryKeywords is one ordered entry of the industry taxonomy
type IndustryKeywords struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}
