package scoring

import (
	"strings"

	"resumatch/internal/catalog"
	"resumatch/internal/types"
)

var industryRecommendations = map[string][]string{
	"tech": {
		"Highlight technical skills and programming languages",
		"Include GitHub profile or portfolio links",
	},
	"finance": {
		"Emphasize analytical and quantitative skills",
		"Include relevant certifications (CFA, FRM, etc.)",
	},
	"healthcare": {
		"Highlight clinical experience and certifications",
		"Emphasize patient care and safety protocols",
	},
}

var defaultIndustryRecommendations = []string{
	"Tailor your resume to match industry-specific keywords",
}

// ClassifyIndustry returns the first industry, in taxonomy order, with a keyword
// contained in the job description, or catalog.GeneralIndustry.
func ClassifyIndustry(taxonomy *catalog.Taxonomy, jobDescription string) string {
	lowered := strings.ToLower(jobDescription)
	for _, industry := range taxonomy.Industries() {
		for _, keyword := range industry.Keywords {
			if strings.Contains(lowered, keyword) {
				return industry.Name
			}
		}
	}
	return catalog.GeneralIndustry
}

// IndustryRecommendations returns the fixed advice for an industry
func IndustryRecommendations(industry string) []string {
	recs, ok := industryRecommendations[industry]
	if !ok {
		recs = defaultIndustryRecommendations
	}
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}

// AnalyzeIndustry classifies the job description and attaches its recommendations
func AnalyzeIndustry(taxonomy *catalog.Taxonomy, jobDescription string) types.IndustryAnalysis {
	industry := ClassifyIndustry(taxonomy, jobDescription)
	return types.IndustryAnalysis{
		DetectedIndustry: industry,
		Recommendations:  IndustryRecommendations(industry),
	}
}
