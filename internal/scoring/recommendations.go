package scoring

import (
	"strings"

	"resumatch/internal/types"
)

const (
	lowSimilarityThreshold = 0.3
	maxListedKeywords      = 3
)

// Recommend turns keyword analysis and similarity into ordered suggestions
func Recommend(analysis types.KeywordAnalysis, similarity float64) []string {
	recs := make([]string, 0, 4)

	if similarity < lowSimilarityThreshold {
		recs = append(recs, "Consider tailoring your resume more closely to the job description")
	}

	if len(analysis.Missing) > 0 {
		recs = append(recs, "Consider highlighting these missing skills if you have them: "+
			strings.Join(firstN(analysis.Missing, maxListedKeywords), ", "))
	}

	if len(analysis.Matched) > 0 {
		recs = append(recs, "Great match on these skills: "+
			strings.Join(firstN(analysis.Matched, maxListedKeywords), ", "))
	}

	matchPercentage := 0.0
	if len(analysis.JobSkills) > 0 {
		matchPercentage = 100 * float64(len(analysis.Matched)) / float64(len(analysis.JobSkills))
	}

	switch {
	case matchPercentage > 70:
		recs = append(recs, "Excellent skill match! Consider applying for this position.")
	case matchPercentage > 40:
		recs = append(recs, "Good skill match. Consider developing the missing skills.")
	default:
		recs = append(recs, "Limited skill match. Consider developing more relevant skills or targeting different roles.")
	}

	return recs
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
