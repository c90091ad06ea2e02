package scoring

import (
	"resumatch/internal/catalog"
	"resumatch/internal/types"
)

// MatchKeywords compares the catalog terms found in the resume and the job description.
// All slices keep catalog order.
func MatchKeywords(cat *catalog.Catalog, resumeText, jobText string) types.KeywordAnalysis {
	jobSkills := cat.Scan(jobText)
	resumeSkills := cat.Scan(resumeText)

	inResume := make(map[string]struct{}, len(resumeSkills))
	for _, skill := range resumeSkills {
		inResume[skill] = struct{}{}
	}

	matched := make([]string, 0, len(jobSkills))
	missing := make([]string, 0, len(jobSkills))
	for _, skill := range jobSkills {
		if _, ok := inResume[skill]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return types.KeywordAnalysis{
		Matched:      matched,
		Missing:      missing,
		JobSkills:    jobSkills,
		ResumeSkills: resumeSkills,
	}
}
