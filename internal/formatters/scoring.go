package formatters

import (
	"fmt"
	"strings"

	"resumatch/internal/catalog"
	"resumatch/internal/types"
)

// ScoringTextFormatter renders a ScoringResult as plain text
type ScoringTextFormatter struct {
	catalog *catalog.Catalog
}

func (f *ScoringTextFormatter) Format(data any) (string, error) {
	result, err := scoringResultOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== MATCH SCORE ===\n")
	fmt.Fprintf(&output, "Match Score: %d/100\n", result.MatchScore)
	fmt.Fprintf(&output, "ATS Score: %d/100\n\n", result.ATSScore.Overall)

	output.WriteString("=== KEYWORDS ===\n")
	output.WriteString("Matched:\n")
	if len(result.MatchedKeywords) == 0 {
		output.WriteString("  none\n")
	}
	for _, group := range groupKeywords(f.catalog, result.MatchedKeywords) {
		fmt.Fprintf(&output, "  %s: %s\n", group.name, strings.Join(group.terms, ", "))
	}
	fmt.Fprintf(&output, "Missing: %s\n\n", joinOrNone(result.MissingKeywords))

	output.WriteString("=== ATS BREAKDOWN ===\n")
	fmt.Fprintf(&output, "Keyword Match: %.0f\n", result.ATSScore.KeywordMatch)
	fmt.Fprintf(&output, "Format Optimization: %.0f\n", result.ATSScore.FormatOptimization)
	fmt.Fprintf(&output, "Content Structure: %.0f\n", result.ATSScore.ContentStructure)
	fmt.Fprintf(&output, "Experience Alignment: %.0f\n\n", result.ATSScore.ExperienceAlignment)

	output.WriteString("=== ENTITIES ===\n")
	writeTextBundle(&output, "Resume", result.Entities.Resume)
	writeTextBundle(&output, "Job", result.Entities.Job)
	output.WriteString("\n")

	output.WriteString("=== INDUSTRY ===\n")
	fmt.Fprintf(&output, "Detected: %s\n", result.IndustryAnalysis.DetectedIndustry)
	for _, rec := range result.IndustryAnalysis.Recommendations {
		fmt.Fprintf(&output, "- %s\n", rec)
	}
	output.WriteString("\n")

	output.WriteString("=== RECOMMENDATIONS ===\n")
	for i, rec := range result.Recommendations {
		fmt.Fprintf(&output, "%d. %s\n", i+1, rec)
	}

	return output.String(), nil
}

func (f *ScoringTextFormatter) SupportedType() string {
	return typeScoringResult
}

func writeTextBundle(output *strings.Builder, label string, bundle types.EntityBundle) {
	fmt.Fprintf(output, "%s skills: %s\n", label, joinOrNone(bundle.Skills))
	fmt.Fprintf(output, "%s companies: %s\n", label, joinOrNone(bundle.Companies))
	fmt.Fprintf(output, "%s locations: %s\n", label, joinOrNone(bundle.Locations))
	if len(bundle.Educations) > 0 {
		fmt.Fprintf(output, "%s education: %s\n", label, joinOrNone(bundle.Educations))
	}
}

// ScoringMarkdownFormatter renders a ScoringResult as Markdown
type ScoringMarkdownFormatter struct {
	catalog *catalog.Catalog
}

func (f *ScoringMarkdownFormatter) Format(data any) (string, error) {
	result, err := scoringResultOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Resume Match Report\n\n")
	fmt.Fprintf(&output, "**Match Score:** %d/100  \n", result.MatchScore)
	fmt.Fprintf(&output, "**ATS Score:** %d/100  \n", result.ATSScore.Overall)
	fmt.Fprintf(&output, "**Industry:** %s\n\n", result.IndustryAnalysis.DetectedIndustry)

	output.WriteString("## Matched Keywords\n\n")
	if len(result.MatchedKeywords) == 0 {
		output.WriteString("_None_\n")
	}
	for _, group := range groupKeywords(f.catalog, result.MatchedKeywords) {
		fmt.Fprintf(&output, "- **%s:** %s\n", group.name, strings.Join(group.terms, ", "))
	}
	output.WriteString("\n")

	output.WriteString("## Missing Keywords\n\n")
	if len(result.MissingKeywords) == 0 {
		output.WriteString("_None_\n")
	}
	for _, keyword := range result.MissingKeywords {
		fmt.Fprintf(&output, "- %s\n", keyword)
	}
	output.WriteString("\n")

	output.WriteString("## ATS Breakdown\n\n")
	output.WriteString("| Component | Score |\n")
	output.WriteString("|---|---|\n")
	fmt.Fprintf(&output, "| Keyword Match | %.0f |\n", result.ATSScore.KeywordMatch)
	fmt.Fprintf(&output, "| Format Optimization | %.0f |\n", result.ATSScore.FormatOptimization)
	fmt.Fprintf(&output, "| Content Structure | %.0f |\n", result.ATSScore.ContentStructure)
	fmt.Fprintf(&output, "| Experience Alignment | %.0f |\n\n", result.ATSScore.ExperienceAlignment)

	output.WriteString("## Entities\n\n")
	output.WriteString("| | Resume | Job |\n")
	output.WriteString("|---|---|---|\n")
	fmt.Fprintf(&output, "| Skills | %s | %s |\n", joinOrNone(result.Entities.Resume.Skills), joinOrNone(result.Entities.Job.Skills))
	fmt.Fprintf(&output, "| Companies | %s | %s |\n", joinOrNone(result.Entities.Resume.Companies), joinOrNone(result.Entities.Job.Companies))
	fmt.Fprintf(&output, "| Locations | %s | %s |\n", joinOrNone(result.Entities.Resume.Locations), joinOrNone(result.Entities.Job.Locations))
	fmt.Fprintf(&output, "| Education | %s | %s |\n\n", joinOrNone(result.Entities.Resume.Educations), joinOrNone(result.Entities.Job.Educations))

	output.WriteString("## Recommendations\n\n")
	for _, rec := range result.Recommendations {
		fmt.Fprintf(&output, "- %s\n", rec)
	}
	for _, rec := range result.IndustryAnalysis.Recommendations {
		fmt.Fprintf(&output, "- %s\n", rec)
	}

	return output.String(), nil
}

func (f *ScoringMarkdownFormatter) SupportedType() string {
	return typeScoringResult
}
