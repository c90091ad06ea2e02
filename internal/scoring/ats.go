package scoring

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"resumatch/internal/types"
)

// ATS sub-score weights
const (
	weightKeywordMatch        = 0.4
	weightFormatOptimization  = 0.2
	weightContentStructure    = 0.2
	weightExperienceAlignment = 0.2
)

const (
	minParseableLength = 500
	maxParseableLength = 5000
)

var sectionMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)experience|work history`),
	regexp.MustCompile(`(?i)education|degree|university`),
	regexp.MustCompile(`(?i)skills|technologies`),
	regexp.MustCompile(`(?i)contact|email|phone`),
}

var experienceKeywords = []string{"years", "experience", "senior", "lead", "manager", "director"}

// ScoreATS computes the ATS compatibility breakdown of a resume against a job description
func ScoreATS(resumeText, jobDescription string) types.ATSScoreBreakdown {
	breakdown := types.ATSScoreBreakdown{
		KeywordMatch:        keywordMatchScore(resumeText, jobDescription),
		FormatOptimization:  formatScore(resumeText),
		ContentStructure:    structureScore(resumeText),
		ExperienceAlignment: experienceScore(resumeText, jobDescription),
	}
	breakdown.Overall = overallATS(breakdown)
	return breakdown
}

func overallATS(b types.ATSScoreBreakdown) int {
	weighted := weightKeywordMatch*b.KeywordMatch +
		weightFormatOptimization*b.FormatOptimization +
		weightContentStructure*b.ContentStructure +
		weightExperienceAlignment*b.ExperienceAlignment
	return int(clamp(math.Round(weighted), 0, 100))
}

// keywordMatchScore counts resume tokens that occur in the job token list, per occurrence
func keywordMatchScore(resumeText, jobDescription string) float64 {
	jobTokens := strings.Fields(strings.ToLower(jobDescription))
	if len(jobTokens) == 0 {
		return 0
	}

	inJob := make(map[string]struct{}, len(jobTokens))
	for _, token := range jobTokens {
		inJob[token] = struct{}{}
	}

	hits := 0
	for _, token := range strings.Fields(strings.ToLower(resumeText)) {
		if _, ok := inJob[token]; ok {
			hits++
		}
	}

	return clamp(math.Round(100*float64(hits)/float64(len(jobTokens))), 0, 100)
}

func formatScore(resumeText string) float64 {
	score := 100.0
	if strings.ContainsFunc(resumeText, isBoxDrawing) {
		score -= 20
	}

	length := utf8.RuneCountInString(resumeText)
	if length < minParseableLength {
		score -= 30
	}
	if length > maxParseableLength {
		score -= 10
	}
	return math.Max(0, score)
}

// isBoxDrawing reports runes of the Unicode Box Drawing block
func isBoxDrawing(r rune) bool {
	return r >= '─' && r <= '╿'
}

func structureScore(resumeText string) float64 {
	score := 0.0
	for _, marker := range sectionMarkers {
		if marker.MatchString(resumeText) {
			score += 25
		}
	}
	return math.Min(100, score)
}

func experienceScore(resumeText, jobDescription string) float64 {
	resumeHits := countPresent(strings.ToLower(resumeText), experienceKeywords)
	jobHits := countPresent(strings.ToLower(jobDescription), experienceKeywords)
	return math.Min(100, 100*float64(resumeHits)/float64(max(1, jobHits)))
}

func countPresent(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}
