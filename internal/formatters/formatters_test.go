package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumatch/internal/catalog"
	"resumatch/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *types.ScoringResult {
	return &types.ScoringResult{
		MatchScore:      36,
		MatchedKeywords: []string{"python", "react", "aws"},
		MissingKeywords: []string{"kubernetes"},
		Recommendations: []string{"Great match on these skills: python, react, aws"},
		Entities: types.Entities{
			Resume: types.EntityBundle{Skills: []string{"python"}, Companies: []string{"Acme"}, Locations: []string{}, Educations: []string{}},
			Job:    types.EntityBundle{Skills: []string{"python"}, Companies: []string{}, Locations: []string{}, Educations: []string{}},
		},
		ATSScore: types.ATSScoreBreakdown{
			KeywordMatch:        63,
			FormatOptimization:  70,
			ContentStructure:    25,
			ExperienceAlignment: 100,
			Overall:             64,
		},
		IndustryAnalysis: types.IndustryAnalysis{
			DetectedIndustry: "tech",
			Recommendations:  []string{"Include GitHub profile or portfolio links"},
		},
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := DefaultRegistry.Format(sampleResult(), "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.EqualValues(t, 36, decoded["matchScore"])
	assert.Contains(t, decoded, "atsScore")
	assert.Contains(t, decoded, "industryAnalysis")
}

func TestScoringTextGroupsMatchedKeywords(t *testing.T) {
	out, err := DefaultRegistry.Format(*sampleResult(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Match Score: 36/100")
	assert.Contains(t, out, "ATS Score: 64/100")
	assert.Contains(t, out, "  backend: python\n")
	assert.Contains(t, out, "  frontend: react\n")
	assert.Contains(t, out, "  cloud: aws\n")
	assert.Contains(t, out, "Missing: kubernetes")
	assert.Contains(t, out, "Resume companies: Acme")
	assert.Contains(t, out, "Job companies: none")
	assert.Contains(t, out, "1. Great match on these skills")

	// groups follow first appearance
	assert.Less(t, strings.Index(out, "backend:"), strings.Index(out, "frontend:"))
}

func TestScoringTextUsesCustomCatalog(t *testing.T) {
	cat, err := catalog.New([]string{"python"}, []catalog.Category{{Name: "scripting", Terms: []string{"python"}}})
	require.NoError(t, err)

	out, err := NewRegistry(cat).Format(sampleResult(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "  scripting: python\n")
	assert.Contains(t, out, "  other: react, aws\n")
}

func TestScoringMarkdown(t *testing.T) {
	out, err := DefaultRegistry.Format(sampleResult(), "markdown")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Resume Match Report\n"))
	assert.Contains(t, out, "- **backend:** python")
	assert.Contains(t, out, "| Keyword Match | 63 |")
	assert.Contains(t, out, "| Companies | Acme | none |")
	assert.Contains(t, out, "- Include GitHub profile or portfolio links")
}

func TestCatalogListingFormats(t *testing.T) {
	listing := types.CatalogListing{
		Terms:      []string{"go", "rust"},
		Categories: map[string][]string{"systems": {"rust"}, "backend": {"go"}},
		Industries: []types.IndustryKeywords{{Name: "tech", Keywords: []string{"software"}}},
	}

	text, err := DefaultRegistry.Format(listing, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "=== TERMS (2) ===\ngo, rust")
	assert.Less(t, strings.Index(text, "backend: go"), strings.Index(text, "systems: rust"))
	assert.Contains(t, text, "1. tech: software")

	md, err := DefaultRegistry.Format(&listing, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "- `go`")
	assert.Contains(t, md, "1. **tech**: software")
}

func TestRegistryErrors(t *testing.T) {
	_, err := DefaultRegistry.Format(sampleResult(), "xml")
	assert.Error(t, err)

	_, err = DefaultRegistry.Format("plain string", "text")
	assert.Error(t, err)

	_, err = (&ScoringTextFormatter{}).Format(types.CatalogListing{})
	assert.Error(t, err)

	assert.Equal(t, []string{"json", "markdown", "text"}, DefaultRegistry.SupportedFormats())
}
