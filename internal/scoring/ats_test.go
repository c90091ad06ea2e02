package scoring

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordMatchScore(t *testing.T) {
	tests := []struct {
		name     string
		resume   string
		job      string
		expected float64
	}{
		{"empty job", "python developer", "", 0},
		{"half the job tokens", "python", "python developer", 50},
		{"repeated resume tokens count each time", "go go go go", "go rust", 100},
		{"case insensitive", "PYTHON", "python", 100},
		{"no overlap", "chef", "pilot", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, keywordMatchScore(tt.resume, tt.job))
		})
	}
}

func TestFormatScore(t *testing.T) {
	medium := strings.Repeat("x", 1000)

	assert.Equal(t, 100.0, formatScore(medium))
	assert.Equal(t, 70.0, formatScore("short"))
	assert.Equal(t, 90.0, formatScore(strings.Repeat("x", 5001)))
	assert.Equal(t, 80.0, formatScore(medium+"│"))
	assert.Equal(t, 50.0, formatScore("┌─┐ short"))

	// length is counted in characters, not bytes
	assert.Equal(t, 70.0, formatScore(strings.Repeat("é", 400)))
}

func TestStructureScore(t *testing.T) {
	assert.Equal(t, 0.0, structureScore("nothing relevant"))
	assert.Equal(t, 25.0, structureScore("Work History: ACME"))
	assert.Equal(t, 100.0, structureScore("EXPERIENCE\nEducation\nSkills\nEmail: me@example.com"))
}

func TestExperienceScore(t *testing.T) {
	assert.Equal(t, 0.0, experienceScore("", ""))
	assert.Equal(t, 100.0, experienceScore("senior lead", ""))
	assert.Equal(t, 50.0, experienceScore("years", "years of experience"))
	assert.Equal(t, 100.0, experienceScore("senior manager with years of experience", "experience"))
}

func TestScoreATSBoundsAndWeights(t *testing.T) {
	inputs := [][2]string{
		{"", ""},
		{pythonResume, pythonJob},
		{strings.Repeat("experience education skills email ", 40), "experience senior lead"},
		{"┌──┐", "anything"},
	}

	for _, in := range inputs {
		b := ScoreATS(in[0], in[1])

		for _, sub := range []float64{b.KeywordMatch, b.FormatOptimization, b.ContentStructure, b.ExperienceAlignment} {
			assert.GreaterOrEqual(t, sub, 0.0)
			assert.LessOrEqual(t, sub, 100.0)
		}
		assert.GreaterOrEqual(t, b.Overall, 0)
		assert.LessOrEqual(t, b.Overall, 100)

		weighted := 0.4*b.KeywordMatch + 0.2*b.FormatOptimization + 0.2*b.ContentStructure + 0.2*b.ExperienceAlignment
		assert.Equal(t, int(math.Round(weighted)), b.Overall)
	}
}
