package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// GeneralIndustry is the classification used when no industry keyword matches
const GeneralIndustry = "general"

// Industry is one entry of the industry taxonomy
type Industry struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Taxonomy is the ordered, read-only industry taxonomy. Order matters:
// classification picks the first industry with a keyword hit.
type Taxonomy struct {
	industries []Industry
}

// NewTaxonomy builds a taxonomy, lower-casing keywords and keeping order.
func NewTaxonomy(industries []Industry) (*Taxonomy, error) {
	if len(industries) == 0 {
		return nil, fmt.Errorf("taxonomy has no industries")
	}

	t := &Taxonomy{industries: make([]Industry, 0, len(industries))}
	seen := make(map[string]struct{}, len(industries))
	for _, ind := range industries {
		name := strings.ToLower(strings.TrimSpace(ind.Name))
		if name == "" {
			return nil, fmt.Errorf("industry name cannot be empty")
		}
		if name == GeneralIndustry {
			return nil, fmt.Errorf("industry name %q is reserved", GeneralIndustry)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("industry %q is listed more than once", name)
		}
		seen[name] = struct{}{}

		keywords := normalizeTerms(ind.Keywords)
		if len(keywords) == 0 || slices.Contains(keywords, "") {
			return nil, fmt.Errorf("industry %q needs at least one non-empty keyword", name)
		}
		t.industries = append(t.industries, Industry{Name: name, Keywords: keywords})
	}
	return t, nil
}

var defaultTaxonomy = sync.OnceValue(func() *Taxonomy {
	t, err := NewTaxonomy(defaultIndustries)
	if err != nil {
		panic(fmt.Sprintf("built-in industry taxonomy is invalid: %v", err))
	}
	return t
})

// DefaultTaxonomy returns the process-wide built-in taxonomy
func DefaultTaxonomy() *Taxonomy {
	return defaultTaxonomy()
}

// Industries returns a copy of the industries in taxonomy order
func (t *Taxonomy) Industries() []Industry {
	out := make([]Industry, len(t.industries))
	for i, ind := range t.industries {
		out[i] = Industry{Name: ind.Name, Keywords: slices.Clone(ind.Keywords)}
	}
	return out
}

// Validate reports whether the taxonomy can be used for classification
func (t *Taxonomy) Validate() error {
	if t == nil || len(t.industries) == 0 {
		return fmt.Errorf("taxonomy has no industries")
	}
	return nil
}

var defaultIndustries = []Industry{
	{Name: "tech", Keywords: []string{"software", "technology", "startup", "saas", "fintech"}},
	{Name: "finance", Keywords: []string{"banking", "investment", "financial", "trading", "insurance"}},
	{Name: "healthcare", Keywords: []string{"medical", "healthcare", "pharmaceutical", "biotech"}},
	{Name: "consulting", Keywords: []string{"consulting", "advisory", "strategy", "management"}},
	{Name: "retail", Keywords: []string{"retail", "e-commerce", "consumer", "brand"}},
}
