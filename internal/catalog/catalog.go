package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// UncategorizedCategory is reported by CategoryOf for terms without a category
const UncategorizedCategory = "other"

// Category is one named group of related terms
type Category struct {
	Name  string   `json:"name" yaml:"name"`
	Terms []string `json:"terms" yaml:"terms"`
}

// Catalog is an immutable, ordered set of lower-cased skill terms used for
// deterministic matching, plus an optional categorized view of related terms.
// Safe for concurrent use.
type Catalog struct {
	terms      []string
	categories []Category
	categoryOf map[string]string
}

// New builds a catalog from the given terms and categories. Terms are trimmed and
// lower-cased; their order is preserved.
func New(terms []string, categories []Category) (*Catalog, error) {
	c := &Catalog{
		terms:      normalizeTerms(terms),
		categories: make([]Category, 0, len(categories)),
		categoryOf: make(map[string]string),
	}

	for _, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("category name cannot be empty")
		}
		normalized := Category{Name: name, Terms: normalizeTerms(cat.Terms)}
		for _, term := range normalized.Terms {
			// first category wins for terms listed twice
			if _, exists := c.categoryOf[term]; !exists {
				c.categoryOf[term] = name
			}
		}
		c.categories = append(c.categories, normalized)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := New(defaultTerms, defaultCategories)
	if err != nil {
		panic(fmt.Sprintf("built-in keyword catalog is invalid: %v", err))
	}
	return c
})

// Default returns the process-wide built-in catalog
func Default() *Catalog {
	return defaultCatalog()
}

// Validate checks the catalog invariants: at least one term, no empty or
// duplicate terms, all terms lower-cased.
func (c *Catalog) Validate() error {
	if c == nil || len(c.terms) == 0 {
		return fmt.Errorf("catalog has no terms")
	}

	seen := make(map[string]struct{}, len(c.terms))
	for i, term := range c.terms {
		if term == "" {
			return fmt.Errorf("catalog term %d is empty", i)
		}
		if term != strings.ToLower(term) {
			return fmt.Errorf("catalog term %q is not lower-cased", term)
		}
		if _, dup := seen[term]; dup {
			return fmt.Errorf("catalog term %q is listed more than once", term)
		}
		seen[term] = struct{}{}
	}
	return nil
}

// Terms returns a copy of the ordered flat term list
func (c *Catalog) Terms() []string {
	return slices.Clone(c.terms)
}

// Len returns the number of flat terms
func (c *Catalog) Len() int {
	return len(c.terms)
}

// Categories returns a copy of the categorized view
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Terms: slices.Clone(cat.Terms)}
	}
	return out
}

// CategoryOf returns the first category listing term, or UncategorizedCategory.
func (c *Catalog) CategoryOf(term string) string {
	if name, ok := c.categoryOf[strings.ToLower(strings.TrimSpace(term))]; ok {
		return name
	}
	return UncategorizedCategory
}

// Scan returns, in catalog order, every term that occurs in text as a
// case-insensitive substring. "sql" matches inside "postgresql"; callers
// depend on that containment behavior, so it is kept as is.
func (c *Catalog) Scan(text string) []string {
	lowered := strings.ToLower(text)
	found := make([]string, 0)
	for _, term := range c.terms {
		if strings.Contains(lowered, term) {
			found = append(found, term)
		}
	}
	return found
}

// GroupByCategory buckets terms by CategoryOf, keeping the input order in each bucket.
func (c *Catalog) GroupByCategory(terms []string) map[string][]string {
	groups := make(map[string][]string)
	for _, term := range terms {
		name := c.CategoryOf(term)
		groups[name] = append(groups[name], term)
	}
	return groups
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		out = append(out, strings.ToLower(strings.TrimSpace(term)))
	}
	return out
}

var defaultTerms = []string{
	"javascript", "python", "java", "react", "node.js", "express", "mongodb", "sql",
	"html", "css", "typescript", "vue", "angular", "docker", "kubernetes", "aws",
	"azure", "git", "agile", "scrum", "rest", "api", "microservices", "devops",
	"machine learning", "data science", "artificial intelligence", "deep learning",
}

var defaultCategories = []Category{
	{Name: "frontend", Terms: []string{"react", "vue", "angular", "typescript", "javascript", "html", "css", "sass", "tailwind"}},
	{Name: "backend", Terms: []string{"node.js", "python", "java", "c#", "go", "rust", "express", "fastapi", "spring"}},
	{Name: "database", Terms: []string{"mongodb", "postgresql", "mysql", "redis", "elasticsearch", "dynamodb"}},
	{Name: "cloud", Terms: []string{"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "serverless"}},
	{Name: "devops", Terms: []string{"ci/cd", "jenkins", "github actions", "gitlab ci", "monitoring", "logging"}},
	{Name: "mobile", Terms: []string{"react native", "flutter", "swift", "kotlin", "xamarin"}},
	{Name: "ai_ml", Terms: []string{"machine learning", "deep learning", "tensorflow", "pytorch", "scikit-learn"}},
	{Name: "leadership", Terms: []string{"team lead", "project management", "mentoring", "cross-functional"}},
	{Name: "communication", Terms: []string{"presentation", "documentation", "stakeholder management"}},
	{Name: "certifications", Terms: []string{"aws certified", "azure certified", "google cloud", "cissp", "pmp"}},
}
