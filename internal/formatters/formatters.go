package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"resumatch/internal/catalog"
	"resumatch/internal/types"
)

// Formatter renders one report type in one output format
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

const (
	typeAny            = "any"
	typeScoringResult  = "ScoringResult"
	typeCatalogListing = "CatalogListing"
)

// Registry maps output formats and report types to formatters
type Registry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// DefaultRegistry groups keywords with the built-in catalog
var DefaultRegistry = NewRegistry(nil)

// NewRegistry creates a registry with the json, text and markdown formatters.
// cat is used to group matched keywords by category; nil means the built-in catalog.
func NewRegistry(cat *catalog.Catalog) *Registry {
	r := &Registry{formatters: make(map[string]map[string]Formatter)}

	r.Register("json", &JSONFormatter{})
	r.Register("text", &ScoringTextFormatter{catalog: cat})
	r.Register("markdown", &ScoringMarkdownFormatter{catalog: cat})
	r.Register("text", &CatalogTextFormatter{})
	r.Register("markdown", &CatalogMarkdownFormatter{})

	return r
}

// Register adds formatter for format and the type it supports
func (r *Registry) Register(format string, formatter Formatter) {
	if r.formatters[format] == nil {
		r.formatters[format] = make(map[string]Formatter)
	}
	r.formatters[format][formatter.SupportedType()] = formatter
}

// Format renders data, preferring a type-specific formatter over the generic one
func (r *Registry) Format(data any, format string) (string, error) {
	dataType := dataTypeOf(data)

	if byType, ok := r.formatters[format]; ok {
		if formatter, ok := byType[dataType]; ok {
			return formatter.Format(data)
		}
		if formatter, ok := byType[typeAny]; ok {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// SupportedFormats returns the registered formats, sorted
func (r *Registry) SupportedFormats() []string {
	formats := make([]string, 0, len(r.formatters))
	for format := range r.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func dataTypeOf(data any) string {
	switch data.(type) {
	case types.ScoringResult, *types.ScoringResult:
		return typeScoringResult
	case types.CatalogListing, *types.CatalogListing:
		return typeCatalogListing
	default:
		return typeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return typeAny
}

func scoringResultOf(data any) (*types.ScoringResult, error) {
	switch v := data.(type) {
	case types.ScoringResult:
		return &v, nil
	case *types.ScoringResult:
		if v == nil {
			return nil, fmt.Errorf("scoring result is nil")
		}
		return v, nil
	default:
		return nil, fmt.Errorf("expected ScoringResult, got %T", data)
	}
}

func catalogListingOf(data any) (*types.CatalogListing, error) {
	switch v := data.(type) {
	case types.CatalogListing:
		return &v, nil
	case *types.CatalogListing:
		if v == nil {
			return nil, fmt.Errorf("catalog listing is nil")
		}
		return v, nil
	default:
		return nil, fmt.Errorf("expected CatalogListing, got %T", data)
	}
}

// categoryGroup is one category bucket in first-seen order
type categoryGroup struct {
	name  string
	terms []string
}

func groupKeywords(cat *catalog.Catalog, keywords []string) []categoryGroup {
	if cat == nil {
		cat = catalog.Default()
	}

	var groups []categoryGroup
	index := make(map[string]int)
	for _, keyword := range keywords {
		name := cat.CategoryOf(keyword)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, categoryGroup{name: name})
		}
		groups[i].terms = append(groups[i].terms, keyword)
	}
	return groups
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// sortedCategoryNames keeps map-based listings stable
func sortedCategoryNames(categories map[string][]string) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
