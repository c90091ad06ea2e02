package formatters

import (
	"fmt"
	"strings"
)

// CatalogTextFormatter renders a CatalogListing as plain text
type CatalogTextFormatter struct{}

func (f *CatalogTextFormatter) Format(data any) (string, error) {
	listing, err := catalogListingOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	fmt.Fprintf(&output, "=== TERMS (%d) ===\n", len(listing.Terms))
	output.WriteString(strings.Join(listing.Terms, ", "))
	output.WriteString("\n\n")

	output.WriteString("=== CATEGORIES ===\n")
	for _, name := range sortedCategoryNames(listing.Categories) {
		fmt.Fprintf(&output, "%s: %s\n", name, strings.Join(listing.Categories[name], ", "))
	}
	output.WriteString("\n")

	output.WriteString("=== INDUSTRIES ===\n")
	for i, industry := range listing.Industries {
		fmt.Fprintf(&output, "%d. %s: %s\n", i+1, industry.Name, strings.Join(industry.Keywords, ", "))
	}

	return output.String(), nil
}

func (f *CatalogTextFormatter) SupportedType() string {
	return typeCatalogListing
}

// CatalogMarkdownFormatter renders a CatalogListing as Markdown
type CatalogMarkdownFormatter struct{}

func (f *CatalogMarkdownFormatter) Format(data any) (string, error) {
	listing, err := catalogListingOf(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Keyword Catalog\n\n")
	fmt.Fprintf(&output, "## Terms (%d)\n\n", len(listing.Terms))
	for _, term := range listing.Terms {
		fmt.Fprintf(&output, "- `%s`\n", term)
	}
	output.WriteString("\n")

	output.WriteString("## Categories\n\n")
	for _, name := range sortedCategoryNames(listing.Categories) {
		fmt.Fprintf(&output, "### %s\n\n%s\n\n", name, strings.Join(listing.Categories[name], ", "))
	}

	output.WriteString("## Industries\n\n")
	output.WriteString("Classification picks the first industry with a keyword in the job description.\n\n")
	for i, industry := range listing.Industries {
		fmt.Fprintf(&output, "%d. **%s**: %s\n", i+1, industry.Name, strings.Join(industry.Keywords, ", "))
	}

	return output.String(), nil
}

func (f *CatalogMarkdownFormatter) SupportedType() string {
	return typeCatalogListing
}
