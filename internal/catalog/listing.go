package catalog

import "resumatch/internal/types"

// Listing returns the printable view of the catalog and taxonomy
func Listing(c *Catalog, t *Taxonomy) types.CatalogListing {
	listing := types.CatalogListing{
		Terms:      c.Terms(),
		Categories: make(map[string][]string, len(c.categories)),
		Industries: make([]types.IndustryKeywords, 0),
	}

	for _, cat := range c.Categories() {
		listing.Categories[cat.Name] = cat.Terms
	}

	if t != nil {
		for _, ind := range t.Industries() {
			listing.Industries = append(listing.Industries, types.IndustryKeywords{Name: ind.Name, Keywords: ind.Keywords})
		}
	}

	return listing
}
