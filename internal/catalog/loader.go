package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML layout of a custom catalog.
//
//	terms: [javascript, python]
//	categories:
//	  - name: frontend
//	    terms: [javascript]
//	industries:
//	  - name: tech
//	    keywords: [software, saas]
//
// industries is optional; the built-in taxonomy is used when it is absent.
type File struct {
	Terms      []string       `yaml:"terms" validate:"required,min=1,dive,required"`
	Categories []FileCategory `yaml:"categories" validate:"dive"`
	Industries []FileIndustry `yaml:"industries" validate:"dive"`
}

// FileCategory is one category entry of a catalog file
type FileCategory struct {
	Name  string   `yaml:"name" validate:"required"`
	Terms []string `yaml:"terms" validate:"required,min=1,dive,required"`
}

// FileIndustry is one industry entry of a catalog file
type FileIndustry struct {
	Name     string   `yaml:"name" validate:"required"`
	Keywords []string `yaml:"keywords" validate:"required,min=1,dive,required"`
}

// LoadFile reads a YAML catalog file and builds the catalog and taxonomy it describes.
func LoadFile(path string) (*Catalog, *Taxonomy, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve catalog file path '%s': %w", path, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog file '%s': %w", absPath, err)
	}

	return Parse(data)
}

// Parse builds a catalog and taxonomy from YAML content
func Parse(data []byte) (*Catalog, *Taxonomy, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(file); err != nil {
		return nil, nil, fmt.Errorf("invalid catalog file: %w", err)
	}

	categories := make([]Category, 0, len(file.Categories))
	for _, cat := range file.Categories {
		categories = append(categories, Category{Name: cat.Name, Terms: cat.Terms})
	}

	cat, err := New(file.Terms, categories)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid catalog file: %w", err)
	}

	if len(file.Industries) == 0 {
		return cat, DefaultTaxonomy(), nil
	}

	industries := make([]Industry, 0, len(file.Industries))
	for _, ind := range file.Industries {
		industries = append(industries, Industry{Name: ind.Name, Keywords: ind.Keywords})
	}
	taxonomy, err := NewTaxonomy(industries)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid catalog file: %w", err)
	}

	return cat, taxonomy, nil
}
