package lexicon

import (
	"fmt"
	"path/filepath"

	"github.com/feeleurope/luxeagent/ai/configloader"
)

// Extension carries deployment specific additions to the built-in tables.
//
// Example:
//
//	min_version: 0.1.0
//	brand_aliases:
//	  香奈儿包: chanel
//	brand_websites:
//	  - brand: the row
//	    domain: therow.com
//	families:
//	  maroquinerie homme: Bags
//	product_types:
//	  - phrase: 托特包
//	    keywords: tote cabas
type Extension struct {
	// MinVersion is the oldest service version the file is written for.
	MinVersion    string            `yaml:"min_version"`
	BrandAliases  map[string]string `yaml:"brand_aliases"`
	BrandWebsites []BrandSite       `yaml:"brand_websites"`
	Families      map[string]string `yaml:"families"`
	ProductTypes  []ProductType     `yaml:"product_types"`
}

// LoadExtension reads an extension file.
func LoadExtension(path string) (Extension, error) {
	var ext Extension
	loader := configloader.NewLoader(filepath.Dir(path))
	if err := loader.Load(filepath.Base(path), &ext); err != nil {
		return Extension{}, fmt.Errorf("load lexicon extension: %w", err)
	}
	return ext, nil
}
