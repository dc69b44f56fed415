package facet

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/matst80/slask-facets/pkg/types"
	"gopkg.in/yaml.v3"
)

var ErrMissingGeneral = errors.New("catalog has no general definition with brands")

type Color struct {
	Name    string `yaml:"name" json:"name"`
	Display string `yaml:"display" json:"display"`
}

type PriceRange struct {
	Label string  `yaml:"label" json:"label"`
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
}

// Definition lists the facets shown for one category type.
type Definition struct {
	Category      types.CategoryType `yaml:"-" json:"category"`
	Subcategories Subcategories      `yaml:"subcategories" json:"subcategories"`
	Brands        []string           `yaml:"brands" json:"brands"`
	Colors        []Color            `yaml:"colors" json:"colors,omitempty"`
	Sizes         []string           `yaml:"sizes" json:"sizes,omitempty"`
	Materials     []string           `yaml:"materials" json:"materials,omitempty"`
	Genders       []string           `yaml:"genders" json:"genders,omitempty"`
	PriceRanges   []PriceRange       `yaml:"priceRanges" json:"priceRanges,omitempty"`
	Capacities    []string           `yaml:"capacities" json:"capacities,omitempty"`
	PowerSources  []string           `yaml:"powerSources" json:"powerSources,omitempty"`
	Connectivity  []string           `yaml:"connectivity" json:"connectivity,omitempty"`
	Features      []string           `yaml:"features" json:"features,omitempty"`
	Platforms     []string           `yaml:"platforms" json:"platforms,omitempty"`
	AgeRanges     []string           `yaml:"ageRanges" json:"ageRanges,omitempty"`
	Ratings       []int              `yaml:"-" json:"ratings,omitempty"`
	Availability  bool               `yaml:"-" json:"availability"`
}

// ColorNames returns the selectable values of the color facet.
func (d Definition) ColorNames() []string {
	ret := make([]string, len(d.Colors))
	for i, c := range d.Colors {
		ret[i] = c.Name
	}
	return ret
}

// Common holds the facets every category gets regardless of type.
type Common struct {
	Ratings     []int        `yaml:"ratings"`
	Genders     []string     `yaml:"genders"`
	PriceRanges []PriceRange `yaml:"priceRanges"`
}

type catalogFile struct {
	Common     Common                            `yaml:"common"`
	Categories map[types.CategoryType]Definition `yaml:"categories"`
}

type Catalog struct {
	common      Common
	definitions map[types.CategoryType]Definition
}

//go:embed catalog.yaml
var embeddedCatalog []byte

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(embeddedCatalog))
})

// DefaultCatalog returns the catalog shipped with the binary.
func DefaultCatalog() *Catalog {
	c, err := defaultCatalog()
	if err != nil {
		panic(fmt.Sprintf("embedded facet catalog: %v", err))
	}
	return c
}

func LoadCatalog(r io.Reader) (*Catalog, error) {
	const op = "facet.LoadCatalog"
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	general, ok := file.Categories[types.CategoryGeneral]
	if !ok || len(general.Brands) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingGeneral)
	}
	return &Catalog{
		common:      file.Common,
		definitions: file.Categories,
	}, nil
}

// FacetsFor returns the category definition merged with the common facets. Unknown
// category types get the general definition. The result is a copy.
func (c *Catalog) FacetsFor(ct types.CategoryType) Definition {
	general := c.definitions[types.CategoryGeneral]
	def, ok := c.definitions[ct]
	if !ok {
		def = general
		ct = types.CategoryGeneral
	}
	ret := Definition{
		Category:      ct,
		Subcategories: def.Subcategories.clone(),
		Brands:        slices.Clone(def.Brands),
		Colors:        slices.Clone(def.Colors),
		Sizes:         slices.Clone(def.Sizes),
		Materials:     slices.Clone(def.Materials),
		Genders:       slices.Clone(def.Genders),
		PriceRanges:   slices.Clone(def.PriceRanges),
		Capacities:    slices.Clone(def.Capacities),
		PowerSources:  slices.Clone(def.PowerSources),
		Connectivity:  slices.Clone(def.Connectivity),
		Features:      slices.Clone(def.Features),
		Platforms:     slices.Clone(def.Platforms),
		AgeRanges:     slices.Clone(def.AgeRanges),
		Ratings:       slices.Clone(c.common.Ratings),
		Availability:  true,
	}
	if len(ret.Brands) == 0 {
		ret.Brands = slices.Clone(general.Brands)
	}
	if len(ret.Genders) == 0 {
		ret.Genders = slices.Clone(c.common.Genders)
	}
	if len(ret.PriceRanges) == 0 {
		ret.PriceRanges = slices.Clone(c.common.PriceRanges)
	}
	return ret
}

// ForLabel resolves a free-form category label and returns its facets.
func (c *Catalog) ForLabel(label string) Definition {
	return c.FacetsFor(Resolve(label))
}

func (c *Catalog) Categories() []types.CategoryType {
	return slices.Sorted(maps.Keys(c.definitions))
}
