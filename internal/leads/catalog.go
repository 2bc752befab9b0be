package leads

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// CatalogCompany is one prospect company in the catalog.
type CatalogCompany struct {
	Name   string `yaml:"name" validate:"required"`
	Domain string `yaml:"domain" validate:"required,fqdn"`
	Size   string `yaml:"size" validate:"oneof=Small Medium Large"`
}

// IndustryEntry lists the usual buyer roles and known prospects of an
// industry.
type IndustryEntry struct {
	Roles     []string         `yaml:"roles" validate:"min=1,dive,required"`
	Companies []CatalogCompany `yaml:"companies" validate:"min=1,dive"`
}

// Category groups offerings that sell to the same industries.
type Category struct {
	Name     string         `yaml:"name" validate:"required"`
	Keywords []string       `yaml:"keywords"`
	Targets  []string       `yaml:"targets" validate:"min=1,dive,required"`
	Roles    []string       `yaml:"roles" validate:"min=1,dive,required"`
	Bonus    map[string]int `yaml:"bonus" validate:"dive,min=0,max=20"`

	re *regexp.Regexp
}

func (c *Category) matches(offering string) bool {
	return c.re != nil && c.re.MatchString(offering)
}

// Catalog is the fixed table driving deterministic external matching.
type Catalog struct {
	Categories []*Category               `yaml:"categories" validate:"min=1,dive"`
	Industries map[string]*IndustryEntry `yaml:"industries" validate:"min=1,dive"`
}

// LoadCatalog reads a catalog from path, or the embedded catalog when path
// is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(embeddedCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "leads: read catalog %s", path)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "leads: parse catalog")
	}
	if err := validator.New().Struct(&c); err != nil {
		return nil, eris.Wrap(err, "leads: invalid catalog")
	}
	for _, cat := range c.Categories {
		for _, t := range cat.Targets {
			if _, ok := c.Industries[t]; !ok {
				return nil, eris.Errorf("leads: category %s targets unknown industry %s", cat.Name, t)
			}
		}
		if len(cat.Keywords) > 0 {
			quoted := make([]string, len(cat.Keywords))
			for i, k := range cat.Keywords {
				quoted[i] = regexp.QuoteMeta(strings.ToLower(k))
			}
			cat.re = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
		}
	}
	return &c, nil
}

// Categorize returns every category whose keywords match offering, or the
// fallback category when none do.
func (c *Catalog) Categorize(offering string) []*Category {
	var out []*Category
	for _, cat := range c.Categories {
		if cat.matches(offering) {
			out = append(out, cat)
		}
	}
	if len(out) == 0 {
		out = append(out, c.Fallback())
	}
	return out
}

// Fallback is the first keyword-less category, or the last category.
func (c *Catalog) Fallback() *Category {
	for _, cat := range c.Categories {
		if len(cat.Keywords) == 0 {
			return cat
		}
	}
	return c.Categories[len(c.Categories)-1]
}

// Category looks a category up by name.
func (c *Catalog) Category(name string) *Category {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat
		}
	}
	return nil
}

// Companies returns the prospects listed for industry.
func (c *Catalog) Companies(industry string) []CatalogCompany {
	if e, ok := c.Industries[industry]; ok {
		return e.Companies
	}
	return nil
}

// IndustryRoles returns the buyer roles listed for industry.
func (c *Catalog) IndustryRoles(industry string) []string {
	if e, ok := c.Industries[industry]; ok {
		return e.Roles
	}
	return nil
}
