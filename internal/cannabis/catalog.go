package cannabis

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/harvest-advisor/internal/common"
)

//go:embed varieties.yaml
var defaultCatalog []byte

// ErrUnknownVariety is returned by Catalog.Get for ids not in the catalog.
var ErrUnknownVariety = common.NewAppError(common.ErrCodeNotFoundVariety, "unknown cannabis variety", nil)

type catalogFile struct {
	Varieties []Variety `yaml:"varieties"`
}

// Catalog is an immutable, validated set of varieties indexed by id.
type Catalog struct {
	byID  map[string]Variety
	order []string
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadCatalog reads a YAML catalog from path. An empty path yields the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variety catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode variety catalog: %w", err)
	}
	if len(file.Varieties) == 0 {
		return nil, fmt.Errorf("variety catalog is empty")
	}

	v := validator.New()
	c := &Catalog{byID: make(map[string]Variety, len(file.Varieties))}
	for i, variety := range file.Varieties {
		if err := v.Struct(variety); err != nil {
			return nil, fmt.Errorf("variety #%d (%s): %w", i, variety.ID, err)
		}
		if _, dup := c.byID[variety.ID]; dup {
			return nil, fmt.Errorf("duplicate variety id %q", variety.ID)
		}
		c.byID[variety.ID] = variety
		c.order = append(c.order, variety.ID)
	}
	return c, nil
}

// Get returns the variety with the given id.
func (c *Catalog) Get(id string) (Variety, error) {
	v, ok := c.byID[id]
	if !ok {
		return Variety{}, fmt.Errorf("%w: %s", ErrUnknownVariety, id)
	}
	return v, nil
}

// All returns the varieties in catalog order.
func (c *Catalog) All() []Variety {
	out := make([]Variety, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ByType returns the ids of varieties of type t, sorted.
func (c *Catalog) ByType(t VarietyType) []string {
	var ids []string
	for id, v := range c.byID {
		if v.Type == t {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
