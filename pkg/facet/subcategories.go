package facet

import (
	"fmt"
	"strings"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"gopkg.in/yaml.v3"
)

type SubcategoryShape uint8

const (
	ShapeFlat SubcategoryShape = iota
	ShapeGrouped
)

func (s SubcategoryShape) String() string {
	if s == ShapeGrouped {
		return "grouped"
	}
	return "flat"
}

type SubcategoryGroup struct {
	Label string   `json:"label"`
	Items []string `json:"items"`
}

// Subcategories is either a flat list or an ordered set of labelled groups. Selections
// are always leaf strings, use Leaves or Contains instead of switching on Shape.
type Subcategories struct {
	Shape  SubcategoryShape
	Items  []string
	Groups []SubcategoryGroup
}

func Flat(items ...string) Subcategories {
	return Subcategories{Shape: ShapeFlat, Items: items}
}

func Grouped(groups ...SubcategoryGroup) Subcategories {
	return Subcategories{Shape: ShapeGrouped, Groups: groups}
}

// Leaves returns every selectable subcategory once, in catalog order.
func (s Subcategories) Leaves() []string {
	if s.Shape == ShapeFlat {
		return dedupe(s.Items)
	}
	all := make([]string, 0)
	for _, g := range s.Groups {
		all = append(all, g.Items...)
	}
	return dedupe(all)
}

func (s Subcategories) Contains(leaf string) bool {
	for _, l := range s.Leaves() {
		if strings.EqualFold(l, leaf) {
			return true
		}
	}
	return false
}

func (s Subcategories) IsEmpty() bool {
	return len(s.Leaves()) == 0
}

func (s Subcategories) clone() Subcategories {
	ret := Subcategories{Shape: s.Shape}
	if s.Items != nil {
		ret.Items = append([]string(nil), s.Items...)
	}
	for _, g := range s.Groups {
		ret.Groups = append(ret.Groups, SubcategoryGroup{Label: g.Label, Items: append([]string(nil), g.Items...)})
	}
	return ret
}

func (s *Subcategories) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*s = Flat(items...)
	case yaml.MappingNode:
		groups := make([]SubcategoryGroup, 0, len(node.Content)/2)
		// mapping content alternates key, value and keeps document order
		for i := 0; i+1 < len(node.Content); i += 2 {
			var items []string
			if err := node.Content[i+1].Decode(&items); err != nil {
				return fmt.Errorf("subcategory group %q: %w", node.Content[i].Value, err)
			}
			groups = append(groups, SubcategoryGroup{Label: node.Content[i].Value, Items: items})
		}
		*s = Grouped(groups...)
	default:
		return fmt.Errorf("line %d: subcategories must be a list or a map of lists", node.Line)
	}
	return nil
}

type subcategoriesJson struct {
	Kind   string             `json:"kind"`
	Items  []string           `json:"items,omitempty"`
	Groups []SubcategoryGroup `json:"groups,omitempty"`
}

func (s Subcategories) MarshalJSON() ([]byte, error) {
	return jsoncompat.Marshal(subcategoriesJson{
		Kind:   s.Shape.String(),
		Items:  s.Items,
		Groups: s.Groups,
	})
}

func (s *Subcategories) UnmarshalJSON(data []byte) error {
	var raw subcategoriesJson
	if err := jsoncompat.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Kind == "grouped" {
		*s = Grouped(raw.Groups...)
	} else {
		*s = Flat(raw.Items...)
	}
	return nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	ret := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ret = append(ret, v)
	}
	return ret
}
