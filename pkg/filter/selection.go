package filter

import (
	"maps"
	"slices"
	"strings"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
)

// Selection is a set of selected facet values. A Selection held by a State is never
// modified in place; toggled returns a new set.
type Selection map[string]struct{}

func NewSelection(values ...string) Selection {
	s := make(Selection, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			s[v] = struct{}{}
		}
	}
	return s
}

func (s Selection) Has(value string) bool {
	_, ok := s[value]
	return ok
}

func (s Selection) Len() int {
	return len(s)
}

// Values returns the members sorted, for stable output.
func (s Selection) Values() []string {
	return slices.Sorted(maps.Keys(s))
}

func (s Selection) lowered() []string {
	ret := make([]string, 0, len(s))
	for v := range s {
		ret = append(ret, strings.ToLower(v))
	}
	return ret
}

func (s Selection) toggled(value string) Selection {
	ret := make(Selection, len(s)+1)
	maps.Copy(ret, s)
	if _, ok := ret[value]; ok {
		delete(ret, value)
	} else {
		ret[value] = struct{}{}
	}
	return ret
}

func (s Selection) MarshalJSON() ([]byte, error) {
	return jsoncompat.Marshal(s.Values())
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var values []string
	if err := jsoncompat.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewSelection(values...)
	return nil
}
