package care

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gardencal/internal/model"
)

// LocationGroup is the set of plants sharing a trimmed location.
type LocationGroup struct {
	Name   string        `json:"name"`
	Plants []model.Plant `json:"plants"`
}

// LocationName returns p's trimmed location, or UnassignedLocation when it
// is blank.
func LocationName(p model.Plant) string {
	if loc := strings.TrimSpace(p.Location); loc != "" {
		return loc
	}
	return UnassignedLocation
}

// GroupByLocation groups plants by location using English collation.
func GroupByLocation(plants []model.Plant) []LocationGroup {
	return GroupByLocationIn(language.English, plants)
}

// GroupByLocationIn groups plants by location and orders the groups by name
// with the collation rules of tag. Plants keep their input order inside a
// group.
func GroupByLocationIn(tag language.Tag, plants []model.Plant) []LocationGroup {
	index := make(map[string]int)
	groups := make([]LocationGroup, 0)
	for _, p := range plants {
		name := LocationName(p)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, LocationGroup{Name: name})
		}
		groups[i].Plants = append(groups[i].Plants, p)
	}

	// Collators keep scratch buffers, so each call gets its own.
	c := collate.New(tag)
	sort.SliceStable(groups, func(i, j int) bool {
		return c.CompareString(groups[i].Name, groups[j].Name) < 0
	})
	return groups
}

// FilterByLocation keeps the group called name. An empty name or "all"
// keeps every group.
func FilterByLocation(groups []LocationGroup, name string) []LocationGroup {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "all") {
		return groups
	}
	out := make([]LocationGroup, 0, 1)
	for _, g := range groups {
		if g.Name == name {
			out = append(out, g)
		}
	}
	return out
}
