package core

import "strings"

// Group is a closed-set tag classifying categories.
type Group string

const (
	GroupFood          Group = "Ăn uống"
	GroupShopping      Group = "Mua sắm"
	GroupLiving        Group = "Sinh hoạt"
	GroupEntertainment Group = "Giải trí"
	GroupOther         Group = "Khác"

	// GroupAll is the filter sentinel matching every group. It is not a
	// valid category group.
	GroupAll Group = "Tất cả"
)

// Groups lists the category groups in display order.
var Groups = []Group{GroupFood, GroupShopping, GroupLiving, GroupEntertainment, GroupOther}

var groupKeys = map[string]Group{
	"food":          GroupFood,
	"shopping":      GroupShopping,
	"living":        GroupLiving,
	"entertainment": GroupEntertainment,
	"other":         GroupOther,
	"all":           GroupAll,
}

// IsValid reports whether g may be assigned to a category.
func (g Group) IsValid() bool {
	for _, v := range Groups {
		if g == v {
			return true
		}
	}
	return false
}

// Key returns the ASCII key of the group ("food", "all", ...).
func (g Group) Key() string {
	for k, v := range groupKeys {
		if v == g {
			return k
		}
	}
	return ""
}

// ParseGroup accepts either the display value or the ASCII key, ignoring
// case. An empty string parses as GroupAll.
func ParseGroup(s string) (Group, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return GroupAll, nil
	}
	if g, ok := groupKeys[strings.ToLower(s)]; ok {
		return g, nil
	}
	if strings.EqualFold(s, string(GroupAll)) {
		return GroupAll, nil
	}
	for _, g := range Groups {
		if strings.EqualFold(s, string(g)) {
			return g, nil
		}
	}
	return "", ErrInvalidGroup
}

// PresetColor is a named colour offered by the category form.
type PresetColor struct {
	Name string
	Hex  string
}

var PresetColors = []PresetColor{
	{"Red", "#ef4444"},
	{"Orange", "#f97316"},
	{"Amber", "#f59e0b"},
	{"Yellow", "#eab308"},
	{"Lime", "#84cc16"},
	{"Green", "#22c55e"},
	{"Emerald", "#10b981"},
	{"Teal", "#14b8a6"},
	{"Cyan", "#06b6d4"},
	{"Sky", "#0ea5e9"},
	{"Blue", "#3b82f6"},
	{"Indigo", "#6366f1"},
	{"Violet", "#8b5cf6"},
	{"Purple", "#a855f7"},
	{"Fuchsia", "#d946ef"},
	{"Pink", "#ec4899"},
	{"Rose", "#f43f5e"},
}

// DefaultColor is used when a category is created without a colour.
const DefaultColor = "#ef4444"
