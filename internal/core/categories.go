package core

import (
	"regexp"
	"sort"
	"strings"
)

// IconTag names a symbol in the fixed client icon set. Unknown names resolve
// to IconDefault via ParseIcon instead of falling through silently.
type IconTag string

const IconDefault IconTag = "Tag"

var iconSet = map[IconTag]struct{}{
	"Utensils": {}, "Car": {}, "Home": {}, "Film": {}, "HeartPulse": {},
	"ShoppingBag": {}, "Banknote": {}, "MoreHorizontal": {}, "Crown": {},
	"Tag": {}, "Gift": {}, "Globe": {}, "Briefcase": {}, "GraduationCap": {},
	"Gamepad2": {}, "Music": {}, "Plane": {}, "Star": {}, "Smile": {},
	"Wrench": {}, "Zap": {}, "Book": {}, "Coffee": {}, "Anchor": {},
	"Sun": {}, "Moon": {}, "Umbrella": {}, "Dog": {}, "Cat": {},
	"Smartphone": {}, "Monitor": {}, "Headphones": {}, "Scissors": {},
	"Key": {}, "Sparkles": {},
}

// ParseIcon maps a raw icon name to a known tag. The second return value is
// false when the name was unknown and the default was substituted.
func ParseIcon(name string) (IconTag, bool) {
	tag := IconTag(strings.TrimSpace(name))
	if _, ok := iconSet[tag]; ok {
		return tag, true
	}
	return IconDefault, false
}

// ColorTokens is the presentation token set carried by a category. The
// tokens are opaque to the server; clients resolve them against their theme.
type ColorTokens struct {
	Text   string `json:"text"`
	Bg     string `json:"bg"`
	Border string `json:"border"`
	Bar    string `json:"bar"`
	Hex    string `json:"hex"`
}

// Category classifies transactions of exactly one kind.
type Category struct {
	ID     string      `json:"id"` // server-assigned id, or the key itself for defaults
	Key    string      `json:"key"`
	Label  string      `json:"label"`
	Icon   IconTag     `json:"icon"`
	Colors ColorTokens `json:"colors"`
	Kind   Kind        `json:"kind"`
}

var slugSpaces = regexp.MustCompile(`\s+`)

// Slugify derives the map key for a user-defined category from its label:
// lowercased, whitespace runs collapsed to underscores.
func Slugify(label string) string {
	return slugSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "_")
}

// DefaultCategories returns the fixed per-kind category set that always
// exists for every user. User categories are merged on top of these.
func DefaultCategories() map[string]Category {
	defaults := map[string]Category{
		"income":        {Label: "Salário", Icon: "Banknote", Kind: Income, Colors: ColorTokens{Text: "text-emerald-400", Bg: "bg-emerald-500/10", Border: "border-emerald-500/20", Bar: "bg-emerald-500", Hex: "#10b981"}},
		"extra_income":  {Label: "Renda Extra", Icon: "Sparkles", Kind: Income, Colors: ColorTokens{Text: "text-emerald-400", Bg: "bg-emerald-500/10", Border: "border-emerald-500/20", Bar: "bg-emerald-500", Hex: "#10b981"}},
		"kingdom":       {Label: "Reino", Icon: "Crown", Kind: Expense, Colors: ColorTokens{Text: "text-yellow-400", Bg: "bg-yellow-500/10", Border: "border-yellow-500/20", Bar: "bg-yellow-500", Hex: "#eab308"}},
		"food":          {Label: "Alimentação", Icon: "Utensils", Kind: Expense, Colors: ColorTokens{Text: "text-orange-400", Bg: "bg-orange-500/10", Border: "border-orange-500/20", Bar: "bg-orange-500", Hex: "#f97316"}},
		"transport":     {Label: "Transporte", Icon: "Car", Kind: Expense, Colors: ColorTokens{Text: "text-blue-400", Bg: "bg-blue-500/10", Border: "border-blue-500/20", Bar: "bg-blue-500", Hex: "#3b82f6"}},
		"home":          {Label: "Casa", Icon: "Home", Kind: Expense, Colors: ColorTokens{Text: "text-indigo-400", Bg: "bg-indigo-500/10", Border: "border-indigo-500/20", Bar: "bg-indigo-500", Hex: "#6366f1"}},
		"entertainment": {Label: "Lazer", Icon: "Film", Kind: Expense, Colors: ColorTokens{Text: "text-pink-400", Bg: "bg-pink-500/10", Border: "border-pink-500/20", Bar: "bg-pink-500", Hex: "#ec4899"}},
		"health":        {Label: "Saúde", Icon: "HeartPulse", Kind: Expense, Colors: ColorTokens{Text: "text-red-400", Bg: "bg-red-500/10", Border: "border-red-500/20", Bar: "bg-red-500", Hex: "#ef4444"}},
		"shopping":      {Label: "Compras", Icon: "ShoppingBag", Kind: Expense, Colors: ColorTokens{Text: "text-purple-400", Bg: "bg-purple-500/10", Border: "border-purple-500/20", Bar: "bg-purple-500", Hex: "#a855f7"}},
		"other":         {Label: "Outros", Icon: "MoreHorizontal", Kind: Expense, Colors: ColorTokens{Text: "text-zinc-400", Bg: "bg-zinc-500/10", Border: "border-zinc-500/20", Bar: "bg-zinc-500", Hex: "#71717a"}},
	}
	for key, c := range defaults {
		c.ID = key
		c.Key = key
		defaults[key] = c
	}
	return defaults
}

// MergeCategories overlays user-defined categories on the defaults. Each
// custom category is keyed by its slug, or by its server id when the slug
// is empty. Later entries win, matching last-write-wins cache semantics.
func MergeCategories(custom []Category) map[string]Category {
	merged := DefaultCategories()
	for _, c := range custom {
		key := c.Key
		if key == "" {
			key = Slugify(c.Label)
		}
		if key == "" {
			key = c.ID
		}
		c.Key = key
		merged[key] = c
	}
	return merged
}

// CategoryLabel resolves a category key to its display label, falling back
// to the default "Outros" label for unknown keys.
func CategoryLabel(categories map[string]Category, key string) string {
	if c, ok := categories[key]; ok {
		return c.Label
	}
	return "Outros"
}

// ExpenseCategoryKeys returns the expense-kind keys in deterministic order.
func ExpenseCategoryKeys(categories map[string]Category) []string {
	keys := make([]string, 0, len(categories))
	for key, c := range categories {
		if c.Kind == Expense {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// ColorPalette is the fixed set of color options available when creating a
// custom category.
var ColorPalette = []ColorTokens{
	{Hex: "#06b6d4", Text: "text-cyan-400", Bg: "bg-cyan-500/10", Border: "border-cyan-500/20", Bar: "bg-cyan-500"},
	{Hex: "#84cc16", Text: "text-lime-400", Bg: "bg-lime-500/10", Border: "border-lime-500/20", Bar: "bg-lime-500"},
	{Hex: "#d946ef", Text: "text-fuchsia-400", Bg: "bg-fuchsia-500/10", Border: "border-fuchsia-500/20", Bar: "bg-fuchsia-500"},
	{Hex: "#eab308", Text: "text-yellow-400", Bg: "bg-yellow-500/10", Border: "border-yellow-500/20", Bar: "bg-yellow-500"},
	{Hex: "#f43f5e", Text: "text-rose-400", Bg: "bg-rose-500/10", Border: "border-rose-500/20", Bar: "bg-rose-500"},
	{Hex: "#6366f1", Text: "text-indigo-400", Bg: "bg-indigo-500/10", Border: "border-indigo-500/20", Bar: "bg-indigo-500"},
	{Hex: "#f97316", Text: "text-orange-400", Bg: "bg-orange-500/10", Border: "border-orange-500/20", Bar: "bg-orange-500"},
	{Hex: "#3b82f6", Text: "text-blue-400", Bg: "bg-blue-500/10", Border: "border-blue-500/20", Bar: "bg-blue-500"},
	{Hex: "#ef4444", Text: "text-red-400", Bg: "bg-red-500/10", Border: "border-red-500/20", Bar: "bg-red-500"},
	{Hex: "#a855f7", Text: "text-purple-400", Bg: "bg-purple-500/10", Border: "border-purple-500/20", Bar: "bg-purple-500"},
}

// PaletteColor returns the palette entry matching a hex value, defaulting to
// the first entry for unknown values.
func PaletteColor(hex string) ColorTokens {
	for _, c := range ColorPalette {
		if strings.EqualFold(c.Hex, hex) {
			return c
		}
	}
	return ColorPalette[0]
}
