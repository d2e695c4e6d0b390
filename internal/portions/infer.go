// Package portions derives household serving sizes from a product name.
package portions

import (
	"strings"

	"github.com/nutritrack/food-catalog/internal/foods"
)

type serving struct {
	name  string
	grams float64
}

type rule struct {
	kind     string
	keywords []string
	servings []serving
}

// rules are evaluated top to bottom and the first keyword hit wins, so a
// "yogur de leche" resolves as a liquid.
var rules = []rule{
	{
		kind:     "liquid",
		keywords: []string{"leche", "zumo", "bebida", "agua", "refresco", "milk", "juice", "drink", "water"},
		servings: []serving{{"vaso (250ml)", 250}, {"taza (200ml)", 200}},
	},
	{
		kind:     "yogurt",
		keywords: []string{"yogur", "yoghurt", "yogurt"},
		servings: []serving{{"unidad (125g)", 125}},
	},
	{
		kind:     "bread",
		keywords: []string{"pan", "galleta", "biscuit", "bread"},
		servings: []serving{{"rebanada (30g)", 30}, {"porción (50g)", 50}},
	},
	{
		kind:     "cheese",
		keywords: []string{"queso", "cheese"},
		servings: []serving{{"loncha (25g)", 25}, {"porción (50g)", 50}},
	},
	{
		kind:     "pasta",
		keywords: []string{"pasta", "arroz", "macarrones", "espagueti", "rice", "spaghetti"},
		servings: []serving{{"plato (150g)", 150}, {"porción (200g)", 200}},
	},
	{
		kind:     "meat",
		keywords: []string{"carne", "pollo", "pescado", "ternera", "cerdo", "pechuga", "filete", "chicken", "beef", "fish"},
		servings: []serving{{"filete (150g)", 150}, {"porción (200g)", 200}},
	},
	{
		kind:     "nuts",
		keywords: []string{"frutos secos", "almendra", "nuez", "avellana", "pistacho", "nuts", "almond"},
		servings: []serving{{"puñado (30g)", 30}},
	},
}

var fallback = []serving{{"porción (150g)", 150}, {"porción (200g)", 200}}

// Infer returns the 100 g baseline followed by the servings of the first
// matching rule, or the generic servings when nothing matches.
func Infer(name string) []foods.Portion {
	servings := fallback
	if r, ok := match(name); ok {
		servings = r.servings
	}

	out := make([]foods.Portion, 0, len(servings)+1)
	out = append(out, foods.BaselinePortion())
	for _, s := range servings {
		out = append(out, foods.NewPortion(s.name, s.grams))
	}
	return out
}

// ruleKind names the rule that Infer would apply ("fallback" when none matches).
func ruleKind(name string) string {
	if r, ok := match(name); ok {
		return r.kind
	}
	return "fallback"
}

func match(name string) (rule, bool) {
	lowered := strings.ToLower(name)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r, true
			}
		}
	}
	return rule{}, false
}
