// Package categories maps free-text category strings onto the catalog's
// controlled vocabulary.
package categories

import (
	"sort"
	"strings"
)

const (
	Meat       = "Carnes y Embutidos"
	Fish       = "Pescados y Mariscos"
	Dairy      = "Lácteos"
	Fruit      = "Frutas"
	Vegetables = "Verduras y Hortalizas"
	Legumes    = "Legumbres"
	Grains     = "Cereales y Granos"
	Bakery     = "Panadería"
	Beverages  = "Bebidas"
	Snacks     = "Snacks y Aperitivos"
	Sweets     = "Dulces y Repostería"
	Nuts       = "Frutos Secos"
	Eggs       = "Huevos"
	Oils       = "Aceites y Grasas"
	Sauces     = "Salsas y Condimentos"
	Prepared   = "Platos Preparados"

	// Other is returned for blank or unrecognised input.
	Other = "Otros"
)

type mapping struct {
	keyword string
	label   string
}

// mappings are tested in declaration order against the lower-cased input; the
// first substring hit decides the label.
var mappings = []mapping{
	{"carne", Meat}, {"carnes", Meat}, {"pollo", Meat}, {"aves", Meat},
	{"cerdo", Meat}, {"ternera", Meat}, {"embutido", Meat}, {"jamón", Meat},
	{"chorizo", Meat},
	{"pescado", Fish}, {"marisco", Fish}, {"salmón", Fish}, {"atún", Fish},
	{"merluza", Fish},
	{"lácteo", Dairy}, {"leche", Dairy}, {"queso", Dairy}, {"yogur", Dairy},
	{"yogurt", Dairy}, {"nata", Dairy}, {"mantequilla", Dairy},
	{"fruta", Fruit}, {"manzana", Fruit}, {"plátano", Fruit}, {"naranja", Fruit},
	{"verdura", Vegetables}, {"hortaliza", Vegetables}, {"ensalada", Vegetables},
	{"tomate", Vegetables},
	{"legumbre", Legumes}, {"lenteja", Legumes}, {"garbanzo", Legumes},
	{"cereal", Grains}, {"pan", Bakery}, {"pasta", Grains}, {"arroz", Grains},
	{"grano", Grains},
	{"bebida", Beverages}, {"zumo", Beverages}, {"agua", Beverages},
	{"café", Beverages}, {"té", Beverages}, {"refresco", Beverages},
	{"snack", Snacks}, {"aperitivo", Snacks}, {"patata", Snacks},
	{"galleta", Sweets}, {"chocolate", Sweets}, {"dulce", Sweets}, {"postre", Sweets},
	{"fruto seco", Nuts}, {"nuez", Nuts}, {"almendra", Nuts},
	{"huevo", Eggs},
	{"aceite", Oils}, {"grasa", Oils},
	{"salsa", Sauces}, {"condimento", Sauces},
	{"plato preparado", Prepared}, {"pizza", Prepared},
	{"meat", Meat}, {"fish", Fish}, {"dairy", Dairy}, {"fruit", Fruit},
	{"vegetable", Vegetables}, {"bread", Bakery}, {"beverage", Beverages},
	{"dessert", Sweets},
}

// Classify resolves raw category text to a vocabulary label. It never fails.
func Classify(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return Other
	}
	for _, m := range mappings {
		if strings.Contains(lowered, m.keyword) {
			return m.label
		}
	}
	return Other
}

// labels lists the controlled vocabulary, Other included, sorted.
func labels() []string {
	seen := map[string]struct{}{Other: {}}
	for _, m := range mappings {
		seen[m.label] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// IsKnown reports whether label belongs to the vocabulary.
func IsKnown(label string) bool {
	if label == Other {
		return true
	}
	for _, m := range mappings {
		if m.label == label {
			return true
		}
	}
	return false
}
