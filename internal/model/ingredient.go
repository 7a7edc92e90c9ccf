// Package model defines the data models for the cooking quiz engine.
package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Category is the fixed food group an ingredient belongs to.
type Category string

const (
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryProtein   Category = "protein"
	CategorySeafood   Category = "seafood"
	CategoryGrain     Category = "grain"
	CategoryDairy     Category = "dairy"
	CategorySpice     Category = "spice"
	CategoryHerb      Category = "herb"
	CategoryCondiment Category = "condiment"
)

// Categories returns every ingredient category.
func Categories() []Category {
	return []Category{
		CategoryVegetable, CategoryFruit, CategoryProtein, CategorySeafood, CategoryGrain,
		CategoryDairy, CategorySpice, CategoryHerb, CategoryCondiment,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories(), c)
}

// Cuisine tags ingredients and recipes with a culinary tradition.
type Cuisine string

const (
	CuisineItalian       Cuisine = "italian"
	CuisineFrench        Cuisine = "french"
	CuisineJapanese      Cuisine = "japanese"
	CuisineChinese       Cuisine = "chinese"
	CuisineIndian        Cuisine = "indian"
	CuisineMexican       Cuisine = "mexican"
	CuisineThai          Cuisine = "thai"
	CuisineMediterranean Cuisine = "mediterranean"
	CuisineAmerican      Cuisine = "american"
)

// Rarity is the ordered tier of an ingredient. Each tier is worth a fixed
// number of points.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityLegendary
)

var rarityNames = [...]string{"common", "uncommon", "rare", "legendary"}

var rarityPoints = [...]int{10, 25, 50, 100}

// Rarities returns all rarities from lowest to highest.
func Rarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityLegendary}
}

// Points returns the score credited for an ingredient of this rarity.
func (r Rarity) Points() int {
	if r < RarityCommon || r > RarityLegendary {
		return 0
	}
	return rarityPoints[r]
}

func (r Rarity) String() string {
	if r < RarityCommon || r > RarityLegendary {
		return fmt.Sprintf("rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// ParseRarity converts a rarity name into a Rarity.
func ParseRarity(s string) (Rarity, error) {
	for i, name := range rarityNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rarity %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// NutritionFacts holds optional per-100g nutrition values.
type NutritionFacts struct {
	Calories int     `yaml:"calories" json:"calories"`
	Protein  float64 `yaml:"protein" json:"protein"`
	Carbs    float64 `yaml:"carbs" json:"carbs"`
	Fat      float64 `yaml:"fat" json:"fat"`
}

// Ingredient is an immutable catalog entry.
type Ingredient struct {
	ID        uuid.UUID       `yaml:"-" json:"id"`
	Name      string          `yaml:"name" json:"name"`
	Category  Category        `yaml:"category" json:"category"`
	Cuisines  []Cuisine       `yaml:"cuisines" json:"cuisines"`
	Rarity    Rarity          `yaml:"rarity" json:"rarity"`
	Nutrition *NutritionFacts `yaml:"nutrition,omitempty" json:"nutrition,omitempty"`
	FunFact   string          `yaml:"fun_fact,omitempty" json:"fun_fact,omitempty"`
}

// Points is the score value of the ingredient.
func (i Ingredient) Points() int {
	return i.Rarity.Points()
}

// Key identifies an ingredient by content rather than by ID, so duplicate
// catalog entries collapse to the same key.
func (i Ingredient) Key() string {
	cuisines := make([]string, len(i.Cuisines))
	for n, c := range i.Cuisines {
		cuisines[n] = string(c)
	}
	slices.Sort(cuisines)
	return strings.Join([]string{i.Name, string(i.Category), strings.Join(cuisines, ","), i.Rarity.String()}, "|")
}

// Equal compares two ingredients by name, category, cuisines and rarity.
func (i Ingredient) Equal(other Ingredient) bool {
	return i.Key() == other.Key()
}

// HasCuisine reports whether the ingredient is tagged with c.
func (i Ingredient) HasCuisine(c Cuisine) bool {
	return slices.Contains(i.Cuisines, c)
}

// DistinctCategories counts the distinct categories among ingredients.
func DistinctCategories(ingredients []Ingredient) int {
	seen := make(map[Category]struct{}, len(ingredients))
	for _, ing := range ingredients {
		seen[ing.Category] = struct{}{}
	}
	return len(seen)
}

// Dedupe drops ingredients whose Key was already seen, keeping first-seen order.
func Dedupe(ingredients []Ingredient) []Ingredient {
	seen := make(map[string]struct{}, len(ingredients))
	out := make([]Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		k := ing.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, ing)
	}
	return out
}
