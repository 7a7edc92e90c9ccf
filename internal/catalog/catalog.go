// Package catalog provides the read-only content catalog: ingredients,
// recipes, achievements and daily quests, plus random selection queries.
package catalog

import (
	crand "crypto/rand"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"culinary-quest/internal/model"
	"culinary-quest/internal/quest"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Errors for catalog queries and loading.
var (
	ErrNoRecipes         = errors.New("catalog has no recipes")
	ErrUnknownIngredient = errors.New("recipe references unknown ingredient")
)

// contentNamespace derives stable IDs from content names.
var contentNamespace = uuid.MustParse("2b1e5f0a-7c4d-4f3e-8a6b-5d9c0e1f2a37")

type recipeEntry struct {
	Name           string                 `yaml:"name"`
	Cuisine        model.Cuisine          `yaml:"cuisine"`
	Difficulty     model.RecipeDifficulty `yaml:"difficulty"`
	CookingMinutes int                    `yaml:"cooking_minutes"`
	Description    string                 `yaml:"description"`
	Ingredients    []string               `yaml:"ingredients"`
	Instructions   []string               `yaml:"instructions"`
}

type requirementEntry struct {
	Kind   model.RequirementKind `yaml:"kind"`
	Target int                   `yaml:"target"`
}

type achievementEntry struct {
	ID          string           `yaml:"id"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Icon        string           `yaml:"icon"`
	XPReward    int              `yaml:"xp_reward"`
	Requirement requirementEntry `yaml:"requirement"`
}

type document struct {
	Ingredients  []model.Ingredient `yaml:"ingredients"`
	Recipes      []recipeEntry      `yaml:"recipes"`
	Achievements []achievementEntry `yaml:"achievements"`
	Quests       []quest.Template   `yaml:"quests"`
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSeed makes random selection reproducible. A zero seed picks one at random.
func WithSeed(seed uint64) Option {
	return func(c *Catalog) {
		c.seed = seed
	}
}

// WithLocation sets the timezone that bounds a quest day.
func WithLocation(loc *time.Location) Option {
	return func(c *Catalog) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock overrides the time source used for daily quests.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// Catalog is an in-memory content catalog. Safe for concurrent use.
type Catalog struct {
	ingredients  []model.Ingredient
	recipes      []model.Recipe
	achievements []model.Achievement
	templates    []quest.Template

	seed uint64
	loc  *time.Location
	now  func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// Default loads the catalog bundled with the binary.
func Default(opts ...Option) (*Catalog, error) {
	return Parse(defaultCatalog, opts...)
}

// LoadFile loads a catalog from a YAML file.
func LoadFile(path string, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data, opts...)
}

// Parse builds a catalog from YAML content.
func Parse(data []byte, opts ...Option) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		loc: time.UTC,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.seed == 0 {
		seed, err := newSeed()
		if err != nil {
			return nil, err
		}
		c.seed = seed
	}
	c.rng = rand.New(rand.NewPCG(c.seed, c.seed^0x9e3779b97f4a7c15))

	for _, ing := range model.Dedupe(doc.Ingredients) {
		if !ing.Category.Valid() {
			return nil, fmt.Errorf("ingredient %q: unknown category %q", ing.Name, ing.Category)
		}
		ing.ID = uuid.NewSHA1(contentNamespace, []byte("ingredient/"+ing.Key()))
		c.ingredients = append(c.ingredients, ing)
	}

	for _, entry := range doc.Recipes {
		recipe, err := c.buildRecipe(entry)
		if err != nil {
			return nil, err
		}
		c.recipes = append(c.recipes, recipe)
	}

	for _, entry := range doc.Achievements {
		req, err := model.NewRequirement(entry.Requirement.Kind, entry.Requirement.Target)
		if err != nil {
			return nil, fmt.Errorf("achievement %q: %w", entry.ID, err)
		}
		c.achievements = append(c.achievements, model.Achievement{
			ID:          entry.ID,
			Title:       entry.Title,
			Description: entry.Description,
			Icon:        entry.Icon,
			XPReward:    entry.XPReward,
			Requirement: req,
		})
	}

	c.templates = doc.Quests
	return c, nil
}

func (c *Catalog) buildRecipe(entry recipeEntry) (model.Recipe, error) {
	ingredients := make([]model.Ingredient, 0, len(entry.Ingredients))
	for _, name := range entry.Ingredients {
		ing, ok := c.ingredientByName(name)
		if !ok {
			return model.Recipe{}, fmt.Errorf("recipe %q: %w: %s", entry.Name, ErrUnknownIngredient, name)
		}
		ingredients = append(ingredients, ing)
	}

	recipe := model.Recipe{
		Name:         entry.Name,
		Ingredients:  ingredients,
		Cuisine:      entry.Cuisine,
		Difficulty:   entry.Difficulty,
		CookingTime:  time.Duration(entry.CookingMinutes) * time.Minute,
		Description:  entry.Description,
		Instructions: entry.Instructions,
	}
	recipe.ID = uuid.NewSHA1(contentNamespace, []byte("recipe/"+recipe.Key()))
	return recipe, nil
}

func (c *Catalog) ingredientByName(name string) (model.Ingredient, bool) {
	for _, ing := range c.ingredients {
		if strings.EqualFold(ing.Name, name) {
			return ing, true
		}
	}
	return model.Ingredient{}, false
}

// Ingredients returns every ingredient.
func (c *Catalog) Ingredients() []model.Ingredient {
	return slices.Clone(c.ingredients)
}

// Recipes returns every recipe.
func (c *Catalog) Recipes() []model.Recipe {
	return slices.Clone(c.recipes)
}

// RandomIngredients samples up to count ingredients without replacement,
// skipping the excluded rarities. If fewer are available, all are returned.
func (c *Catalog) RandomIngredients(count int, exclude ...model.Rarity) []model.Ingredient {
	if count <= 0 {
		return nil
	}

	candidates := make([]model.Ingredient, 0, len(c.ingredients))
	for _, ing := range c.ingredients {
		if slices.Contains(exclude, ing.Rarity) {
			continue
		}
		candidates = append(candidates, ing)
	}

	c.mu.Lock()
	c.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	c.mu.Unlock()

	if count < len(candidates) {
		candidates = candidates[:count]
	}
	return candidates
}

// RandomRecipe picks one recipe at random.
func (c *Catalog) RandomRecipe() (model.Recipe, error) {
	if len(c.recipes) == 0 {
		return model.Recipe{}, ErrNoRecipes
	}
	c.mu.Lock()
	idx := c.rng.IntN(len(c.recipes))
	c.mu.Unlock()
	return c.recipes[idx], nil
}

// IngredientsForCuisine returns every ingredient tagged with cuisine.
func (c *Catalog) IngredientsForCuisine(cuisine model.Cuisine) []model.Ingredient {
	var out []model.Ingredient
	for _, ing := range c.ingredients {
		if ing.HasCuisine(cuisine) {
			out = append(out, ing)
		}
	}
	return out
}

// ActiveDailyQuests returns today's quests. Filtering out completed or
// expired quests is left to the caller.
func (c *Catalog) ActiveDailyQuests() []model.DailyQuest {
	return quest.Generate(c.now(), c.loc, c.templates)
}

// AllAchievements returns the achievement definitions, all locked.
func (c *Catalog) AllAchievements() []model.Achievement {
	return slices.Clone(c.achievements)
}

// newSeed reads a random seed from crypto/rand.
func newSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
