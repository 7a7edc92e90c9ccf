package game

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"culinary-quest/internal/model"
)

var errStorageDown = errors.New("storage down")

func ing(name string, cat model.Category, r model.Rarity, cuisines ...model.Cuisine) model.Ingredient {
	return model.Ingredient{
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Name:     name,
		Category: cat,
		Cuisines: cuisines,
		Rarity:   r,
	}
}

// testIngredients lists common and rare entries first so small pools mix
// categories and rarities predictably.
func testIngredients() []model.Ingredient {
	return []model.Ingredient{
		ing("Tomato", model.CategoryVegetable, model.RarityCommon, model.CuisineItalian),
		ing("Saffron", model.CategorySpice, model.RarityRare, model.CuisineIndian),
		ing("Basil", model.CategoryHerb, model.RarityUncommon, model.CuisineItalian, model.CuisineThai),
		ing("Rice", model.CategoryGrain, model.RarityCommon, model.CuisineJapanese, model.CuisineIndian),
		ing("Parmesan", model.CategoryDairy, model.RarityUncommon, model.CuisineItalian),
		ing("White Truffle", model.CategoryVegetable, model.RarityLegendary, model.CuisineItalian),
		ing("Salmon", model.CategorySeafood, model.RarityUncommon, model.CuisineJapanese),
		ing("Garlic", model.CategoryVegetable, model.RarityCommon, model.CuisineItalian, model.CuisineChinese),
		ing("Wasabi", model.CategoryCondiment, model.RarityRare, model.CuisineJapanese),
		ing("Lime", model.CategoryFruit, model.RarityCommon, model.CuisineMexican, model.CuisineThai),
		ing("Chicken", model.CategoryProtein, model.RarityCommon, model.CuisineIndian),
		ing("Cumin", model.CategorySpice, model.RarityCommon, model.CuisineIndian, model.CuisineMexican),
		ing("Matsutake", model.CategoryVegetable, model.RarityLegendary, model.CuisineJapanese),
	}
}

// fakeCatalog returns ingredients in list order so pools are predictable.
type fakeCatalog struct {
	ingredients  []model.Ingredient
	recipe       *model.Recipe
	quests       []model.DailyQuest
	achievements []model.Achievement
}

func newFakeCatalog() *fakeCatalog {
	all := testIngredients()
	return &fakeCatalog{
		ingredients: all,
		recipe: &model.Recipe{
			Name:        "Bruschetta",
			Ingredients: []model.Ingredient{all[0], all[2], all[7], all[0]},
			Cuisine:     model.CuisineItalian,
			Difficulty:  model.RecipeBeginner,
		},
	}
}

func (c *fakeCatalog) RandomIngredients(count int, exclude ...model.Rarity) []model.Ingredient {
	var out []model.Ingredient
	for _, i := range c.ingredients {
		if len(out) == count {
			break
		}
		if slices.Contains(exclude, i.Rarity) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func (c *fakeCatalog) RandomRecipe() (model.Recipe, error) {
	if c.recipe == nil {
		return model.Recipe{}, errors.New("no recipes")
	}
	return *c.recipe, nil
}

func (c *fakeCatalog) IngredientsForCuisine(cuisine model.Cuisine) []model.Ingredient {
	var out []model.Ingredient
	for _, i := range c.ingredients {
		if i.HasCuisine(cuisine) {
			out = append(out, i)
		}
	}
	return out
}

func (c *fakeCatalog) ActiveDailyQuests() []model.DailyQuest {
	return slices.Clone(c.quests)
}

func (c *fakeCatalog) AllAchievements() []model.Achievement {
	return slices.Clone(c.achievements)
}

// fakeGateway keeps everything in memory and can be switched to fail.
// failLoad only breaks LoadProgress.
type fakeGateway struct {
	mu           sync.Mutex
	fail         bool
	failLoad     bool
	progress     *model.PlayerProgress
	scores       []model.GameScore
	achievements []model.Achievement
	launched     bool
	quests       map[uuid.UUID]time.Time
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{quests: make(map[uuid.UUID]time.Time)}
}

func (g *fakeGateway) LoadProgress(ctx context.Context) (model.PlayerProgress, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail || g.failLoad {
		return model.PlayerProgress{}, errStorageDown
	}
	if g.progress == nil {
		return model.NewPlayerProgress("tester"), nil
	}
	return g.progress.Clone(), nil
}

func (g *fakeGateway) SaveProgress(ctx context.Context, p model.PlayerProgress) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errStorageDown
	}
	cp := p.Clone()
	g.progress = &cp
	return nil
}

func (g *fakeGateway) AppendScore(ctx context.Context, s model.GameScore) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errStorageDown
	}
	g.scores = append(g.scores, s)
	return nil
}

func (g *fakeGateway) TopScores(ctx context.Context, mode model.GameMode, limit int) ([]model.GameScore, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errStorageDown
	}
	var out []model.GameScore
	for _, s := range g.scores {
		if s.Mode == mode {
			out = append(out, s)
		}
	}
	return out, nil
}

func (g *fakeGateway) LoadAchievements(ctx context.Context) ([]model.Achievement, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errStorageDown
	}
	return slices.Clone(g.achievements), nil
}

func (g *fakeGateway) SaveAchievements(ctx context.Context, list []model.Achievement) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errStorageDown
	}
	g.achievements = slices.Clone(list)
	return nil
}

func (g *fakeGateway) IsFirstLaunch(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return false, errStorageDown
	}
	first := !g.launched
	g.launched = true
	return first, nil
}

func (g *fakeGateway) LoadQuestCompletions(ctx context.Context) (map[uuid.UUID]time.Time, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errStorageDown
	}
	out := make(map[uuid.UUID]time.Time, len(g.quests))
	for id, at := range g.quests {
		out[id] = at
	}
	return out, nil
}

func (g *fakeGateway) SaveQuestCompletion(ctx context.Context, id uuid.UUID, at time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errStorageDown
	}
	g.quests[id] = at
	return nil
}

func (g *fakeGateway) storedProgress() model.PlayerProgress {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.progress == nil {
		return model.PlayerProgress{}
	}
	return g.progress.Clone()
}

func (g *fakeGateway) storedScores() []model.GameScore {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.scores)
}

var testNow = time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

// testingT is satisfied by *testing.T and *rapid.T.
type testingT interface {
	require.TestingT
	Helper()
}

// newTestEngine builds an engine whose countdown never fires on its own;
// tests drive it with tickN.
func newTestEngine(t testingT, cat *fakeCatalog, gw *fakeGateway, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithTickInterval(time.Hour),
		WithClock(func() time.Time { return testNow }),
		WithPlayer("tester", "Tester"),
	}
	e, err := New(cat, gw, append(base, opts...)...)
	require.NoError(t, err)
	return e
}

// tickN delivers n countdown ticks for the current session.
func tickN(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.mu.Lock()
		gen := e.gen
		e.mu.Unlock()
		e.tick(gen)
	}
}
