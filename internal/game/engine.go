package game

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"culinary-quest/internal/achievement"
	"culinary-quest/internal/model"
	"culinary-quest/internal/progression"
	"culinary-quest/internal/quest"
)

// Engine construction errors.
var (
	ErrNilCatalog = errors.New("catalog is required")
	ErrNilGateway = errors.New("gateway is required")
)

// Option configures the engine.
type Option func(*Engine)

// WithRegistry replaces the built-in mode policies.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithPoolSizes overrides the pool size of random-pool modes.
func WithPoolSizes(sizes map[model.GameMode]PoolSizes) Option {
	return func(e *Engine) {
		for mode, s := range sizes {
			e.sizes[mode] = s
		}
	}
}

// WithTickInterval sets the countdown resolution. One tick removes one second.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tickInterval = d
		}
	}
}

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocation sets the timezone used for the daily streak day boundary.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithPlayer names the player whose scores the engine records.
func WithPlayer(id, name string) Option {
	return func(e *Engine) {
		e.playerID = id
		e.playerName = name
	}
}

// Engine owns one player's game session. All mutations are serialized by a
// single mutex; the countdown goroutine goes through the same lock.
type Engine struct {
	catalog      Catalog
	gateway      Gateway
	registry     *Registry
	sizes        map[model.GameMode]PoolSizes
	tickInterval time.Duration
	now          func() time.Time
	loc          *time.Location
	playerID     string
	playerName   string

	mu             sync.Mutex
	initialized    bool
	firstLaunch    bool
	progressLoaded bool

	// Session state.
	state          State
	mode           model.GameMode
	difficulty     model.Difficulty
	completion     model.GameMode
	score          int
	timeRemaining  int
	startedAt      time.Time
	pool           []model.Ingredient
	poolNames      map[string]struct{}
	selected       []model.Ingredient
	used           map[string]bool
	guessed        map[string]struct{}
	credited       map[string]struct{}
	discovered     map[string]struct{}
	recipesCreated int
	recipe         *model.Recipe
	activeQuest    *model.DailyQuest
	results        *model.GameResults
	gen            uint64
	countdown      *countdown

	// Durable state mirrored from the gateway.
	progress         model.PlayerProgress
	achievements     []model.Achievement
	questCompletions map[uuid.UUID]time.Time

	pendingAchievements []model.Achievement
	pendingLevelUp      int

	events       []Event
	listeners    map[int]Listener
	nextListener int
}

// New creates an engine over the given collaborators.
func New(catalog Catalog, gateway Gateway, opts ...Option) (*Engine, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	if gateway == nil {
		return nil, ErrNilGateway
	}

	e := &Engine{
		catalog:          catalog,
		gateway:          gateway,
		registry:         NewDefaultRegistry(),
		sizes:            DefaultPoolSizes(),
		tickInterval:     time.Second,
		now:              time.Now,
		loc:              time.UTC,
		playerID:         "local",
		playerName:       "Chef",
		state:            StateIdle,
		progress:         model.NewPlayerProgress("local"),
		questCompletions: make(map[uuid.UUID]time.Time),
		listeners:        make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.progress.PlayerID = e.playerID
	e.achievements = catalog.AllAchievements()
	e.resetSession()
	return e, nil
}

// Init loads persisted state, evaluates the daily streak and runs the
// achievement evaluator once. It runs at most once per engine; StartGame
// calls it implicitly.
func (e *Engine) Init(ctx context.Context) {
	e.run(func() {
		e.initLocked(ctx)
	})
}

func (e *Engine) initLocked(ctx context.Context) {
	if e.initialized {
		return
	}
	e.initialized = true

	progress, err := e.gateway.LoadProgress(ctx)
	if err != nil {
		log.Error().Err(err).Str("player", e.playerID).Msg("Failed to load progress, using defaults")
		progress = model.NewPlayerProgress(e.playerID)
	} else {
		e.progressLoaded = true
	}
	if progress.Level < 1 {
		progress.Level = 1
	}
	if progress.PlayerID == "" {
		progress.PlayerID = e.playerID
	}
	e.progress = progress

	saved, err := e.gateway.LoadAchievements(ctx)
	if err != nil {
		log.Error().Err(err).Str("player", e.playerID).Msg("Failed to load achievements")
	}
	e.achievements = model.MergeUnlocks(e.catalog.AllAchievements(), saved)

	completions, err := e.gateway.LoadQuestCompletions(ctx)
	if err != nil {
		log.Error().Err(err).Str("player", e.playerID).Msg("Failed to load quest completions")
	}
	for id, at := range completions {
		e.questCompletions[id] = at
	}

	first, err := e.gateway.IsFirstLaunch(ctx)
	if err != nil {
		log.Error().Err(err).Str("player", e.playerID).Msg("Failed to read first launch flag")
	}
	e.firstLaunch = first

	progression.UpdateStreak(&e.progress, e.now(), e.loc)
	e.saveProgress(ctx)

	e.evaluateAchievements(ctx, nil)
	e.checkLevelUp(ctx)

	log.Info().
		Str("player", e.playerID).
		Int("level", e.progress.Level).
		Int("streak", e.progress.StreakDays).
		Bool("first_launch", e.firstLaunch).
		Msg("Engine initialized")
}

// Subscribe registers a listener and returns a function that removes it.
func (e *Engine) Subscribe(l Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextListener
	e.nextListener++
	e.listeners[id] = l
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// run executes fn under the engine lock, then dispatches the events fn
// queued once the lock is released.
func (e *Engine) run(fn func()) {
	e.mu.Lock()
	fn()
	events := e.events
	e.events = nil
	listeners := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		listeners = append(listeners, l)
	}
	e.mu.Unlock()

	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}

func (e *Engine) emitState() {
	e.emit(Event{Kind: EventStateChanged, State: e.state, Score: e.score, TimeRemaining: e.timeRemaining})
}

func (e *Engine) emitScore() {
	e.emit(Event{Kind: EventScoreChanged, State: e.state, Score: e.score, TimeRemaining: e.timeRemaining})
}

func (e *Engine) emitTime() {
	e.emit(Event{Kind: EventTimeChanged, State: e.state, Score: e.score, TimeRemaining: e.timeRemaining})
}

// saveProgress persists progress. Failures are logged and otherwise ignored.
// Progress that replaced an unreadable stored record is never written, so the
// stored level, best score and discoveries cannot go backwards.
func (e *Engine) saveProgress(ctx context.Context) {
	if !e.progressLoaded {
		log.Warn().Str("player", e.playerID).Str("op", "save_progress").Msg("Progress was not loaded, skipping save")
		return
	}
	if err := e.gateway.SaveProgress(ctx, e.progress.Clone()); err != nil {
		log.Error().Err(err).Str("player", e.playerID).Str("op", "save_progress").Msg("Failed to persist progress")
	}
}

func (e *Engine) saveAchievements(ctx context.Context) {
	if err := e.gateway.SaveAchievements(ctx, slices.Clone(e.achievements)); err != nil {
		log.Error().Err(err).Str("player", e.playerID).Str("op", "save_achievements").Msg("Failed to persist achievements")
	}
}

// evaluateAchievements unlocks satisfied achievements and queues their
// notifications. session is nil outside of a session end.
func (e *Engine) evaluateAchievements(ctx context.Context, session *achievement.Session) {
	updated, unlocked := achievement.Evaluate(e.achievements, &e.progress, session, e.now())
	if len(unlocked) == 0 {
		return
	}
	e.achievements = updated
	for _, a := range unlocked {
		e.pendingAchievements = append(e.pendingAchievements, a)
		e.emit(Event{Kind: EventAchievementUnlocked, State: e.state, Achievement: &a})
		log.Info().Str("player", e.playerID).Str("achievement", a.ID).Int("xp", a.XPReward).Msg("Achievement unlocked")
	}
	e.saveProgress(ctx)
	e.saveAchievements(ctx)
}

// checkLevelUp raises the level to match XP and queues a level-up
// notification when it changes.
func (e *Engine) checkLevelUp(ctx context.Context) bool {
	if !progression.CheckLevelUp(&e.progress) {
		return false
	}
	e.markLevelUp()
	e.saveProgress(ctx)
	return true
}

func (e *Engine) markLevelUp() {
	e.pendingLevelUp = e.progress.Level
	e.emit(Event{Kind: EventLevelUp, State: e.state, Level: e.progress.Level})
	log.Info().Str("player", e.playerID).Int("level", e.progress.Level).Msg("Level up")
}

// selectQuest picks the quest a daily quest session plays.
func (e *Engine) selectQuest() (model.DailyQuest, bool) {
	return quest.SelectActive(e.catalog.ActiveDailyQuests(), e.questCompletions, e.now())
}

// TakeNotifications returns and clears pending one-shot notifications.
func (e *Engine) TakeNotifications() Notifications {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := Notifications{
		Achievements: e.pendingAchievements,
		LevelUp:      e.pendingLevelUp,
	}
	e.pendingAchievements = nil
	e.pendingLevelUp = 0
	return n
}

// Snapshot is a copy of the engine's observable state.
type Snapshot struct {
	State          State
	Mode           model.GameMode
	Difficulty     model.Difficulty
	Score          int
	TimeRemaining  int
	Pool           []model.Ingredient
	Selected       []model.Ingredient
	Guessed        []string
	RecipesCreated int
	Recipe         *model.Recipe
	Quest          *model.DailyQuest
	Results        *model.GameResults
	Progress       model.PlayerProgress
	Achievements   []model.Achievement
	FirstLaunch    bool
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	guessed := make([]string, 0, len(e.guessed))
	for name := range e.guessed {
		guessed = append(guessed, name)
	}
	slices.Sort(guessed)

	s := Snapshot{
		State:          e.state,
		Mode:           e.mode,
		Difficulty:     e.difficulty,
		Score:          e.score,
		TimeRemaining:  e.timeRemaining,
		Pool:           slices.Clone(e.pool),
		Selected:       slices.Clone(e.selected),
		Guessed:        guessed,
		RecipesCreated: e.recipesCreated,
		Progress:       e.progress.Clone(),
		Achievements:   slices.Clone(e.achievements),
		FirstLaunch:    e.firstLaunch,
	}
	if e.recipe != nil {
		r := *e.recipe
		s.Recipe = &r
	}
	if e.activeQuest != nil {
		q := *e.activeQuest
		s.Quest = &q
	}
	if e.results != nil {
		r := *e.results
		s.Results = &r
	}
	return s
}

// State returns the current session state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Score returns the running score.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// TimeRemaining returns the seconds left in the session.
func (e *Engine) TimeRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timeRemaining
}

// Results returns the results of the last ended session, or nil.
func (e *Engine) Results() *model.GameResults {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.results == nil {
		return nil
	}
	r := *e.results
	return &r
}

// Progress returns a copy of the player's progress.
func (e *Engine) Progress() model.PlayerProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress.Clone()
}

// TopScores reads the leaderboard of a mode through the gateway.
func (e *Engine) TopScores(ctx context.Context, mode model.GameMode, limit int) []model.GameScore {
	scores, err := e.gateway.TopScores(ctx, mode, limit)
	if err != nil {
		log.Error().Err(err).Str("mode", string(mode)).Msg("Failed to load top scores")
		return nil
	}
	return scores
}

// DailyQuests returns today's quests with this player's completions applied.
func (e *Engine) DailyQuests() []model.DailyQuest {
	e.mu.Lock()
	defer e.mu.Unlock()

	quests := e.catalog.ActiveDailyQuests()
	for i, q := range quests {
		if at, ok := e.questCompletions[q.ID]; ok && !q.Completed {
			quests[i] = q.Complete(at)
		}
	}
	return quests
}
