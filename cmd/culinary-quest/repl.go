package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"culinary-quest/internal/game"
	"culinary-quest/internal/model"
	"culinary-quest/internal/progression"
	"culinary-quest/internal/service"
)

const helpText = `Commands:
  modes                      list game modes
  start <mode> [difficulty]  start a session (difficulty: easy, medium, hard)
  status                     show the current session
  select <ingredient>        select a pool ingredient
  remove <ingredient>        deselect an ingredient
  guess <ingredient>         guess an ingredient name
  recipe                     combine the selection into a recipe
  end                        end the session
  menu                       return to the main menu after a session
  progress                   show level, XP and streak
  achievements               list achievements
  quests                     list today's quests
  scores [mode]              show top scores
  best <mode>                show your best score in a mode
  help                       show this help
  quit                       leave the game`

// title formats a catalog identifier such as "middle_eastern" for display.
// Casers are stateful, so each call gets its own.
func title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// repl is the line-oriented terminal driver. Output is serialized because
// countdown events arrive from another goroutine.
type repl struct {
	engine  *game.Engine
	ranking *service.RankingService
	player  string

	mu  sync.Mutex
	out io.Writer

	dispatch handlerFunc
}

func newREPL(engine *game.Engine, ranking *service.RankingService, player string, out io.Writer) *repl {
	r := &repl{engine: engine, ranking: ranking, player: player, out: out}
	r.dispatch = chain(r.handle, recoveryMiddleware(r.printf), loggingMiddleware(player))
	return r
}

func (r *repl) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// run reads commands until quit, EOF or ctx is cancelled.
func (r *repl) run(ctx context.Context, in io.Reader) error {
	r.printf("Welcome to Culinary Quest! Type \"help\" for commands.\n")
	r.showNotifications()

	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errs <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errs
			}
			if r.dispatch(ctx, line) {
				return nil
			}
		}
	}
}

// handle executes one command line. Returns true when the player quits.
func (r *repl) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), strings.Join(fields[1:], " ")

	switch cmd {
	case "help", "?":
		r.printf("%s\n", helpText)
	case "modes":
		r.showModes()
	case "start":
		r.start(ctx, fields[1:])
	case "status":
		r.showStatus()
	case "select":
		r.selectIngredient(ctx, args)
	case "remove":
		r.removeIngredient(ctx, args)
	case "guess":
		if args == "" {
			r.printf("Usage: guess <ingredient>\n")
			break
		}
		if r.engine.GuessIngredient(ctx, args) {
			r.printf("Correct! %q is in the pool.\n", args)
		} else {
			r.printf("No luck with %q.\n", args)
		}
	case "recipe":
		if !r.engine.CreateRecipe(ctx) {
			r.printf("Select at least two ingredients during a session first.\n")
		}
	case "end":
		if r.engine.State() != game.StateActive {
			r.printf("No session is running.\n")
			break
		}
		r.engine.EndGame(ctx)
	case "menu":
		r.engine.ReturnToMainMenu()
	case "progress":
		r.showProgress()
	case "achievements":
		r.showAchievements()
	case "quests":
		r.showQuests()
	case "scores":
		r.showScores(ctx, args)
	case "best":
		r.showBest(ctx, args)
	case "quit", "exit":
		return true
	default:
		r.printf("Unknown command %q. Type \"help\" for commands.\n", cmd)
	}

	r.showNotifications()
	return false
}

// onEvent prints engine events. It runs outside the engine lock.
func (r *repl) onEvent(ev game.Event) {
	switch ev.Kind {
	case game.EventStateChanged:
		switch ev.State {
		case game.StateActive:
			r.showStatus()
		case game.StateEnded:
			r.showResults()
		case game.StateIdle:
			r.printf("Back at the main menu.\n")
		}
	case game.EventScoreChanged:
		if ev.State == game.StateActive {
			r.printf("Score: %s\n", humanize.Comma(int64(ev.Score)))
		}
	case game.EventTimeChanged:
		if ev.State == game.StateActive && (ev.TimeRemaining <= 5 || ev.TimeRemaining%15 == 0) {
			r.printf("%ds left\n", ev.TimeRemaining)
		}
	case game.EventQuestCompleted:
		if ev.Quest != nil {
			r.printf("Quest complete: %s (+%d XP)\n", ev.Quest.Title, ev.Quest.Reward.XP)
		}
	}
}

func (r *repl) start(ctx context.Context, args []string) {
	if len(args) == 0 {
		r.printf("Usage: start <mode> [difficulty]\n")
		return
	}
	mode, err := model.ParseGameMode(strings.ToLower(args[0]))
	if err != nil {
		r.printf("%v. Type \"modes\" to list them.\n", err)
		return
	}
	difficulty := model.DifficultyMedium
	if len(args) > 1 {
		if difficulty, err = model.ParseDifficulty(strings.ToLower(args[1])); err != nil {
			r.printf("%v.\n", err)
			return
		}
	}
	r.engine.StartGame(ctx, mode, difficulty)
}

func (r *repl) selectIngredient(ctx context.Context, name string) {
	ing, ok := r.findIngredient(r.engine.Snapshot().Pool, name)
	if !ok {
		r.printf("%q is not in the pool.\n", name)
		return
	}
	r.engine.SelectIngredient(ctx, ing)
}

func (r *repl) removeIngredient(ctx context.Context, name string) {
	ing, ok := r.findIngredient(r.engine.Snapshot().Selected, name)
	if !ok {
		r.printf("%q is not selected.\n", name)
		return
	}
	r.engine.RemoveSelectedIngredient(ctx, ing)
}

func (r *repl) findIngredient(list []model.Ingredient, name string) (model.Ingredient, bool) {
	want := cases.Fold().String(strings.TrimSpace(name))
	if want == "" {
		return model.Ingredient{}, false
	}
	for _, ing := range list {
		if cases.Fold().String(ing.Name) == want {
			return ing, true
		}
	}
	return model.Ingredient{}, false
}

func (r *repl) showModes() {
	var b strings.Builder
	for _, m := range model.GameModes() {
		info := m.Info()
		fmt.Fprintf(&b, "  %s %-20s %s (%s)\n", info.Icon, m, info.Description, info.Title)
	}
	r.printf("%s", b.String())
}

func (r *repl) showStatus() {
	snap := r.engine.Snapshot()
	if snap.State != game.StateActive {
		r.printf("No session is running (%s).\n", snap.State)
		return
	}

	var b strings.Builder
	info := snap.Mode.Info()
	fmt.Fprintf(&b, "%s %s, %s: score %s, %ds left\n",
		info.Icon, info.Title, snap.Difficulty, humanize.Comma(int64(snap.Score)), snap.TimeRemaining)
	if snap.Quest != nil {
		fmt.Fprintf(&b, "Quest: %s - %s\n", snap.Quest.Title, snap.Quest.Description)
	}
	if snap.Recipe != nil {
		fmt.Fprintf(&b, "Recipe: %s (%s)\n", snap.Recipe.Name, title(string(snap.Recipe.Cuisine)))
	}

	switch snap.Mode {
	case model.ModeCulinaryChallenge:
		b.WriteString("Pool:\n")
		for _, ing := range snap.Pool {
			fmt.Fprintf(&b, "  %-18s %-10s %s, %d pts\n",
				ing.Name, title(string(ing.Category)), ing.Rarity, ing.Points())
		}
		if len(snap.Selected) > 0 {
			names := make([]string, len(snap.Selected))
			for i, ing := range snap.Selected {
				names[i] = ing.Name
			}
			fmt.Fprintf(&b, "Selected: %s\n", strings.Join(names, ", "))
		}
		fmt.Fprintf(&b, "Recipes created: %d\n", snap.RecipesCreated)
	default:
		fmt.Fprintf(&b, "Guessed %d of %d ingredients", len(snap.Guessed), len(snap.Pool))
		if len(snap.Guessed) > 0 {
			fmt.Fprintf(&b, ": %s", strings.Join(snap.Guessed, ", "))
		}
		b.WriteString("\n")
	}
	r.printf("%s", b.String())
}

func (r *repl) showResults() {
	res := r.engine.Results()
	if res == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session over! Final score: %s\n", humanize.Comma(int64(res.FinalScore)))
	fmt.Fprintf(&b, "  Time: %s, accuracy %.0f%%, %d ingredients discovered, %d recipes\n",
		res.Elapsed.Round(time.Second), res.Accuracy*100, res.IngredientsDiscovered, res.RecipesCreated)
	fmt.Fprintf(&b, "  +%d XP", res.XPGained)
	if res.IsNewBest {
		b.WriteString(", new best score!")
	}
	if res.QuestCompleted {
		b.WriteString(", quest completed!")
	}
	b.WriteString("\nType \"menu\" to return to the main menu.\n")
	r.printf("%s", b.String())
}

func (r *repl) showNotifications() {
	n := r.engine.TakeNotifications()
	for _, a := range n.Achievements {
		r.printf("%s Achievement unlocked: %s (+%d XP)\n", a.Icon, a.Title, a.XPReward)
	}
	if n.LevelUp > 0 {
		r.printf("Level up! You reached level %d.\n", n.LevelUp)
	}
}

func (r *repl) showProgress() {
	p := r.engine.Progress()

	var b strings.Builder
	fmt.Fprintf(&b, "Level %d, %s XP (%.0f%% to next level, %s XP needed)\n",
		p.Level, humanize.Comma(int64(p.TotalXP)),
		progression.ProgressToNextLevel(p)*100, humanize.Comma(int64(progression.XPToNextLevel(p))))
	fmt.Fprintf(&b, "Games played: %d, total score %s, best %s\n",
		p.GamesPlayed, humanize.Comma(int64(p.TotalScore)), humanize.Comma(int64(p.BestScore)))
	fmt.Fprintf(&b, "Ingredients discovered: %d, recipes unlocked: %d\n",
		len(p.DiscoveredIngredients), len(p.UnlockedRecipes))
	fmt.Fprintf(&b, "Streak: %s", english.Plural(p.StreakDays, "day", ""))
	if p.LastPlayed != nil {
		fmt.Fprintf(&b, ", last played %s", humanize.Time(*p.LastPlayed))
	}
	b.WriteString("\n")
	r.printf("%s", b.String())
}

func (r *repl) showAchievements() {
	var b strings.Builder
	for _, a := range r.engine.Snapshot().Achievements {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "  %s %s %s: %s", mark, a.Icon, a.Title, a.Description)
		if a.UnlockedAt != nil {
			fmt.Fprintf(&b, " (%s)", humanize.Time(*a.UnlockedAt))
		}
		b.WriteString("\n")
	}
	r.printf("%s", b.String())
}

func (r *repl) showQuests() {
	quests := r.engine.DailyQuests()
	if len(quests) == 0 {
		r.printf("No quests today.\n")
		return
	}

	var b strings.Builder
	for _, q := range quests {
		status := "expires " + humanize.Time(q.ExpiresAt)
		if q.Completed {
			status = "done"
		}
		fmt.Fprintf(&b, "  %s: %s (+%d XP, %s)\n", q.Title, q.Description, q.Reward.XP, status)
	}
	r.printf("%s", b.String())
}

func (r *repl) showScores(ctx context.Context, arg string) {
	if arg == "" {
		board, err := r.ranking.Leaderboard(ctx, 3)
		if err != nil {
			r.printf("Failed to load scores: %v\n", err)
			return
		}
		if len(board) == 0 {
			r.printf("No scores yet.\n")
			return
		}
		for _, mode := range model.GameModes() {
			if scores, ok := board[mode]; ok {
				r.printScores(mode, scores)
			}
		}
		return
	}

	mode, err := model.ParseGameMode(strings.ToLower(arg))
	if err != nil {
		r.printf("%v.\n", err)
		return
	}
	scores, err := r.ranking.TopScores(ctx, mode, 10)
	if err != nil {
		r.printf("Failed to load scores: %v\n", err)
		return
	}
	if len(scores) == 0 {
		r.printf("No scores yet.\n")
		return
	}
	r.printScores(mode, scores)
}

func (r *repl) printScores(mode model.GameMode, scores []model.GameScore) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", mode.Info().Icon, mode.Info().Title)
	for i, s := range scores {
		fmt.Fprintf(&b, "  %-5s %-16s %8s  %s, %s\n",
			humanize.Ordinal(i+1), s.PlayerName, humanize.Comma(int64(s.Score)), s.Difficulty, humanize.Time(s.PlayedAt))
	}
	r.printf("%s", b.String())
}

func (r *repl) showBest(ctx context.Context, arg string) {
	mode, err := model.ParseGameMode(strings.ToLower(arg))
	if err != nil {
		r.printf("Usage: best <mode>\n")
		return
	}
	best, ok, err := r.ranking.PersonalBest(ctx, r.player, mode)
	switch {
	case err != nil:
		r.printf("Failed to load scores: %v\n", err)
	case !ok:
		r.printf("No %s score yet.\n", mode.Info().Title)
	default:
		r.printf("Best %s score: %s (%s)\n",
			mode.Info().Title, humanize.Comma(int64(best.Score)), humanize.Time(best.PlayedAt))
	}
}
