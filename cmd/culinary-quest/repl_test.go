package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culinary-quest/internal/catalog"
	"culinary-quest/internal/game"
	"culinary-quest/internal/model"
	"culinary-quest/internal/service"
	"culinary-quest/internal/storage/memory"
)

func newTestREPL(t *testing.T) (*repl, *game.Engine, *bytes.Buffer) {
	t.Helper()
	cat, err := catalog.Default(catalog.WithSeed(42))
	require.NoError(t, err)

	store := memory.NewStore()
	engine, err := game.New(cat, store.ForPlayer("cli"),
		game.WithTickInterval(time.Hour),
		game.WithPlayer("cli", "Tester"),
	)
	require.NoError(t, err)
	engine.Init(context.Background())

	var out bytes.Buffer
	r := newREPL(engine, service.NewRankingService(store.ForPlayer("cli")), "cli", &out)
	unsubscribe := engine.Subscribe(r.onEvent)
	t.Cleanup(func() {
		unsubscribe()
		engine.EndGame(context.Background())
	})
	return r, engine, &out
}

func TestREPL_HelpAndUnknownCommand(t *testing.T) {
	r, _, out := newTestREPL(t)
	ctx := context.Background()

	assert.False(t, r.handle(ctx, "help"))
	assert.Contains(t, out.String(), "Commands:")

	assert.False(t, r.handle(ctx, "flambe"))
	assert.Contains(t, out.String(), `Unknown command "flambe"`)

	assert.False(t, r.handle(ctx, "   "))
	assert.True(t, r.handle(ctx, "QUIT"))
}

func TestREPL_StartRejectsBadArguments(t *testing.T) {
	r, engine, out := newTestREPL(t)
	ctx := context.Background()

	r.handle(ctx, "start")
	assert.Contains(t, out.String(), "Usage: start")

	r.handle(ctx, "start poker")
	assert.Contains(t, out.String(), "unknown game mode")

	r.handle(ctx, "start taste_test impossible")
	assert.Contains(t, out.String(), "unknown difficulty")

	assert.Equal(t, game.StateIdle, engine.State())
}

func TestREPL_MasterySessionFlow(t *testing.T) {
	r, engine, out := newTestREPL(t)
	ctx := context.Background()

	r.handle(ctx, "start ingredient_mastery easy")
	require.Equal(t, game.StateActive, engine.State())
	assert.Contains(t, out.String(), "Ingredient Mastery, easy")

	r.handle(ctx, "guess definitely not food")
	assert.Contains(t, out.String(), "No luck")

	for _, ing := range engine.Snapshot().Pool {
		r.handle(ctx, "guess "+strings.ToUpper(ing.Name))
	}
	require.Equal(t, game.StateEnded, engine.State())
	assert.Contains(t, out.String(), "Session over!")
	assert.Contains(t, out.String(), "accuracy 100%")

	r.handle(ctx, "menu")
	assert.Equal(t, game.StateIdle, engine.State())
	assert.Contains(t, out.String(), "Back at the main menu.")

	out.Reset()
	r.handle(ctx, "scores ingredient_mastery")
	assert.Contains(t, out.String(), "1st")
	assert.Contains(t, out.String(), "Tester")

	out.Reset()
	r.handle(ctx, "best ingredient_mastery")
	assert.Contains(t, out.String(), "Best Ingredient Mastery score")

	out.Reset()
	r.handle(ctx, "best taste_test")
	assert.Contains(t, out.String(), "No Taste Test score yet.")
}

func TestREPL_SelectAndRemoveIgnoreCase(t *testing.T) {
	r, engine, out := newTestREPL(t)
	ctx := context.Background()

	r.handle(ctx, "start culinary_challenge easy")
	pool := engine.Snapshot().Pool
	require.NotEmpty(t, pool)
	name := pool[0].Name

	r.handle(ctx, "select "+strings.ToUpper(name))
	require.Len(t, engine.Snapshot().Selected, 1)
	assert.Equal(t, pool[0].Points(), engine.Score())

	r.handle(ctx, "remove "+strings.ToLower(name))
	assert.Empty(t, engine.Snapshot().Selected)
	assert.Equal(t, 0, engine.Score())

	r.handle(ctx, "select saffron cake with no such name")
	assert.Contains(t, out.String(), "is not in the pool")

	r.handle(ctx, "recipe")
	assert.Contains(t, out.String(), "Select at least two ingredients")
}

func TestREPL_EndWithoutSession(t *testing.T) {
	r, _, out := newTestREPL(t)

	r.handle(context.Background(), "end")
	assert.Contains(t, out.String(), "No session is running.")
}

func TestREPL_ListsProgressAndContent(t *testing.T) {
	r, _, out := newTestREPL(t)
	ctx := context.Background()

	r.handle(ctx, "progress")
	assert.Contains(t, out.String(), "Level 1")
	assert.Contains(t, out.String(), "Streak: 1 day,")

	r.handle(ctx, "modes")
	for _, m := range model.GameModes() {
		assert.Contains(t, out.String(), string(m))
	}

	r.handle(ctx, "achievements")
	assert.Contains(t, out.String(), "[")

	r.handle(ctx, "quests")
	assert.NotEmpty(t, out.String())
}

func TestREPL_RunStopsOnQuit(t *testing.T) {
	r, _, out := newTestREPL(t)

	err := r.run(context.Background(), strings.NewReader("help\nquit\nstatus\n"))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Welcome to Culinary Quest!")
	assert.Contains(t, out.String(), "Commands:")
	assert.NotContains(t, out.String(), "No session is running")
}

func TestREPL_RunStopsAtEOF(t *testing.T) {
	r, _, _ := newTestREPL(t)

	err := r.run(context.Background(), strings.NewReader("status\n"))
	assert.NoError(t, err)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Middle Eastern", title("middle_eastern"))
	assert.Equal(t, "Vegetable", title("vegetable"))
}
