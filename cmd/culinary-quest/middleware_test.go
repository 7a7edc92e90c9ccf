package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestChainOrderProperty tests that middlewares wrap in listing order.
// *For any* number of middlewares, the first listed runs first and the
// handler runs last.
func TestChainOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "n")

		var order []int
		mws := make([]middlewareFunc, n)
		for i := 0; i < n; i++ {
			mws[i] = func(next handlerFunc) handlerFunc {
				return func(ctx context.Context, line string) bool {
					order = append(order, i)
					return next(ctx, line)
				}
			}
		}
		h := chain(func(context.Context, string) bool {
			order = append(order, -1)
			return true
		}, mws...)

		if !h(context.Background(), "x") {
			t.Fatalf("handler result lost")
		}
		if len(order) != n+1 {
			t.Fatalf("Expected %d calls, got %d", n+1, len(order))
		}
		for i := 0; i < n; i++ {
			if order[i] != i {
				t.Fatalf("Middleware %d ran at position %d", order[i], i)
			}
		}
		if order[n] != -1 {
			t.Fatalf("Handler did not run last")
		}
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	var reported []string
	report := func(format string, args ...any) {
		reported = append(reported, fmt.Sprintf(format, args...))
	}

	h := chain(func(context.Context, string) bool {
		panic("burnt the sauce")
	}, recoveryMiddleware(report), loggingMiddleware("p1"))

	assert.NotPanics(t, func() {
		assert.False(t, h(context.Background(), "recipe"))
	})
	assert.Equal(t, []string{"Internal error, please try again.\n"}, reported)
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	var seen string
	h := loggingMiddleware("p1")(func(_ context.Context, line string) bool {
		seen = line
		return true
	})

	assert.True(t, h(context.Background(), "quit"))
	assert.Equal(t, "quit", seen)
}
