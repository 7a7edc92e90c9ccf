package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// handlerFunc executes one command line. It returns true when the player quits.
type handlerFunc func(ctx context.Context, line string) bool

// middlewareFunc wraps a handlerFunc.
type middlewareFunc func(next handlerFunc) handlerFunc

// chain applies middlewares so the first one listed runs outermost.
func chain(h handlerFunc, middlewares ...middlewareFunc) handlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// loggingMiddleware logs every command line at debug level.
func loggingMiddleware(player string) middlewareFunc {
	return func(next handlerFunc) handlerFunc {
		return func(ctx context.Context, line string) bool {
			start := time.Now()
			quit := next(ctx, line)
			log.Debug().
				Str("player", player).
				Str("text", line).
				Dur("took", time.Since(start)).
				Msg("Handled command")
			return quit
		}
	}
}

// recoveryMiddleware recovers from panics in a command and reports them.
func recoveryMiddleware(report func(format string, args ...any)) middlewareFunc {
	return func(next handlerFunc) handlerFunc {
		return func(ctx context.Context, line string) (quit bool) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Str("text", line).
						Msg("Recovered from panic in command")
					report("Internal error, please try again.\n")
					quit = false
				}
			}()
			return next(ctx, line)
		}
	}
}
