package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wirekit/wire"
	"github.com/wirekit/wire/internal/logging"
	"github.com/wirekit/wire/internal/specfile"
	"github.com/wirekit/wire/pkg/domain"
	"github.com/wirekit/wire/pkg/observability"
)

// sampleEnv builds the demo model: a fake user service with simulated
// latency. getTopStories fails on every third call so the rejection
// path and the cached-value fallback are visible.
func sampleEnv() domain.Env {
	var storyCalls atomic.Int64

	users := map[string]string{
		"1": "alice",
		"2": "bob",
		"3": "carol",
	}

	model := map[string]any{
		"getUsername": func() *domain.Future {
			return domain.Go(func() (any, error) {
				time.Sleep(150 * time.Millisecond)
				return "alice", nil
			})
		},
		"getUser": func(id string) *domain.Future {
			return domain.Go(func() (any, error) {
				time.Sleep(250 * time.Millisecond)
				name, ok := users[id]
				if !ok {
					return nil, fmt.Errorf("no user with id %s", id)
				}
				return name, nil
			})
		},
		"getTopStories": func() *domain.Future {
			return domain.Go(func() (any, error) {
				time.Sleep(400 * time.Millisecond)
				if storyCalls.Add(1)%3 == 0 {
					return nil, fmt.Errorf("story service unavailable")
				}
				return []string{"go 1.25 released", "caching considered helpful"}, nil
			})
		},
	}

	return domain.Env{"api": model}
}

func defaultMapping() domain.Static {
	return domain.Static{
		"username": "getUsername",
		"user":     []any{"getUser", "id"},
		"stories":  "getTopStories",
	}
}

// buildBinder assembles the demo binder from the shared flags: the
// mapping (built-in or from --spec), the logger, and prometheus hooks
// registered on a fresh registry.
func buildBinder(cmd *cobra.Command) (*wire.Binder, domain.Env, *prometheus.Registry, error) {
	specPath, _ := cmd.Flags().GetString("spec")
	levelName, _ := cmd.Flags().GetString("log-level")

	namespace := "api"
	var mapping domain.Mapping = defaultMapping()
	if specPath != "" {
		f, err := specfile.Load(specPath)
		if err != nil {
			return nil, nil, nil, err
		}
		mapping, err = f.Mapping()
		if err != nil {
			return nil, nil, nil, err
		}
		if f.Namespace != "" {
			namespace = f.Namespace
		}
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	binder := wire.Wire(namespace, mapping, nil,
		wire.WithLogger(logging.New(os.Stderr, parseLevel(levelName))),
		wire.WithHooks(metrics.Hooks()),
		wire.WithCacheSize(128),
	)

	return binder, sampleEnv(), reg, nil
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
