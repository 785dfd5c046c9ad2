package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"goaltracker/internal/auth"
	"goaltracker/internal/cache"
	"goaltracker/internal/config"
	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/logging"
	"goaltracker/internal/model"
	"goaltracker/internal/repository"
	"goaltracker/internal/service"
)

// SeedUser is one entry of the seed document.
type SeedUser struct {
	Username string       `json:"username"`
	Password string       `json:"password"`
	Goals    []model.Goal `json:"goals"`
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	source := flag.String("from", "seed.json", "seed document: a file path or an http(s) URL")
	flag.Parse()

	log := logging.NewJSON(os.Stdout, os.Getenv("LOG_LEVEL"))
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "config load failed", "error", err)
		return err
	}

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Error(ctx, "store init failed", "backend", cfg.Backend, "error", err)
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Error(ctx, "migrate failed", "error", err)
		return err
	}

	users, err := loadSeed(ctx, *source)
	if err != nil {
		log.Error(ctx, "seed load failed", "from", *source, "error", err)
		return err
	}
	log.Info(ctx, "seed loaded", "from", *source, "users", len(users))

	// seeded goals must bump the server's snapshot generation
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	authService := service.NewAuthService(store.Users(), auth.NewJWTService(cfg.JWTSecret), auth.NewTokenStore(cacheClient), log)
	goalService := service.NewGoalService(store.Goals(), cacheClient, cfg.CacheTTL, log)

	created, updated, err := seedUsers(ctx, authService, goalService, users)
	if err != nil {
		log.Error(ctx, "seed failed", "created", created, "updated", updated, "error", err)
		return err
	}
	log.Info(ctx, "seed completed", "created", created, "updated", updated)
	return nil
}

// loadSeed reads the seed document from a file or fetches it over HTTP.
func loadSeed(ctx context.Context, source string) ([]SeedUser, error) {
	var r io.Reader
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch seed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var users []SeedUser
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to parse seed JSON: %w", err)
	}
	return users, nil
}

// seedUsers registers each user, or keeps the existing credential, and
// replaces the user's goals with the seeded ones.
func seedUsers(ctx context.Context, authService service.AuthService, goalService service.GoalService, users []SeedUser) (created int, updated int, err error) {
	for _, u := range users {
		_, err := authService.Register(ctx, u.Username, u.Password)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrConflict):
			updated++
		default:
			return created, updated, fmt.Errorf("error registering %s: %w", u.Username, err)
		}

		list := u.Goals
		if list == nil {
			list = []model.Goal{}
		}
		if err := goalService.Replace(ctx, u.Username, list); err != nil {
			return created, updated, fmt.Errorf("error seeding goals of %s: %w", u.Username, err)
		}
	}
	return created, updated, nil
}
