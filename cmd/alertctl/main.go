package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/dmitrymomot/alertkit/pkg/alerts"
	"github.com/dmitrymomot/alertkit/pkg/broadcast"
	"github.com/dmitrymomot/alertkit/pkg/config"
	"github.com/dmitrymomot/alertkit/pkg/environment"
	"github.com/dmitrymomot/alertkit/pkg/logger"
	"github.com/dmitrymomot/alertkit/pkg/scenario"
)

type appConfig struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL"`
	LogFormat  string `env:"LOG_FORMAT"`
	FeedBuffer int    `env:"ALERTS_FEED_BUFFER" envDefault:"64"`
}

type output struct {
	Report     scenario.Report    `json:"report"`
	Deliveries map[string][]int64 `json:"deliveries"`
}

func main() {
	scenarioPath := pflag.StringP("scenario", "s", "", "path to a scenario YAML file")
	envFile := pflag.String("env-file", "", "dotenv file to load instead of .env")
	at := pflag.String("at", "", "evaluate expiration at this RFC 3339 time instead of now")
	pflag.Parse()

	if err := run(os.Stdout, *scenarioPath, *envFile, *at); err != nil {
		fmt.Fprintf(os.Stderr, "alertctl: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, scenarioPath, envFile, at string) error {
	if scenarioPath == "" {
		return errors.New("--scenario is required")
	}

	var cfg appConfig
	var cfgOpts []config.Option
	if envFile != "" {
		cfgOpts = append(cfgOpts, config.WithEnvFiles(envFile))
	}
	if err := config.Load(&cfg, cfgOpts...); err != nil {
		return err
	}

	env := environment.Parse(cfg.Env)
	logOpts := []logger.Option{
		logger.WithEnvironment(env, "alertctl"),
		logger.WithLevelName(cfg.LogLevel),
	}
	switch f := logger.Format(cfg.LogFormat); f {
	case "":
	case logger.FormatJSON, logger.FormatText:
		logOpts = append(logOpts, logger.WithFormat(f))
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	ctx, cancel := context.WithCancel(environment.WithContext(context.Background(), env))
	defer cancel()

	regOpts := []alerts.Option{alerts.WithLogger(log.With(logger.Component("registry")))}
	if at != "" {
		now, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("parse --at: %w", err)
		}
		regOpts = append(regOpts, alerts.WithNowFunc(func() time.Time { return now }))
	}

	s, err := scenario.LoadFile(scenarioPath)
	if err != nil {
		return err
	}

	feeds := alerts.NewFeedDeliverer(cfg.FeedBuffer, alerts.WithFeedLogger(log.With(logger.Component("feeds"))))
	defer feeds.Close()
	regOpts = append(regOpts, alerts.WithDeliverer(feeds))
	reg := alerts.NewRegistry(regOpts...)

	subs := make(map[string]broadcast.Subscriber[*alerts.Alert], len(s.Users))
	subscribe := scenario.OnUserRegistered(func(u *alerts.User) {
		subs[u.Name] = feeds.Subscribe(ctx, u.ID)
	})

	start := time.Now()
	if err := s.Replay(ctx, reg, subscribe); err != nil {
		return fmt.Errorf("replay %s: %w", scenarioPath, err)
	}
	log.LogAttrs(ctx, slog.LevelInfo, "scenario replayed",
		slog.String("path", scenarioPath),
		logger.Count(len(reg.Alerts())),
		logger.Duration(time.Since(start)),
	)

	out := output{
		Report:     scenario.BuildReport(reg),
		Deliveries: make(map[string][]int64, len(subs)),
	}
	for name, sub := range subs {
		out.Deliveries[name] = drain(sub)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// drain collects whatever is buffered on the subscriber without blocking.
func drain(sub broadcast.Subscriber[*alerts.Alert]) []int64 {
	ids := []int64{}
	for {
		select {
		case msg, ok := <-sub.Receive(context.Background()):
			if !ok {
				return ids
			}
			ids = append(ids, msg.Data.ID)
		default:
			return ids
		}
	}
}
