// Command trialctl starts trial checkouts against a running trialkit server.
//
//	trialctl plans
//	trialctl submit -tenant acme -plan pro -email owner@acme.test -provider checkout
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/dmitrymomot/trialkit/pkg/config"
	"github.com/dmitrymomot/trialkit/pkg/initiator"
	"github.com/dmitrymomot/trialkit/pkg/logger"
	"github.com/dmitrymomot/trialkit/pkg/subscription"
)

type cliConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
	Debug   bool          `env:"DEBUG" envDefault:"false"`
}

var errUsage = errors.New("usage: trialctl <plans|submit> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "trialctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cfg cliConfig
	if err := config.Load(&cfg, config.WithPrefix("TRIALCTL_")); err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := logger.New(logger.WithFormat(logger.FormatText), logger.WithLevel(level), logger.WithOutput(stderr))

	if len(args) == 0 {
		return errUsage
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client := initiator.NewClient(cfg.BaseURL)

	switch args[0] {
	case "plans":
		return listPlans(ctx, client, stdout)
	case "submit":
		return submit(ctx, client, args[1:], stdout, log)
	default:
		return errUsage
	}
}

func listPlans(ctx context.Context, client *initiator.Client, out io.Writer) error {
	plans, err := client.Plans(ctx)
	if err != nil {
		return err
	}
	for _, p := range plans {
		fmt.Fprintf(out, "%-12s %-12s %8.2f %s  %d-day trial\n",
			p.ID, p.DisplayName, p.MonthlyPrice.Major(), p.MonthlyPrice.Currency, p.TrialDays)
	}
	return nil
}

func submit(ctx context.Context, client *initiator.Client, args []string, out io.Writer, log *slog.Logger) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		tenantID = fs.String("tenant", "", "tenant identifier")
		planID   = fs.String("plan", "", "plan identifier")
		email    = fs.String("email", "", "customer email")
		provider = fs.String("provider", string(subscription.ProviderCheckout), "checkout or preference")
	)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	choice, ok := subscription.ParseProviderChoice(*provider)
	if !ok {
		return fmt.Errorf("submit: unknown provider %q", *provider)
	}

	flow := initiator.New(client, choice, subscription.Request{
		TenantID: *tenantID,
		Plan:     *planID,
		Email:    *email,
	}, initiator.WithLogger(log))

	nav, err := flow.Submit(ctx)
	if err != nil {
		return errors.New(flow.LastError())
	}

	return json.NewEncoder(out).Encode(map[string]string{
		"sessionOrPreferenceId": nav.SessionID,
		"redirectUrl":           nav.URL,
	})
}
