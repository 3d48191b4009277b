// Package main provides asktester, a CLI for exercising the advisor locally.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	faqmatch "github.com/kbjinsurance/advisor/backend/internal/analysis/faq"
	"github.com/kbjinsurance/advisor/backend/internal/config"
	"github.com/kbjinsurance/advisor/backend/internal/model/faq"
	"github.com/kbjinsurance/advisor/backend/internal/service/advisor"
	"github.com/kbjinsurance/advisor/backend/internal/service/ai"
)

func main() {
	// .env is optional here; flags and the environment are enough.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asktester",
		Short: "Exercise the advisor's FAQ matcher, responder and widget",
		Long: `Exercise the advisor without a browser.

Examples:
  asktester match "what is term life insurance"
  asktester ask "can I get a quote?"
  asktester chat --endpoint http://localhost:8080/api/advisor
`,
		SilenceUsage: true,
	}

	cmd.AddCommand(matchCmd(), askCmd(), chatCmd())
	return cmd
}

func matchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <text>",
		Short: "Score text against the FAQ bank",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			entries, err := faq.Open(cfg.Site.FAQFile, cfg.Site.Routes())
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			result := faqmatch.NewMatcher(entries).Match(text)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "score: %d (threshold %d)\n", result.Score, faqmatch.Threshold)
			if !result.Matched {
				fmt.Fprintln(out, "no match")
				return nil
			}
			fmt.Fprintf(out, "entry %d: %s\n%s\n", result.Index, entries[result.Index].Question, result.Answer)
			return nil
		},
	}
}

func askCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Run the full responder chain once with the environment's configuration",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := cfg.Log.NewLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			routes := cfg.Site.Routes()
			entries, err := faq.Open(cfg.Site.FAQFile, routes)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			var completer advisor.Completer
			if cfg.AI.Enabled() {
				svc, err := ai.NewService(ctx, cfg.AI, routes, logger)
				if err != nil {
					logger.Warn("model provider unavailable", zap.Error(err))
				} else {
					completer = svc
				}
			}

			svc := advisor.NewService(faq.NewMemoryStore(entries), routes, advisor.Options{
				Model:   completer,
				Timeout: cfg.AI.Timeout,
				Logger:  logger,
			})

			reply := svc.Respond(ctx, nil, strings.Join(args, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", reply.Source, reply.Text)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	return cmd
}
