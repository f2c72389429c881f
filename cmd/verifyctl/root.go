package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-verify/internal/bootstrap"
	"github.com/bryanwahyu/automaton-verify/internal/config"
	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
	"github.com/bryanwahyu/automaton-verify/internal/logging"
	"github.com/bryanwahyu/automaton-verify/internal/presentation"
)

// version is set at build time via -ldflags.
var version = "dev"

// cliTenant is the session used for terminal submissions.
const cliTenant = "cli"

type rootFlags struct {
	configPath string
	classifier string
	delay      time.Duration
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "verifyctl",
		Short:         "Check whether a news text or article URL looks authentic",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "config.yaml", "Path to config file")
	pf.StringVar(&flags.classifier, "classifier", "", "Classifier: simulated or openai (default: from config)")
	pf.DurationVar(&flags.delay, "delay", 0, "Simulated classifier delay (default: from config)")

	root.AddCommand(&cobra.Command{
		Use:   "text <content>",
		Short: "Verify a piece of news text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, &flags, domain.KindText, strings.Join(args, " "))
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "url <url>",
		Short: "Verify the article behind a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, &flags, domain.KindURL, args[0])
		},
	})
	return root
}

func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.classifier != "" {
		cfg.Analysis.Classifier = flags.classifier
	}
	if cmd.Flags().Changed("delay") {
		cfg.Analysis.Delay = flags.delay
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runVerify(cmd *cobra.Command, flags *rootFlags, kind domain.Kind, content string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Analysis.Timeout+5*time.Second)
	defer cancel()

	app, err := bootstrap.Build(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			logger.Warn("close", zap.Error(err))
		}
	}()

	if _, err := app.Service.Submit(ctx, cliTenant, domain.Request{Kind: kind, Content: content}); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Analyzing...")

	st, err := app.Service.Session(cliTenant).Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for verdict: %w", err)
	}
	if st.LastError != "" {
		return errors.New("analysis failed: " + st.LastError)
	}
	if len(st.Records) == 0 {
		return errors.New("analysis produced no result")
	}
	fmt.Fprint(cmd.OutOrStdout(), presentation.NewCard(st.Records[0]).Text())
	return nil
}
