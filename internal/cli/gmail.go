package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
	"github.com/mikey/inbox-radio/internal/factory"
	"github.com/mikey/inbox-radio/internal/inbox"
	"github.com/mikey/inbox-radio/internal/mute"
	"github.com/mikey/inbox-radio/internal/ports"
)

type gmailOptions struct {
	mode         string
	voice        string
	maxResults   int
	lookbackDays int
	noCalendar   bool
	outputs      outputPaths
}

func newGmailCmd(root *rootOptions) *cobra.Command {
	opts := &gmailOptions{}

	cmd := &cobra.Command{
		Use:   "gmail",
		Short: "Produce a digest from Gmail and Google Calendar",
		Long: `Fetch unread primary-inbox mail and the mode's calendar window with an
OAuth access token (google.access_token or GOOGLE_ACCESS_TOKEN) and produce a
spoken digest. Mornings cover today's events; evenings cover tomorrow, or the
weekend on Fridays and Saturdays.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup()
			if err != nil {
				return err
			}
			defer a.close()
			return opts.run(cmd, a)
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "", "digest mode: auto, morning or evening (default from config)")
	cmd.Flags().StringVar(&opts.voice, "voice", "", "voice id for the TTS provider (default from config)")
	cmd.Flags().IntVar(&opts.maxResults, "max-results", 0, "maximum unread messages to fetch (default from config)")
	cmd.Flags().IntVar(&opts.lookbackDays, "lookback-days", 0, "only fetch mail newer than this many days (default from config)")
	cmd.Flags().BoolVar(&opts.noCalendar, "no-calendar", false, "skip the calendar")
	opts.outputs.bind(cmd.Flags(), "digest.mp3")

	return cmd
}

func (o *gmailOptions) run(cmd *cobra.Command, a *app) error {
	runOpts, err := resolveRunOptions(a, o.mode, o.voice)
	if err != nil {
		return err
	}
	digestCfg, err := a.cfg.GetDigest()
	if err != nil {
		return err
	}
	googleCfg := a.cfg.GetGoogle()
	if o.maxResults > 0 {
		googleCfg.MaxResults = o.maxResults
	}
	if o.lookbackDays > 0 {
		googleCfg.LookbackDays = o.lookbackDays
	}

	return a.container.Invoke(func(sources *factory.SourceFactory, checker *mute.Checker, runner ports.DigestRunner) error {
		ctx := cmd.Context()

		mail, err := sources.CreateMailSource(ctx)
		if err != nil {
			return err
		}
		var calendar ports.CalendarSource
		if !o.noCalendar {
			cal, err := sources.CreateCalendarSource(ctx)
			if err != nil {
				return err
			}
			calendar = cal
		}

		// The window must agree with the framing the run will use
		now := time.Now().In(digestCfg.Location)
		mode := core.ResolveMode(runOpts.Mode, now, digestCfg.EveningCutoffHour)
		runOpts.Mode = mode

		emails, events, err := inbox.NewFetcher(mail, calendar, checker, a.logger).Fetch(ctx, inbox.FetchOptions{
			Mode:         mode,
			Now:          now,
			MaxResults:   googleCfg.MaxResults,
			LookbackDays: googleCfg.LookbackDays,
		})
		if err != nil {
			return err
		}

		a.logger.Info("Running digest",
			zap.String("mode", string(mode)),
			zap.String("provider", runner.ProviderName()))
		res, err := runner.RunDigest(ctx, emails, events, runOpts)
		if err != nil {
			return err
		}
		return writeOutputs(cmd.OutOrStdout(), res, o.outputs, now, a.logger)
	})
}
