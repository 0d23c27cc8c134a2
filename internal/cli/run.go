package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/adapters/mimeparse"
	"github.com/mikey/inbox-radio/internal/core"
	"github.com/mikey/inbox-radio/internal/inbox"
	"github.com/mikey/inbox-radio/internal/mute"
	"github.com/mikey/inbox-radio/internal/ports"
)

type runOptions struct {
	emailsFile string
	eventsFile string
	emlFiles   []string
	mode       string
	voice      string
	outputs    outputPaths
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Produce a digest from saved messages and events",
		Long: `Produce a spoken digest from local inputs: a JSON array of Gmail-shaped
messages (--emails), a JSON array of Calendar-shaped events (--events) and any
number of raw RFC 822 messages (--eml).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup()
			if err != nil {
				return err
			}
			defer a.close()
			return opts.run(cmd, a)
		},
	}

	cmd.Flags().StringVar(&opts.emailsFile, "emails", "", "JSON file with raw messages")
	cmd.Flags().StringVar(&opts.eventsFile, "events", "", "JSON file with raw calendar events")
	cmd.Flags().StringArrayVar(&opts.emlFiles, "eml", nil, "raw RFC 822 message file (repeatable)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "digest mode: auto, morning or evening (default from config)")
	cmd.Flags().StringVar(&opts.voice, "voice", "", "voice id for the TTS provider (default from config)")
	opts.outputs.bind(cmd.Flags(), "digest.mp3")

	return cmd
}

func (o *runOptions) run(cmd *cobra.Command, a *app) error {
	emails, err := loadInputEmails(o.emailsFile, o.emlFiles)
	if err != nil {
		return err
	}
	events, err := loadJSONFile[core.RawCalendarEvent](o.eventsFile)
	if err != nil {
		return err
	}

	runOpts, err := resolveRunOptions(a, o.mode, o.voice)
	if err != nil {
		return err
	}

	return a.container.Invoke(func(runner ports.DigestRunner, checker *mute.Checker) error {
		kept := inbox.NewFetcher(nil, nil, checker, a.logger).FilterMuted(emails)
		a.logger.Info("Running digest",
			zap.Int("emails", len(kept)),
			zap.Int("muted", len(emails)-len(kept)),
			zap.Int("events", len(events)),
			zap.String("provider", runner.ProviderName()))

		res, err := runner.RunDigest(cmd.Context(), kept, events, runOpts)
		if err != nil {
			return err
		}
		return writeOutputs(cmd.OutOrStdout(), res, o.outputs, time.Now(), a.logger)
	})
}

// resolveRunOptions merges flag values over the configured digest defaults
func resolveRunOptions(a *app, modeFlag, voiceFlag string) (core.RunOptions, error) {
	digestCfg, err := a.cfg.GetDigest()
	if err != nil {
		return core.RunOptions{}, err
	}
	if modeFlag == "" {
		modeFlag = digestCfg.Mode
	}
	mode, err := core.ParseMode(modeFlag)
	if err != nil {
		return core.RunOptions{}, err
	}
	if voiceFlag == "" {
		voiceFlag = digestCfg.VoiceID
	}
	return core.RunOptions{VoiceID: voiceFlag, Mode: mode}, nil
}

func loadInputEmails(jsonFile string, emlFiles []string) ([]core.RawEmail, error) {
	emails, err := loadJSONFile[core.RawEmail](jsonFile)
	if err != nil {
		return nil, err
	}
	for _, path := range emlFiles {
		email, err := loadEML(path)
		if err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, nil
}

func loadEML(path string) (core.RawEmail, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.RawEmail{}, fmt.Errorf("failed to open message: %w", err)
	}
	defer f.Close()

	email, err := mimeparse.Parse(filepath.Base(path), f)
	if err != nil {
		return core.RawEmail{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return email, nil
}

// loadJSONFile decodes a JSON array from path. An empty path yields no items.
func loadJSONFile[T any](path string) ([]T, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return items, nil
}
