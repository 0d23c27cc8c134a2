package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
	"github.com/mikey/inbox-radio/internal/report"
)

// outputPaths are the optional files a digest is written to
type outputPaths struct {
	Audio  string
	Script string
	JSON   string
}

func (o *outputPaths) bind(flags interface {
	StringVar(p *string, name string, value string, usage string)
}, defaultAudio string) {
	flags.StringVar(&o.Audio, "out", defaultAudio, "write synthesized audio to this file")
	flags.StringVar(&o.Script, "script-out", "", "write the narration script to this file")
	flags.StringVar(&o.JSON, "json-out", "", "write the full result as JSON to this file")
}

// digestPayload is the JSON form of a run. Audio travels base64-encoded.
type digestPayload struct {
	RunID       string      `json:"run_id"`
	Mode        core.Mode   `json:"mode"`
	Provider    string      `json:"provider"`
	GeneratedAt time.Time   `json:"generated_at"`
	Script      string      `json:"script"`
	SpeechText  string      `json:"speech_text"`
	Audio       string      `json:"audio_base64"`
	Digest      core.Digest `json:"digest"`
	TextDigest  string      `json:"text_digest"`
}

func newPayload(res *core.DigestResult, now time.Time) digestPayload {
	return digestPayload{
		RunID:       res.RunID,
		Mode:        res.Mode,
		Provider:    res.Provider,
		GeneratedAt: now,
		Script:      res.Script,
		SpeechText:  res.SpeechText,
		Audio:       base64.StdEncoding.EncodeToString(res.Audio),
		Digest:      res.Digest,
		TextDigest:  report.TextDigest(res.Digest, res.Mode, now),
	}
}

// writeOutputs prints the text digest to w and writes each requested file
func writeOutputs(w io.Writer, res *core.DigestResult, paths outputPaths, now time.Time, logger *zap.Logger) error {
	payload := newPayload(res, now)

	if paths.Audio != "" {
		if err := os.WriteFile(paths.Audio, res.Audio, 0o644); err != nil {
			return fmt.Errorf("failed to write audio: %w", err)
		}
		logger.Info("Wrote audio",
			zap.String("file", paths.Audio),
			zap.Int("bytes", len(res.Audio)),
			zap.String("provider", res.Provider))
	}

	if paths.Script != "" {
		if err := os.WriteFile(paths.Script, []byte(res.Script), 0o644); err != nil {
			return fmt.Errorf("failed to write script: %w", err)
		}
	}

	if paths.JSON != "" {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if err := os.WriteFile(paths.JSON, data, 0o644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	_, err := io.WriteString(w, payload.TextDigest)
	return err
}
