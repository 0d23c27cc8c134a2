package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mikey/inbox-radio/internal/adapters/smtpinbox"
	"github.com/mikey/inbox-radio/internal/core"
	"github.com/mikey/inbox-radio/internal/factory"
	"github.com/mikey/inbox-radio/internal/inbox"
	"github.com/mikey/inbox-radio/internal/mute"
)

func sampleResult() *core.DigestResult {
	return &core.DigestResult{
		RunID:      "run-1",
		Mode:       core.ModeMorning,
		Script:     "Good morning! [pause: short] Two emails.",
		SpeechText: "Good morning!, Two emails.",
		Audio:      []byte{0x49, 0x44, 0x33, 0x04},
		Provider:   "openai",
		Digest: core.Digest{
			Emails:      []core.EmailSummary{{Sender: "Ann", Summary: "Approve the budget.", Category: core.CategoryUrgent, ImportanceScore: 9}},
			Calendar:    []core.CalendarSummary{},
			TotalEmails: 1,
		},
	}
}

func TestWriteOutputs(t *testing.T) {
	dir := t.TempDir()
	paths := outputPaths{
		Audio:  filepath.Join(dir, "digest.mp3"),
		Script: filepath.Join(dir, "script.txt"),
		JSON:   filepath.Join(dir, "digest.json"),
	}
	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	var out bytes.Buffer
	require.NoError(t, writeOutputs(&out, sampleResult(), paths, now, zaptest.NewLogger(t)))

	assert.True(t, strings.HasPrefix(out.String(), "# Your Morning Digest - Monday, March 4, 2024"))
	assert.Contains(t, out.String(), "**Ann**: Approve the budget.")

	audio, err := os.ReadFile(paths.Audio)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x49, 0x44, 0x33, 0x04}, audio)

	script, err := os.ReadFile(paths.Script)
	require.NoError(t, err)
	assert.Equal(t, "Good morning! [pause: short] Two emails.", string(script))

	data, err := os.ReadFile(paths.JSON)
	require.NoError(t, err)
	var payload digestPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "run-1", payload.RunID)
	assert.Equal(t, core.ModeMorning, payload.Mode)
	decoded, err := base64.StdEncoding.DecodeString(payload.Audio)
	require.NoError(t, err)
	assert.Equal(t, audio, decoded)
	assert.Equal(t, out.String(), payload.TextDigest)
	require.Len(t, payload.Digest.Emails, 1)
}

func TestWriteOutputsSkipsUnsetPaths(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeOutputs(&out, sampleResult(), outputPaths{}, time.Now(), zaptest.NewLogger(t)))
	assert.NotEmpty(t, out.String())
}

const eml = "From: Ann <ann@example.com>\r\n" +
	"To: me@example.com\r\n" +
	"Subject: Budget\r\n" +
	"Date: Mon, 04 Mar 2024 06:00:00 +0000\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Please approve the budget by Friday.\r\n"

func TestLoadInputEmails(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "emails.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"id":"m1","internalDate":"1709535600000","payload":{"mimeType":"text/plain","body":{"data":"SGk"}}}]`), 0o644))
	emlPath := filepath.Join(dir, "budget.eml")
	require.NoError(t, os.WriteFile(emlPath, []byte(eml), 0o644))

	emails, err := loadInputEmails(jsonPath, []string{emlPath})
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "m1", emails[0].ID)
	assert.Equal(t, int64(1709535600000), emails[0].InternalDate)
	assert.Equal(t, "budget.eml", emails[1].ID)
	assert.Equal(t, "text/plain", emails[1].Payload.MimeType)

	_, err = loadInputEmails("", []string{filepath.Join(dir, "missing.eml")})
	require.Error(t, err)
}

func TestLoadJSONFile(t *testing.T) {
	events, err := loadJSONFile[core.RawCalendarEvent]("")
	require.NoError(t, err)
	assert.Nil(t, events)

	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"e1","summary":"Standup","start":{"dateTime":"2024-03-04T09:30:00Z"}}]`), 0o644))
	events, err = loadJSONFile[core.RawCalendarEvent](path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2024-03-04T09:30:00Z", events[0].Start.DateTime)

	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"}`), 0o644))
	_, err = loadJSONFile[core.RawCalendarEvent](path)
	require.Error(t, err)
}

func TestPrintProviders(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printProviders(&out, factory.TTSCredentials{ElevenLabsKey: "el", OpenAIKey: "oa"}, true))
	assert.Contains(t, out.String(), "Active provider: elevenlabs")
	assert.Contains(t, out.String(), "  - elevenlabs\n  - openai\n")
	assert.Contains(t, out.String(), "* Bella")

	out.Reset()
	require.NoError(t, printProviders(&out, factory.TTSCredentials{}, false))
	assert.Equal(t, "Active provider: none\nAvailable providers: 0\n", out.String())
}

func TestProvidersCommand(t *testing.T) {
	t.Setenv("ELEVEN_LABS_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0o644))

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"providers", "--config", cfgPath, "--env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Active provider: openai")
}

func TestRunCommandWithoutVoice(t *testing.T) {
	for _, key := range []string{"ELEVEN_LABS_KEY", "ELEVENLABS_API_KEY", "OPENAI_API_KEY", "INBOX_RADIO_TTS_OPENAI_API_KEY", "INBOX_RADIO_OPENAI_API_KEY", "INBOX_RADIO_TTS_ELEVENLABS_API_KEY"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0o644))

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--config", cfgPath, "--env-file", "", "--out", filepath.Join(dir, "digest.mp3")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, dig.RootCause(err), core.ErrNoProviderConfigured)

	_, statErr := os.Stat(filepath.Join(dir, "digest.mp3"))
	assert.True(t, os.IsNotExist(statErr))
}

type fakeRunner struct {
	emails []core.RawEmail
	opts   core.RunOptions
}

func (f *fakeRunner) ProviderName() string { return "fake" }

func (f *fakeRunner) RunDigest(_ context.Context, emails []core.RawEmail, _ []core.RawCalendarEvent, opts core.RunOptions) (*core.DigestResult, error) {
	f.emails, f.opts = emails, opts
	res := sampleResult()
	res.Mode = opts.Mode
	return res, nil
}

func TestDropboxDigest(t *testing.T) {
	observed, logs := observer.New(zap.InfoLevel)
	logger := zap.New(zapcore.NewTee(zaptest.NewLogger(t).Core(), observed))
	now := time.Date(2024, 3, 4, 18, 30, 0, 0, time.UTC)

	mailbox := smtpinbox.NewMailbox()
	for _, m := range []struct{ id, from string }{
		{"m1", "Ann <ann@example.com>"},
		{"m2", "Promo <deals@news.example.com>"},
	} {
		mailbox.Deliver(core.RawEmail{
			ID:           m.id,
			LabelIDs:     []string{"UNREAD"},
			InternalDate: now.Add(-time.Hour).UnixMilli(),
			Payload:      core.MessagePart{Headers: []core.Header{{Name: "From", Value: m.from}}},
		})
	}

	runner := &fakeRunner{}
	dir := filepath.Join(t.TempDir(), "out")
	d := &dropboxDigest{
		mailbox:    mailbox,
		fetcher:    inbox.NewFetcher(mailbox, nil, mute.NewChecker([]string{"news.example.com"}, logger), logger),
		runner:     runner,
		opts:       core.RunOptions{Mode: core.ModeAuto, VoiceID: "v"},
		cutoffHour: 17,
		outputDir:  dir,
		now:        func() time.Time { return now },
		logger:     logger,
	}

	base, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "digest-20240304-183000-evening"), base)
	assert.Equal(t, core.ModeEvening, runner.opts.Mode)
	assert.Equal(t, "v", runner.opts.VoiceID)
	require.Len(t, runner.emails, 1)
	assert.Equal(t, "m1", runner.emails[0].ID)

	for _, ext := range []string{".mp3", ".txt", ".json", ".md"} {
		_, err := os.Stat(base + ext)
		assert.NoError(t, err, ext)
	}

	ids, err := mailbox.ListUnread(context.Background(), 10, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, ids)

	started := logs.FilterMessage("Digesting drop-box mail").All()
	require.Len(t, started, 1)
	assert.Equal(t, int64(1), started[0].ContextMap()["unread"])
	assert.Equal(t, int64(2), started[0].ContextMap()["stored"])

	// only the muted message is left
	runner.emails = nil
	base, err = d.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, base)
	assert.Nil(t, runner.emails)

	idle := logs.FilterMessage("No unread drop-box mail").All()
	require.Len(t, idle, 1)
	assert.Equal(t, int64(2), idle[0].ContextMap()["stored"])
}
