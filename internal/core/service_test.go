package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeEmails struct{}

func (fakeEmails) NormalizeEmail(raw *RawEmail) (NormalizedEmail, error) {
	if strings.HasPrefix(raw.ID, "bad") {
		return NormalizedEmail{}, errors.New("malformed")
	}
	return NormalizedEmail{ID: raw.ID, Subject: "subject " + raw.ID}, nil
}

type fakeEvents struct{}

func (fakeEvents) NormalizeEvent(raw *RawCalendarEvent) (CalendarSummary, error) {
	if raw.Start.DateTime == "" && raw.Start.Date == "" {
		return CalendarSummary{}, errors.New("no start")
	}
	return CalendarSummary{Title: raw.Summary, Time: "nine"}, nil
}

type fakeExtractor struct {
	calls     int
	got       []NormalizedEmail
	summaries []EmailSummary
	err       error
}

func (f *fakeExtractor) Extract(_ context.Context, emails []NormalizedEmail) ([]EmailSummary, error) {
	f.calls++
	f.got = emails
	return f.summaries, f.err
}

type fakeWriter struct {
	calls    int
	mode     Mode
	emails   []EmailSummary
	calendar []CalendarSummary
	err      error
}

func (f *fakeWriter) Generate(_ context.Context, emails []EmailSummary, calendar []CalendarSummary, mode Mode, _ time.Time) (string, error) {
	f.calls++
	f.mode, f.emails, f.calendar = mode, emails, calendar
	if f.err != nil {
		return "", f.err
	}
	return "Good " + string(mode) + " [pause] Done", nil
}

type fakeFormatter struct{}

func (fakeFormatter) ToSpeechText(script string) string {
	return strings.ReplaceAll(script, " [pause] ", ", ")
}

type fakeTTS struct {
	text  string
	voice string
	err   error
}

func (f *fakeTTS) Name() string { return "fake" }

func (f *fakeTTS) Synthesize(_ context.Context, text, voiceID string) ([]byte, error) {
	f.text, f.voice = text, voiceID
	if f.err != nil {
		return nil, f.err
	}
	return []byte("audio:" + text), nil
}

type recordingObserver struct {
	mu       sync.Mutex
	stages   []Stage
	runs     []string
	warnings int
}

func (o *recordingObserver) ObserveStage(stage Stage, _ time.Duration, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, stage)
}

func (o *recordingObserver) ObserveRun(status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, status)
}

func (o *recordingObserver) ObserveWarning(Stage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.warnings++
}

type harness struct {
	extractor *fakeExtractor
	writer    *fakeWriter
	tts       *fakeTTS
	observer  *recordingObserver
	service   *DigestService
}

func newHarness(t *testing.T, now time.Time, withTTS bool) *harness {
	h := &harness{
		extractor: &fakeExtractor{},
		writer:    &fakeWriter{},
		tts:       &fakeTTS{},
		observer:  &recordingObserver{},
	}
	var tts TTSProvider
	if withTTS {
		tts = h.tts
	}
	h.service = NewDigestService(fakeEmails{}, fakeEvents{}, h.extractor, h.writer, fakeFormatter{}, tts,
		zaptest.NewLogger(t), ServiceOptions{
			Workers:  2,
			Now:      func() time.Time { return now },
			Observer: h.observer,
		})
	return h
}

var morning = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func TestRunDigestHappyPath(t *testing.T) {
	h := newHarness(t, morning, true)
	h.extractor.summaries = []EmailSummary{
		{Sender: "A", ImportanceScore: 3, Category: CategoryGeneral},
		{Sender: "B", ImportanceScore: 9, Category: CategoryUrgent},
		{Sender: "C", ImportanceScore: 5, Category: CategoryImportant},
		{Sender: "D", ImportanceScore: 9, Category: CategoryUrgent},
	}

	emails := []RawEmail{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}
	events := []RawCalendarEvent{{ID: "e1", Summary: "Standup", Start: EventTime{DateTime: "2024-03-04T09:30:00Z"}}}

	res, err := h.service.RunDigest(context.Background(), emails, events, RunOptions{VoiceID: "v1"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, ModeMorning, res.Mode)
	assert.Equal(t, "fake", res.Provider)
	assert.Equal(t, "Good morning [pause] Done", res.Script)
	assert.Equal(t, "Good morning, Done", res.SpeechText)
	assert.Equal(t, []byte("audio:Good morning, Done"), res.Audio)
	assert.Equal(t, "v1", h.tts.voice)

	var senders []string
	for _, e := range res.Digest.Emails {
		senders = append(senders, e.Sender)
	}
	assert.Equal(t, []string{"B", "D", "C", "A"}, senders)
	assert.Equal(t, 4, res.Digest.TotalEmails)
	assert.Equal(t, 1, res.Digest.TotalEvents)
	assert.Equal(t, "Standup", res.Digest.Calendar[0].Title)

	assert.Equal(t, ModeMorning, h.writer.mode)
	assert.Equal(t, res.Digest.Emails, h.writer.emails)
	assert.Equal(t, 1, h.extractor.calls)
	require.Len(t, h.extractor.got, 4)
	assert.Equal(t, "1", h.extractor.got[0].ID)
	assert.Equal(t, "4", h.extractor.got[3].ID)

	assert.Equal(t, []string{RunSucceeded}, h.observer.runs)
	assert.Equal(t, []Stage{StageNormalize, StageExtract, StageOrder, StageScript, StagePreprocess, StageSynthesize}, h.observer.stages)
}

func TestRunDigestNoProviderFailsFast(t *testing.T) {
	h := newHarness(t, morning, false)

	res, err := h.service.RunDigest(context.Background(), []RawEmail{{ID: "1"}}, nil, RunOptions{})
	require.ErrorIs(t, err, ErrNoProviderConfigured)
	assert.Nil(t, res)
	assert.Zero(t, h.extractor.calls)
	assert.Zero(t, h.writer.calls)
	assert.Equal(t, "", h.service.ProviderName())
	assert.Equal(t, []string{RunFailed}, h.observer.runs)
}

func TestRunDigestInvalidMode(t *testing.T) {
	h := newHarness(t, morning, true)

	_, err := h.service.RunDigest(context.Background(), nil, nil, RunOptions{Mode: "midnight"})
	require.ErrorIs(t, err, ErrInvalidMode)
	assert.Zero(t, h.extractor.calls)
}

func TestRunDigestModes(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		mode Mode
		want Mode
	}{
		{name: "auto before cutoff", now: morning, mode: ModeAuto, want: ModeMorning},
		{name: "auto at cutoff", now: time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC), mode: "", want: ModeEvening},
		{name: "explicit morning in the evening", now: time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC), mode: ModeMorning, want: ModeMorning},
		{name: "explicit evening in the morning", now: morning, mode: ModeEvening, want: ModeEvening},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.now, true)
			res, err := h.service.RunDigest(context.Background(), nil, nil, RunOptions{Mode: tt.mode})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Mode)
			assert.Equal(t, tt.want, h.writer.mode)
		})
	}
}

func TestRunDigestSkipsBadItems(t *testing.T) {
	h := newHarness(t, morning, true)

	emails := []RawEmail{{ID: "1"}, {ID: "bad-2"}, {ID: "3"}}
	events := []RawCalendarEvent{
		{ID: "e1", Summary: "Kept", Start: EventTime{Date: "2024-03-04"}},
		{ID: "e2", Summary: "No start"},
		{ID: "e3", Summary: "Cancelled", Status: EventCancelled, Start: EventTime{Date: "2024-03-04"}},
		{ID: "e4", Summary: "Also kept", Start: EventTime{DateTime: "2024-03-04T15:00:00Z"}},
	}

	res, err := h.service.RunDigest(context.Background(), emails, events, RunOptions{})
	require.NoError(t, err)

	require.Len(t, h.extractor.got, 2)
	assert.Equal(t, "1", h.extractor.got[0].ID)
	assert.Equal(t, "3", h.extractor.got[1].ID)
	require.Len(t, res.Digest.Calendar, 2)
	assert.Equal(t, "Kept", res.Digest.Calendar[0].Title)
	assert.Equal(t, "Also kept", res.Digest.Calendar[1].Title)
	assert.Equal(t, 2, h.observer.warnings)
	assert.Empty(t, res.Digest.Emails)
	assert.NotNil(t, res.Digest.Emails)
}

func TestRunDigestStageFailures(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(h *harness)
		wantStage Stage
		check     func(t *testing.T, err error)
	}{
		{
			name:      "extraction",
			setup:     func(h *harness) { h.extractor.err = &ExtractionError{Err: errors.New("timeout")} },
			wantStage: StageExtract,
			check: func(t *testing.T, err error) {
				var target *ExtractionError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name:      "script",
			setup:     func(h *harness) { h.writer.err = &ScriptGenerationError{Err: errors.New("empty")} },
			wantStage: StageScript,
			check: func(t *testing.T, err error) {
				var target *ScriptGenerationError
				assert.ErrorAs(t, err, &target)
			},
		},
		{
			name:      "synthesis",
			setup:     func(h *harness) { h.tts.err = &TTSProviderError{Provider: "fake", StatusCode: 429, Err: errors.New("quota")} },
			wantStage: StageSynthesize,
			check: func(t *testing.T, err error) {
				var target *TTSProviderError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 429, target.StatusCode)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, morning, true)
			tt.setup(h)

			res, err := h.service.RunDigest(context.Background(), []RawEmail{{ID: "1"}}, nil, RunOptions{})
			require.Error(t, err)
			assert.Nil(t, res)

			var runErr *RunError
			require.ErrorAs(t, err, &runErr)
			assert.Equal(t, tt.wantStage, runErr.Stage)
			tt.check(t, err)
			assert.Equal(t, []string{RunFailed}, h.observer.runs)
		})
	}
}

func TestRunDigestCancelledContext(t *testing.T) {
	h := newHarness(t, morning, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.service.RunDigest(ctx, []RawEmail{{ID: "1"}}, nil, RunOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, h.extractor.calls)
}
