package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stage names one step of a digest run
type Stage string

const (
	StageNormalize  Stage = "normalize"
	StageExtract    Stage = "extract"
	StageOrder      Stage = "order"
	StageScript     Stage = "generate_script"
	StagePreprocess Stage = "preprocess_speech"
	StageSynthesize Stage = "synthesize"
)

// Run outcomes reported to the observer
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// ServiceOptions are the tunables of a DigestService
type ServiceOptions struct {
	Workers           int
	EveningCutoffHour int
	Now               func() time.Time
	Observer          RunObserver
}

// DigestService is the core service that turns raw mail and events into a digest
type DigestService struct {
	emails     EmailNormalizer
	events     EventNormalizer
	extractor  SummaryExtractor
	writer     ScriptWriter
	formatter  SpeechFormatter
	tts        TTSProvider
	logger     *zap.Logger
	workers    int
	cutoffHour int
	now        func() time.Time
	observer   RunObserver
}

// NewDigestService creates a new digest service. A nil TTS provider is
// accepted here and reported as ErrNoProviderConfigured when a run starts.
func NewDigestService(
	emails EmailNormalizer,
	events EventNormalizer,
	extractor SummaryExtractor,
	writer ScriptWriter,
	formatter SpeechFormatter,
	tts TTSProvider,
	logger *zap.Logger,
	opts ServiceOptions,
) *DigestService {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.EveningCutoffHour <= 0 {
		opts.EveningCutoffHour = DefaultEveningCutoffHour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &DigestService{
		emails:     emails,
		events:     events,
		extractor:  extractor,
		writer:     writer,
		formatter:  formatter,
		tts:        tts,
		logger:     logger,
		workers:    opts.Workers,
		cutoffHour: opts.EveningCutoffHour,
		now:        opts.Now,
		observer:   opts.Observer,
	}
}

// ProviderName returns the name of the configured TTS backend, or "" if none
func (s *DigestService) ProviderName() string {
	if s.tts == nil {
		return ""
	}
	return s.tts.Name()
}

// RunDigest executes one full pipeline run. Either every stage succeeds and a
// complete result is returned, or the first failure is returned as a *RunError.
func (s *DigestService) RunDigest(
	ctx context.Context,
	emails []RawEmail,
	events []RawCalendarEvent,
	opts RunOptions,
) (*DigestResult, error) {
	if s.tts == nil {
		s.observer.ObserveRun(RunFailed)
		return nil, ErrNoProviderConfigured
	}
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		s.observer.ObserveRun(RunFailed)
		return nil, err
	}

	now := s.now()
	mode = ResolveMode(mode, now, s.cutoffHour)
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("mode", string(mode)))
	logger.Info("Starting digest run",
		zap.Int("emails", len(emails)),
		zap.Int("events", len(events)),
		zap.String("tts_provider", s.tts.Name()))

	result, err := s.run(ctx, logger, emails, events, mode, now, opts.VoiceID)
	if err != nil {
		s.observer.ObserveRun(RunFailed)
		logger.Error("Digest run failed", zap.Error(err))
		return nil, err
	}
	result.RunID = runID
	s.observer.ObserveRun(RunSucceeded)
	logger.Info("Digest run complete",
		zap.Int("emails", result.Digest.TotalEmails),
		zap.Int("events", result.Digest.TotalEvents),
		zap.Int("audio_bytes", len(result.Audio)))
	return result, nil
}

func (s *DigestService) run(
	ctx context.Context,
	logger *zap.Logger,
	rawEmails []RawEmail,
	rawEvents []RawCalendarEvent,
	mode Mode,
	now time.Time,
	voiceID string,
) (*DigestResult, error) {
	var (
		normalized []NormalizedEmail
		calendar   []CalendarSummary
		summaries  []EmailSummary
		ordered    []EmailSummary
		script     string
		speech     string
		audio      []byte
	)

	err := s.stage(StageNormalize, func() error {
		var err error
		normalized, calendar, err = s.normalizeInputs(ctx, logger, rawEmails, rawEvents)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.stage(StageExtract, func() error {
		var err error
		summaries, err = s.extractor.Extract(ctx, normalized)
		return err
	}); err != nil {
		return nil, err
	}
	if len(summaries) < len(normalized) {
		logger.Warn("Extraction returned fewer summaries than emails",
			zap.Int("emails", len(normalized)),
			zap.Int("summaries", len(summaries)))
	}

	_ = s.stage(StageOrder, func() error {
		ordered = OrderByImportance(summaries)
		for _, e := range ordered {
			if e.Category != CategoryForScore(e.ImportanceScore) {
				logger.Debug("Category disagrees with importance score",
					zap.String("subject", e.Subject),
					zap.String("category", string(e.Category)),
					zap.Int("score", e.ImportanceScore))
			}
		}
		return nil
	})

	if err := s.stage(StageScript, func() error {
		var err error
		script, err = s.writer.Generate(ctx, ordered, calendar, mode, now)
		return err
	}); err != nil {
		return nil, err
	}

	_ = s.stage(StagePreprocess, func() error {
		speech = s.formatter.ToSpeechText(script)
		return nil
	})

	if err := s.stage(StageSynthesize, func() error {
		var err error
		audio, err = s.tts.Synthesize(ctx, speech, voiceID)
		return err
	}); err != nil {
		return nil, err
	}

	if ordered == nil {
		ordered = []EmailSummary{}
	}
	if calendar == nil {
		calendar = []CalendarSummary{}
	}
	return &DigestResult{
		Mode:       mode,
		Script:     script,
		SpeechText: speech,
		Audio:      audio,
		Provider:   s.tts.Name(),
		Digest: Digest{
			Emails:      ordered,
			Calendar:    calendar,
			TotalEmails: len(ordered),
			TotalEvents: len(calendar),
		},
	}, nil
}

// stage runs fn, records its timing and wraps any failure in a RunError
func (s *DigestService) stage(stage Stage, fn func() error) error {
	start := time.Now()
	err := fn()
	s.observer.ObserveStage(stage, time.Since(start), err)
	if err != nil {
		return &RunError{Stage: stage, Err: err}
	}
	return nil
}

// normalizeInputs normalizes emails and events in parallel. Items that fail
// are logged and skipped; input order is preserved.
func (s *DigestService) normalizeInputs(
	ctx context.Context,
	logger *zap.Logger,
	rawEmails []RawEmail,
	rawEvents []RawCalendarEvent,
) ([]NormalizedEmail, []CalendarSummary, error) {
	emails := make([]NormalizedEmail, len(rawEmails))
	emailOK := make([]bool, len(rawEmails))
	events := make([]CalendarSummary, len(rawEvents))
	eventOK := make([]bool, len(rawEvents))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range rawEmails {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			email, err := s.emails.NormalizeEmail(&rawEmails[i])
			if err != nil {
				s.warn(logger, &NormalizationWarning{ItemID: rawEmails[i].ID, Err: err})
				return nil
			}
			emails[i], emailOK[i] = email, true
			return nil
		})
	}
	for i := range rawEvents {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if rawEvents[i].Status == EventCancelled {
				logger.Debug("Skipping cancelled event", zap.String("event_id", rawEvents[i].ID))
				return nil
			}
			event, err := s.events.NormalizeEvent(&rawEvents[i])
			if err != nil {
				s.warn(logger, &NormalizationWarning{ItemID: rawEvents[i].ID, Err: err})
				return nil
			}
			events[i], eventOK[i] = event, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return compact(emails, emailOK), compact(events, eventOK), nil
}

func (s *DigestService) warn(logger *zap.Logger, w *NormalizationWarning) {
	s.observer.ObserveWarning(StageNormalize)
	logger.Warn("Skipping item that failed normalization",
		zap.String("item_id", w.ItemID),
		zap.Error(w.Err))
}

func compact[T any](items []T, ok []bool) []T {
	out := make([]T, 0, len(items))
	for i, item := range items {
		if ok[i] {
			out = append(out, item)
		}
	}
	return out
}
