package troubleshoot

import (
	"time"

	"github.com/rs/zerolog"
)

// StageEvent is emitted once per executed stage.
type StageEvent struct {
	RunID    string
	Stage    string
	Outcome  Outcome
	Findings int
	Elapsed  time.Duration
}

// Outcome summarizes how a stage ended.
type Outcome string

const (
	OutcomePassed   Outcome = "passed"
	OutcomeIssues   Outcome = "issues"
	OutcomeTerminal Outcome = "terminal"
)

// TraceSink receives structured stage events.
type TraceSink interface {
	StageDone(ev StageEvent)
}

// LogSink writes stage events to a zerolog logger.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "trace").Logger()}
}

func (s *LogSink) StageDone(ev StageEvent) {
	lvl := zerolog.InfoLevel
	if ev.Outcome != OutcomePassed {
		lvl = zerolog.WarnLevel
	}
	s.log.WithLevel(lvl).
		Str("run_id", ev.RunID).
		Str("stage", ev.Stage).
		Str("outcome", string(ev.Outcome)).
		Int("findings", ev.Findings).
		Dur("elapsed", ev.Elapsed).
		Msg("Stage finished")
}

type nopSink struct{}

func (nopSink) StageDone(StageEvent) {}
