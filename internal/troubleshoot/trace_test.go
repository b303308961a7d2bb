package troubleshoot

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	sink.StageDone(StageEvent{RunID: "r1", Stage: "health", Outcome: OutcomeIssues, Findings: 2, Elapsed: time.Millisecond})
	sink.StageDone(StageEvent{RunID: "r1", Stage: "association", Outcome: OutcomePassed})

	out := buf.String()
	assert.Contains(t, out, `"level":"warn","component":"trace","run_id":"r1","stage":"health","outcome":"issues","findings":2`)
	assert.Contains(t, out, `"level":"info","component":"trace","run_id":"r1","stage":"association"`)
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OutcomeTerminal, outcome(0, "error"))
	assert.Equal(t, OutcomeIssues, outcome(1, ""))
	assert.Equal(t, OutcomePassed, outcome(0, "all_good"))
}
