package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI's stderr logger. Debug level adds the caller,
// which is mostly useful when tracing cache and backend hooks.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a multi-stage command. lap logs stage boundaries at debug
// level; done logs the total at info level.
type progress struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, last: now}
}

// lap records the end of one stage, e.g. "analysis" before "layout".
func (p *progress) lap(stage string) {
	now := time.Now()
	p.logger.Debug("stage finished", "stage", stage, "took", elapsed(now.Sub(p.last)))
	p.last = now
}

// done logs msg with the total elapsed time, e.g. "Laid out 42 cards (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, elapsed(time.Since(p.start)))
}
