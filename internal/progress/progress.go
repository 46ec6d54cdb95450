// Package progress reports per-class progress of a dataset build.
package progress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Callback receives progress events while classes are processed.
type Callback interface {
	// OnStart is called once with the number of classes to process.
	OnStart(total int)

	// OnProgress is called after each class with the number processed so far.
	OnProgress(current, total int)

	// OnComplete is called when every class has been processed.
	OnComplete()

	// OnError is called when processing stops at class current.
	OnError(current int, err error)
}

// NoOp implements Callback but does nothing.
type NoOp struct{}

func (NoOp) OnStart(total int)              {}
func (NoOp) OnProgress(current, total int)  {}
func (NoOp) OnComplete()                    {}
func (NoOp) OnError(current int, err error) {}

// Log reports progress through slog.
type Log struct {
	logger    *slog.Logger
	level     slog.Level
	interval  int
	lastLog   int
	startTime time.Time
}

// NewLog creates a log-based progress reporter.
func NewLog(logger *slog.Logger, level slog.Level) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger, level: level, interval: 10}
}

// WithInterval sets how frequently to log progress (every n classes).
func (l *Log) WithInterval(n int) *Log {
	if n < 1 {
		n = 1
	}
	l.interval = n
	return l
}

func (l *Log) OnStart(total int) {
	l.startTime = time.Now()
	l.lastLog = 0
	l.logger.Log(context.Background(), l.level, "starting dataset build", "classes", total)
}

func (l *Log) OnProgress(current, total int) {
	if current-l.lastLog < l.interval && current != total {
		return
	}
	l.lastLog = current
	elapsed := time.Since(l.startTime)
	percent := 0.0
	if total > 0 {
		percent = float64(current) / float64(total) * 100.0
	}
	l.logger.Log(context.Background(), l.level, "progress update",
		"current", current,
		"total", total,
		"percent", fmt.Sprintf("%.1f", percent),
		"elapsed", elapsed.Round(time.Millisecond),
	)
}

func (l *Log) OnComplete() {
	l.logger.Log(context.Background(), l.level, "dataset build completed",
		"elapsed", time.Since(l.startTime).Round(time.Millisecond))
}

func (l *Log) OnError(current int, err error) {
	l.logger.Error("dataset build failed", "class", current, "error", err)
}

// Bar draws a terminal progress bar.
type Bar struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
}

// NewBar creates a progress bar writing to w (stderr when nil).
func NewBar(w io.Writer) *Bar {
	if w == nil {
		w = os.Stderr
	}
	return &Bar{writer: w}
}

func (b *Bar) OnStart(total int) {
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.writer),
		progressbar.OptionSetDescription("classes"),
		progressbar.OptionSetItsString("classes"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		progressbar.OptionSetPredictTime(true),
	)
}

func (b *Bar) OnProgress(current, total int) {
	if b.bar == nil {
		return
	}
	_ = b.bar.Set(current)
}

func (b *Bar) OnComplete() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
	_, _ = fmt.Fprintln(b.writer)
}

func (b *Bar) OnError(current int, err error) {
	if b.bar == nil {
		return
	}
	_ = b.bar.Exit()
	_, _ = fmt.Fprintf(b.writer, "\nerror at class %d: %v\n", current, err)
}

// Multi fans events out to several callbacks.
type Multi struct {
	callbacks []Callback
}

// NewMulti creates a Callback that reports to every non-nil callback.
func NewMulti(callbacks ...Callback) *Multi {
	m := &Multi{}
	for _, cb := range callbacks {
		m.Add(cb)
	}
	return m
}

// Add adds another callback.
func (m *Multi) Add(cb Callback) {
	if cb != nil {
		m.callbacks = append(m.callbacks, cb)
	}
}

func (m *Multi) OnStart(total int) {
	for _, cb := range m.callbacks {
		cb.OnStart(total)
	}
}

func (m *Multi) OnProgress(current, total int) {
	for _, cb := range m.callbacks {
		cb.OnProgress(current, total)
	}
}

func (m *Multi) OnComplete() {
	for _, cb := range m.callbacks {
		cb.OnComplete()
	}
}

func (m *Multi) OnError(current int, err error) {
	for _, cb := range m.callbacks {
		cb.OnError(current, err)
	}
}
