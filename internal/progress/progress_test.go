package progress

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	starts, progress, completes, errors int
}

func (r *recorder) OnStart(int)         { r.starts++ }
func (r *recorder) OnProgress(int, int) { r.progress++ }
func (r *recorder) OnComplete()         { r.completes++ }
func (r *recorder) OnError(int, error)  { r.errors++ }

func TestNoOp(t *testing.T) {
	var cb Callback = NoOp{}
	cb.OnStart(3)
	cb.OnProgress(1, 3)
	cb.OnComplete()
	cb.OnError(1, assert.AnError)
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cb := NewLog(logger, slog.LevelInfo).WithInterval(2)

	cb.OnStart(4)
	assert.Contains(t, buf.String(), "starting dataset build")
	assert.Contains(t, buf.String(), "classes=4")

	buf.Reset()
	cb.OnProgress(1, 4)
	assert.Empty(t, buf.String())

	cb.OnProgress(2, 4)
	assert.Contains(t, buf.String(), "progress update")
	assert.Contains(t, buf.String(), "current=2")

	buf.Reset()
	cb.OnProgress(3, 4)
	assert.Empty(t, buf.String())
	cb.OnProgress(4, 4)
	assert.Contains(t, buf.String(), "percent=100.0")

	buf.Reset()
	cb.OnComplete()
	assert.Contains(t, buf.String(), "dataset build completed")

	buf.Reset()
	cb.OnError(3, assert.AnError)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "class=3")
}

func TestLog_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	cb := NewLog(slog.New(slog.NewTextHandler(&buf, nil)), slog.LevelInfo).WithInterval(0)
	cb.OnStart(0)
	cb.OnProgress(0, 0)
	assert.Contains(t, buf.String(), "percent=0.0")
}

func TestBar(t *testing.T) {
	var buf bytes.Buffer
	cb := NewBar(&buf)

	// Events before OnStart are ignored.
	cb.OnProgress(1, 2)
	cb.OnComplete()
	assert.Empty(t, buf.String())

	cb.OnStart(2)
	cb.OnProgress(1, 2)
	cb.OnProgress(2, 2)
	cb.OnComplete()
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	cb.OnStart(2)
	cb.OnError(1, assert.AnError)
	assert.Contains(t, buf.String(), "error at class 1")
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := NewMulti(a, nil)
	m.Add(b)
	m.Add(nil)

	m.OnStart(2)
	m.OnProgress(1, 2)
	m.OnProgress(2, 2)
	m.OnComplete()
	m.OnError(2, assert.AnError)

	for _, r := range []*recorder{a, b} {
		assert.Equal(t, 1, r.starts)
		assert.Equal(t, 2, r.progress)
		assert.Equal(t, 1, r.completes)
		assert.Equal(t, 1, r.errors)
	}
}
