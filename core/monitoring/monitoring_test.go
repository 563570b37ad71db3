package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeMonitor struct {
	errs      []error
	recovered []any
	flushed   int
}

func (f *fakeMonitor) CaptureException(err error, _ map[string]string) { f.errs = append(f.errs, err) }
func (f *fakeMonitor) Recover()                                        {}
func (f *fakeMonitor) Flush(time.Duration)                             { f.flushed++ }
func (f *fakeMonitor) RecoverValue(v any)                              { f.recovered = append(f.recovered, v) }

func TestCaptureSkipsNil(t *testing.T) {
	f := &fakeMonitor{}
	Init(f)
	defer Init(NopMonitor{})

	CaptureException(nil, nil)
	CaptureException(errors.New("boom"), map[string]string{"module": "test"})
	assert.Len(t, f.errs, 1)

	Init(nil)
	assert.Same(t, f, Current())
}

func TestRecoverReportsAndRepanics(t *testing.T) {
	f := &fakeMonitor{}
	Init(f)
	defer Init(NopMonitor{})

	assert.PanicsWithValue(t, "bad", func() {
		defer Recover()
		panic("bad")
	})
	assert.Equal(t, []any{"bad"}, f.recovered)
	assert.Equal(t, 1, f.flushed)
}
