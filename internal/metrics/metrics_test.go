package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory Backend for tests.
type fakeBackend struct {
	counters   []call
	histograms []call
	flushCount int
}

type call struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.counters = append(f.counters, call{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.histograms = append(f.histograms, call{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.flushCount++
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	orig := backend
	t.Cleanup(func() { backend = orig })

	fb := &fakeBackend{}
	backend = fb
	return fb
}

func TestRecordStep_SuccessAndFailure(t *testing.T) {
	fb := install(t)

	RecordStep("popreport", StepLoad, nil, 2*time.Second)
	RecordStep("popreport", StepWrite, errors.New("disk full"), 1500*time.Millisecond)

	require.Len(t, fb.counters, 2)
	require.Len(t, fb.histograms, 2)

	assert.Equal(t, call{StepTotal, 1, Labels{"job": "popreport", "step": "load", "status": "success"}}, fb.counters[0])
	assert.Equal(t, "failure", fb.counters[1].labels["status"])
	assert.Equal(t, "write", fb.counters[1].labels["step"])

	assert.Equal(t, StepDuration, fb.histograms[0].name)
	assert.InDelta(t, 2.0, fb.histograms[0].value, 0.001)
	assert.InDelta(t, 1.5, fb.histograms[1].value, 0.001)
}

func TestRecordRows(t *testing.T) {
	fb := install(t)

	RecordRows("popreport", KindRead, 4)
	RecordRows("popreport", KindSkipped, 0)
	RecordRows("popreport", KindKept, 2)

	require.Len(t, fb.counters, 2)
	assert.Equal(t, call{RecordsTotal, 4, Labels{"job": "popreport", "kind": "read"}}, fb.counters[0])
	assert.Equal(t, call{RecordsTotal, 2, Labels{"job": "popreport", "kind": "kept"}}, fb.counters[1])
}

func TestSetBackendAndFlush(t *testing.T) {
	orig := backend
	defer func() { backend = orig }()

	fb := &fakeBackend{}
	SetBackend(fb)
	require.Same(t, fb, backend)

	require.NoError(t, Flush())
	assert.Equal(t, 1, fb.flushCount)

	SetBackend(nil)
	assert.Same(t, fb, backend, "SetBackend(nil) must keep the current backend")
}

func TestNopBackendIsDefault(t *testing.T) {
	_, ok := backend.(nopBackend)
	require.True(t, ok, "default backend = %T", backend)
	assert.NoError(t, Flush())
}
