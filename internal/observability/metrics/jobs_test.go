package metrics

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordedMetric struct {
	kind  string
	name  string
	value float64
	tags  map[string]string
}

type recordingSink struct {
	mu      sync.Mutex
	metrics []recordedMetric
}

func (s *recordingSink) add(m recordedMetric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, m)
}

func (s *recordingSink) Count(name string, value int64, tags map[string]string) {
	s.add(recordedMetric{"count", name, float64(value), tags})
}

func (s *recordingSink) Gauge(name string, value float64, tags map[string]string) {
	s.add(recordedMetric{"gauge", name, value, tags})
}

func (s *recordingSink) Timing(name string, value time.Duration, tags map[string]string) {
	s.add(recordedMetric{"timing", name, float64(value.Milliseconds()), tags})
}

func (s *recordingSink) find(name string) (recordedMetric, bool) {
	for _, m := range s.metrics {
		if m.name == name {
			return m, true
		}
	}
	return recordedMetric{}, false
}

func TestEmitJobRun_Completed(t *testing.T) {
	sink := &recordingSink{}

	EmitJobRun(sink, JobRunMetric{
		Kind:      "notification",
		Result:    ResultCompleted,
		Duration:  2 * time.Second,
		Processed: 48,
		Failed:    2,
	})

	run, ok := sink.find("job_run")
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"job_kind": "notification", "result": "completed"}, run.tags)

	dur, ok := sink.find("job_run.duration")
	assert.True(t, ok)
	assert.InDelta(t, 2000, dur.value, 0.1)

	processed, _ := sink.find("job_run.items_processed")
	failed, _ := sink.find("job_run.items_failed")
	assert.InDelta(t, 48, processed.value, 0)
	assert.InDelta(t, 2, failed.value, 0)
}

func TestEmitJobRun_FailedTagsErrorClass(t *testing.T) {
	sink := &recordingSink{}

	EmitJobRun(sink, JobRunMetric{
		Kind:   "revoke",
		Result: ResultFailed,
		Err:    fmt.Errorf("select work: %w", context.DeadlineExceeded),
	})

	run, ok := sink.find("job_run")
	assert.True(t, ok)
	assert.Equal(t, "timeout", run.tags["error_class"])
	_, hasItems := sink.find("job_run.items_processed")
	assert.False(t, hasItems)
	_, hasDuration := sink.find("job_run.duration")
	assert.False(t, hasDuration)
}

func TestEmitBatch(t *testing.T) {
	sink := &recordingSink{}

	EmitBatch(sink, BatchMetric{Kind: "notification", Items: 50, Parallel: 1100 * time.Millisecond, SequentialEstimate: 50 * time.Second})

	assert.Len(t, sink.metrics, 3)
	seq, _ := sink.find("batch.sequential_estimate")
	assert.InDelta(t, 50000, seq.value, 0)
}

func TestEmit_NilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitJobRun(nil, JobRunMetric{})
		EmitBatch(nil, BatchMetric{})
		EmitReaped(nil, 3)
	})
}

func TestEmitReaped_SkipsZero(t *testing.T) {
	sink := &recordingSink{}
	EmitReaped(sink, 0)
	EmitReaped(sink, 2)
	assert.Len(t, sink.metrics, 1)
}
