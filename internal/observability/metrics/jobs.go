// Package metrics translates job run outcomes into StatsD metrics.
package metrics

import (
	"time"

	obserrors "github.com/target/accessjobs/internal/observability/errors"
	"github.com/target/accessjobs/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultCompleted = "completed"
	ResultFailed    = "failed"
	ResultConflict  = "conflict"
)

// JobRunMetric captures one JobRunner outcome.
type JobRunMetric struct {
	Kind      string
	Result    string
	Duration  time.Duration
	Processed int
	Failed    int
	Err       error
}

// EmitJobRun emits the run counter, its duration and, for completed runs, item counts.
func EmitJobRun(sink statsd.Sink, in JobRunMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"job_kind": in.Kind,
		"result":   in.Result,
	}
	if in.Err != nil && in.Result == ResultFailed {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("job_run", 1, tags)
	if in.Duration > 0 {
		sink.Timing("job_run.duration", in.Duration, cloneTags(tags))
	}
	if in.Result == ResultCompleted {
		kindTag := map[string]string{"job_kind": in.Kind}
		sink.Count("job_run.items_processed", int64(in.Processed), kindTag)
		sink.Count("job_run.items_failed", int64(in.Failed), cloneTags(kindTag))
	}
}

// BatchMetric captures the timing of one parallel batch.
type BatchMetric struct {
	Kind               string
	Items              int
	Parallel           time.Duration
	SequentialEstimate time.Duration
}

// EmitBatch emits batch size and parallel versus sequential timing.
func EmitBatch(sink statsd.Sink, in BatchMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"job_kind": in.Kind}
	sink.Gauge("batch.items", float64(in.Items), tags)
	sink.Timing("batch.parallel", in.Parallel, cloneTags(tags))
	sink.Timing("batch.sequential_estimate", in.SequentialEstimate, cloneTags(tags))
}

// EmitReaped counts runs the reaper closed out.
func EmitReaped(sink statsd.Sink, n int64) {
	if sink == nil || n <= 0 {
		return
	}
	sink.Count("job_run.reaped", n, nil)
}

func cloneTags(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
