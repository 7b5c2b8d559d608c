package model

// ItemSuccess describes one work item that completed its side effect.
type ItemSuccess struct {
	EntityID  string     `json:"entityId"`
	Recipient string     `json:"recipient"`
	Action    WorkAction `json:"action"`
}

// ItemFailure describes one work item that failed, with the reason.
type ItemFailure struct {
	EntityID  string     `json:"entityId"`
	Recipient string     `json:"recipient"`
	Action    WorkAction `json:"action"`
	Reason    string     `json:"reason"`
}

// RunTiming carries batch timing metrics in milliseconds.
type RunTiming struct {
	ParallelElapsedMs    int64 `json:"parallelElapsedMs"`
	SequentialEstimateMs int64 `json:"sequentialEstimateMs"`
	TotalElapsedMs       int64 `json:"totalElapsedMs"`
}

// JobRunResult is the payload returned for a completed run.
type JobRunResult struct {
	Message        string        `json:"message"`
	JobID          string        `json:"jobId"`
	Kind           JobKind       `json:"jobKind"`
	ProcessedCount int           `json:"processedCount"`
	FailedCount    int           `json:"failedCount"`
	Succeeded      []ItemSuccess `json:"succeeded"`
	Failed         []ItemFailure `json:"failed"`
	Timing         RunTiming     `json:"timing"`
}

// RunRequest carries optional test-only knobs for a trigger. The zero value has no effect.
type RunRequest struct {
	// ForceFail lists entity ids whose operation must fail.
	ForceFail []string `json:"forceFail,omitempty"`
	// RandomFail fails roughly half of the items at random.
	RandomFail bool `json:"randomFail,omitempty"`
}
