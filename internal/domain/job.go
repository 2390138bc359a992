package domain

import "time"

// JobState enumerates the generation job lifecycle.
type JobState string

const (
	JobSubmitted JobState = "SUBMITTED"
	JobPolling   JobState = "POLLING"
	JobDone      JobState = "DONE"
	JobFailed    JobState = "FAILED"
)

// Job tracks one in-flight or finished generation. The handle is
// assigned once by the submit call and never changes; ResultLocator is
// set only on the transition to JobDone. At most one Job is live per
// wizard session.
type Job struct {
	Handle        string
	State         JobState
	ResultLocator string
	SubmittedAt   time.Time
	Polls         int
	ErrorMessage  string
}
