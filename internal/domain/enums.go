package domain

// JobStatus represents the lifecycle of an invoice processing job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusError      JobStatus = "error"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDone || s == JobStatusError
}

// JobSource tags where a job originated.
type JobSource string

const (
	JobSourceScheduled    JobSource = "scheduled"
	JobSourceManual       JobSource = "manual"
	JobSourceManualUpload JobSource = "manual_upload"
)

// ValidJobSources lists the accepted origin tags.
var ValidJobSources = map[JobSource]bool{
	JobSourceScheduled:    true,
	JobSourceManual:       true,
	JobSourceManualUpload: true,
}

// SweepTrigger identifies what started a mailbox sweep.
type SweepTrigger string

const (
	SweepTriggerScheduled SweepTrigger = "scheduled"
	SweepTriggerManual    SweepTrigger = "manual"
)

// JobSource maps a sweep trigger to the source tag of the jobs it produces.
func (t SweepTrigger) JobSource() JobSource {
	if t == SweepTriggerScheduled {
		return JobSourceScheduled
	}
	return JobSourceManual
}

// ContentTypePDF is the only attachment type the pipeline accepts.
const ContentTypePDF = "application/pdf"
