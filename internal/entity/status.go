package entity

// Status is the lifecycle state of a dead letter.
//
//	pending -> processing -> processed
//	              |
//	              +-> pending (retry, release, reclaim) -> ... -> failed
type Status string

const (
	Pending    Status = "pending"
	Processing Status = "processing"
	Processed  Status = "processed"
	Failed     Status = "failed"
)

// Terminal reports whether a letter in this status is never redriven again.
func (s Status) Terminal() bool {
	return s == Processed || s == Failed
}

// TerminalStatuses lists the statuses cleanup may delete.
func TerminalStatuses() []Status {
	return []Status{Processed, Failed}
}
