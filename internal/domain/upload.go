package domain

import "io"

// UploadCandidate is an incoming file part, alive only while its request is handled.
type UploadCandidate struct {
	Reader       io.Reader
	MediaType    string // as declared by the client
	OriginalName string
}

// StoredFile is an accepted candidate after it has been written to the file store.
type StoredFile struct {
	Path         string `json:"path"`
	MediaType    string `json:"media_type"`
	DetectedType string `json:"detected_type,omitempty"` // sniffed from the first bytes
	Size         int64  `json:"size"`
}

// UploadStatus is the kind of an ingestion outcome
type UploadStatus int

const (
	UploadAccepted UploadStatus = iota + 1
	UploadRejected
	UploadFailed
)

func (s UploadStatus) String() string {
	switch s {
	case UploadAccepted:
		return "accepted"
	case UploadRejected:
		return "rejected"
	case UploadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UploadOutcome is the result of ingesting one candidate.
// Accepted carries File, Rejected carries Reason, Failed carries Err.
type UploadOutcome struct {
	Status UploadStatus
	File   *StoredFile
	Reason string
	Err    error
}

// Accepted builds an accepted outcome
func Accepted(file *StoredFile) UploadOutcome {
	return UploadOutcome{Status: UploadAccepted, File: file}
}

// Rejected builds a rejected outcome. Nothing was written for it.
func Rejected(reason string) UploadOutcome {
	return UploadOutcome{Status: UploadRejected, Reason: reason}
}

// Failed builds a failed outcome
func Failed(err error) UploadOutcome {
	return UploadOutcome{Status: UploadFailed, Err: err}
}
