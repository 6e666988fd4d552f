// Package intake implements the file-intake state machine: sequencing file
// acceptance, optional decryption, delegation to extraction, and result or
// error presentation state.
package intake

import (
	"github.com/statementkit/statement-intake/internal/domain/transactions"
)

// Status enumerates the main view states. Exactly one is active at a time.
type Status int

const (
	StatusIdle Status = iota
	StatusUploading
	StatusProcessing
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusUploading:
		return "uploading"
	case StatusProcessing:
		return "processing"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// ProcessingError is the user-facing error shown in the Error state.
type ProcessingError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// File is an in-memory statement file moving through the intake flow.
type File struct {
	Name string
	Data []byte
}

// state is the tagged view-state union. Invariants:
//   - data is non-nil iff status is StatusSuccess
//   - procErr is non-nil iff status is StatusError
//   - pending is non-nil iff the password prompt is visible, and only while
//     status is StatusIdle or StatusUploading
//
// All transitions replace the whole value, so a stale field can never
// survive a status change.
type state struct {
	status    Status
	data      *transactions.ExtractedData
	procErr   *ProcessingError
	pending   *File
	promptErr string
}

// Snapshot is a copy of the controller state handed to the presentation
// layer. It never aliases controller-owned memory apart from the immutable
// result rows.
type Snapshot struct {
	Status          Status
	Data            *transactions.ExtractedData
	Err             *ProcessingError
	PromptVisible   bool
	PendingFileName string
	PromptError     string
}

func (st state) snapshot() Snapshot {
	snap := Snapshot{
		Status:      st.status,
		Data:        st.data,
		Err:         st.procErr,
		PromptError: st.promptErr,
	}
	if st.pending != nil {
		snap.PromptVisible = true
		snap.PendingFileName = st.pending.Name
	}
	return snap
}
