package extract

// Error is an extraction failure. Message, when set, is safe to show to the
// user; the controller substitutes a generic fallback otherwise.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage implements the contract the intake controller checks for a
// human-readable failure message.
func (e *Error) UserMessage() string { return e.Message }
