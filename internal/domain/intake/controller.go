package intake

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/statementkit/statement-intake/internal/domain/transactions"
)

// Collaborator contracts. Implementations live outside this package; the
// controller only cares about the async call shape.
type (
	// Prober tests whether a file is password-protected without decrypting it.
	Prober interface {
		Probe(ctx context.Context, f File) (bool, error)
	}

	// Decryptor produces an unlocked copy of f, failing on bad credentials.
	Decryptor interface {
		Decrypt(ctx context.Context, f File, password string) (File, error)
	}

	// Extractor converts a statement file into structured rows. A failure may
	// carry a human-readable message via UserMessager.
	Extractor interface {
		Extract(ctx context.Context, f File) ([]transactions.Transaction, error)
	}
)

// UserMessager is implemented by extraction errors that carry a message safe
// to show to the user. Errors without one get the generic fallback.
type UserMessager interface {
	UserMessage() string
}

var (
	// ErrBusy is returned when an operation arrives while an upload or
	// extraction is already in flight.
	ErrBusy = errors.New("intake: extraction already in progress")

	// ErrNoPendingFile is returned by SubmitPassword when no file is waiting
	// for a password.
	ErrNoPendingFile = errors.New("intake: no pending file awaiting password")

	// ErrIncorrectPassword is returned by SubmitPassword on a failed decrypt.
	// The prompt stays visible and the pending file is kept for retry.
	ErrIncorrectPassword = errors.New("intake: incorrect password")
)

const (
	conversionErrorTitle = "Conversion Failed"

	// Shown when the extractor fails without a usable message.
	genericConversionMessage = "An unexpected error occurred while converting your statement. Please try again."

	// Fixed inline prompt message on a failed password attempt.
	incorrectPasswordMessage = "Incorrect password. Please try again."

	defaultUploadDelay = 400 * time.Millisecond
)

// Controller owns the view state for one intake session and is its only
// mutator. Extraction runs on a background goroutine; everything else is
// synchronous under the lock.
type Controller struct {
	prober    Prober
	decryptor Decryptor
	extractor Extractor
	logger    *slog.Logger

	uploadDelay time.Duration

	mu sync.Mutex
	st state

	// gen tags the current attempt. Reset bumps it, so a completion from an
	// extraction that outlived a reset is discarded instead of clobbering
	// the fresh state. Reset never aborts the in-flight call itself.
	gen uint64

	wg sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithUploadDelay overrides the cosmetic Idle->Uploading delay. Zero disables
// it; tests use that.
func WithUploadDelay(d time.Duration) Option {
	return func(c *Controller) { c.uploadDelay = d }
}

// NewController creates a controller in the Idle state.
func NewController(prober Prober, decryptor Decryptor, extractor Extractor, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		prober:      prober,
		decryptor:   decryptor,
		extractor:   extractor,
		logger:      logger,
		uploadDelay: defaultUploadDelay,
		st:          state{status: StatusIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.snapshot()
}

// Select accepts a newly chosen file. Encrypted files are held as pending and
// the password prompt is surfaced without leaving the current main status;
// everything else proceeds straight to processing. A probe failure is
// swallowed and treated as "attempt extraction anyway".
//
// The returned bool reports whether a password is now required.
func (c *Controller) Select(ctx context.Context, f File) (bool, error) {
	c.mu.Lock()
	if c.st.status == StatusUploading || c.st.status == StatusProcessing {
		c.mu.Unlock()
		return false, ErrBusy
	}
	// Selecting a file starts a fresh attempt: clear any previous result,
	// error or prompt state.
	c.st = state{status: StatusIdle}
	c.mu.Unlock()

	encrypted, err := c.prober.Probe(ctx, f)
	if err != nil {
		c.logger.Debug("encryption probe failed, attempting extraction anyway",
			slog.String("file", f.Name), slog.Any("error", err))
		encrypted = false
	}

	if encrypted {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.st.status != StatusIdle {
			// Lost a race with another operation on this session.
			return false, ErrBusy
		}
		pending := f
		c.st = state{status: StatusIdle, pending: &pending}
		return true, nil
	}

	return false, c.begin(ctx, f)
}

// SubmitPassword attempts to unlock the pending file. Success clears the
// prompt and re-enters processing with the unlocked file; failure keeps the
// pending file and records the fixed inline message.
func (c *Controller) SubmitPassword(ctx context.Context, password string) error {
	c.mu.Lock()
	if c.st.pending == nil {
		c.mu.Unlock()
		return ErrNoPendingFile
	}
	pending := *c.st.pending
	c.mu.Unlock()

	unlocked, err := c.decryptor.Decrypt(ctx, pending, password)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.st.pending != nil {
			c.st.promptErr = incorrectPasswordMessage
		}
		return ErrIncorrectPassword
	}

	c.mu.Lock()
	if c.st.pending == nil {
		// Cancelled or reset while decrypting; drop the result.
		c.mu.Unlock()
		return ErrNoPendingFile
	}
	c.st = state{status: c.st.status}
	c.mu.Unlock()

	return c.begin(ctx, unlocked)
}

// CancelPassword dismisses the prompt and forgets the pending file.
func (c *Controller) CancelPassword() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.pending = nil
	c.st.promptErr = ""
}

// Reset returns to Idle unconditionally, clearing data, error and any pending
// password state. An in-flight extraction is not aborted; its completion is
// discarded via the generation counter.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.st = state{status: StatusIdle}
}

// Wait blocks until all in-flight extractions have finished. Used by tests
// and by graceful shutdown to drain background work.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// begin moves to Uploading and starts the extraction attempt in the
// background. The caller must not hold the lock.
func (c *Controller) begin(ctx context.Context, f File) error {
	c.mu.Lock()
	if c.st.status == StatusUploading || c.st.status == StatusProcessing {
		c.mu.Unlock()
		return ErrBusy
	}
	gen := c.gen
	c.st = state{status: StatusUploading}
	c.mu.Unlock()

	// The extraction must survive the originating HTTP request: once
	// processing begins there is no cancellation.
	bgCtx := context.WithoutCancel(ctx)

	c.wg.Add(1)
	go c.process(bgCtx, gen, f)
	return nil
}

// process runs one extraction attempt end to end.
func (c *Controller) process(ctx context.Context, gen uint64, f File) {
	defer c.wg.Done()

	if c.uploadDelay > 0 {
		time.Sleep(c.uploadDelay)
	}
	if !c.advance(gen, state{status: StatusProcessing}) {
		return
	}

	rows, err := c.extractor.Extract(ctx, f)
	if err != nil {
		c.logger.Error("extraction failed",
			slog.String("file", f.Name), slog.Any("error", err))
		c.advance(gen, state{
			status:  StatusError,
			procErr: &ProcessingError{Title: conversionErrorTitle, Message: userMessage(err)},
		})
		return
	}

	c.logger.Info("extraction succeeded",
		slog.String("file", f.Name), slog.Int("rows", len(rows)))
	c.advance(gen, state{
		status: StatusSuccess,
		data:   &transactions.ExtractedData{FileName: f.Name, Transactions: rows},
	})
}

// advance installs next if the attempt identified by gen is still current.
func (c *Controller) advance(gen uint64, next state) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.st = next
	return true
}

func userMessage(err error) string {
	var um UserMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return genericConversionMessage
}
