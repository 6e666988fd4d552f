// Package pdf implements the PDF collaborators consumed by the intake
// controller: encryption probing, password decryption and best-effort
// text-layer extraction.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/statementkit/statement-intake/internal/domain/intake"
)

var (
	// ErrNotPDF indicates the uploaded bytes are not a PDF document.
	ErrNotPDF = errors.New("pdf: file is not a PDF document")

	// ErrDecryptFailed indicates the document could not be unlocked with the
	// supplied password.
	ErrDecryptFailed = errors.New("pdf: decryption failed")
)

var pdfHeader = []byte("%PDF-")

// Service implements intake.Prober, intake.Decryptor and the text extraction
// used by the AI extractor to build compact prompts.
type Service struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewService creates a PDF service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
		tracer: otel.Tracer("statement-intake/pdf"),
	}
}

// Probe reports whether the document is password-protected, without
// decrypting it. It looks for the /Encrypt entry in the file trailer, which
// is present for both standard-security and AES-encrypted documents.
func (s *Service) Probe(ctx context.Context, f intake.File) (bool, error) {
	if !bytes.HasPrefix(f.Data, pdfHeader) {
		return false, ErrNotPDF
	}

	// The trailer dictionary lives at the end of the file. Incrementally
	// updated documents repeat it, so only the last occurrence is relevant.
	// Cross-reference-stream documents carry the same /Encrypt key in the
	// stream dictionary near EOF, so a tail scan covers both layouts.
	tail := f.Data
	if idx := bytes.LastIndex(f.Data, []byte("trailer")); idx >= 0 {
		tail = f.Data[idx:]
	} else if len(f.Data) > trailerScanWindow {
		tail = f.Data[len(f.Data)-trailerScanWindow:]
	}

	return bytes.Contains(tail, []byte("/Encrypt")), nil
}

// trailerScanWindow bounds the tail scan for documents without a classic
// trailer keyword (xref streams). 4KB comfortably covers the trailer region.
const trailerScanWindow = 4096

// Decrypt produces an unlocked copy of the document. Any pdfcpu failure is
// reported as ErrDecryptFailed: the controller treats every decryption
// failure as a wrong password.
func (s *Service) Decrypt(ctx context.Context, f intake.File, password string) (intake.File, error) {
	_, span := s.tracer.Start(ctx, "pdf.Decrypt")
	defer span.End()

	if !bytes.HasPrefix(f.Data, pdfHeader) {
		return intake.File{}, ErrNotPDF
	}

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(f.Data), &out, conf); err != nil {
		s.logger.Debug("pdf decryption failed",
			slog.String("file", f.Name), slog.Any("error", err))
		return intake.File{}, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	return intake.File{Name: f.Name, Data: out.Bytes()}, nil
}

// ExtractText pulls the text layer out of the document. Scanned statements
// without a text layer return an empty string and no error; the caller falls
// back to sending the raw document to the model.
func (s *Service) ExtractText(ctx context.Context, f intake.File) (text string, err error) {
	_, span := s.tracer.Start(ctx, "pdf.ExtractText")
	defer span.End()

	// The reader panics on some malformed documents; treat that as an
	// extraction failure rather than taking the process down.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: text extraction panicked: %v", r)
		}
	}()

	reader, err := ledongthuc.NewReader(bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		return "", fmt.Errorf("pdf: open document: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf: read text layer: %w", err)
	}

	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf: read text layer: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}
