package pdf

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statementkit/statement-intake/internal/domain/intake"
)

func newTestService() *Service {
	return NewService(slog.New(slog.DiscardHandler))
}

// minimalPDF builds a syntactically plausible single-object document with an
// optional /Encrypt entry in the trailer.
func minimalPDF(encrypted bool) []byte {
	trailer := "trailer\n<< /Size 4 /Root 1 0 R"
	if encrypted {
		trailer += " /Encrypt 3 0 R"
	}
	trailer += " >>\nstartxref\n9\n%%EOF\n"

	return []byte("%PDF-1.7\n" +
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n" +
		"2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n" +
		"xref\n0 3\n" +
		trailer)
}

func TestProbeUnencrypted(t *testing.T) {
	s := newTestService()

	encrypted, err := s.Probe(context.Background(), intake.File{
		Name: "plain.pdf",
		Data: minimalPDF(false),
	})
	require.NoError(t, err)
	assert.False(t, encrypted)
}

func TestProbeEncrypted(t *testing.T) {
	s := newTestService()

	encrypted, err := s.Probe(context.Background(), intake.File{
		Name: "locked.pdf",
		Data: minimalPDF(true),
	})
	require.NoError(t, err)
	assert.True(t, encrypted)
}

func TestProbeIgnoresEncryptOutsideTrailer(t *testing.T) {
	s := newTestService()

	// "/Encrypt" appearing in body content must not trip the probe once a
	// trailer exists later in the file.
	body := []byte("%PDF-1.7\n1 0 obj\n(/Encrypt mentioned in a string)\nendobj\n")
	doc := append(body, minimalPDF(false)[len("%PDF-1.7\n"):]...)

	encrypted, err := s.Probe(context.Background(), intake.File{Name: "tricky.pdf", Data: doc})
	require.NoError(t, err)
	assert.False(t, encrypted)
}

func TestProbeRejectsNonPDF(t *testing.T) {
	s := newTestService()

	_, err := s.Probe(context.Background(), intake.File{
		Name: "statement.csv",
		Data: []byte("Date,Description,Amount\n"),
	})
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestDecryptRejectsNonPDF(t *testing.T) {
	s := newTestService()

	_, err := s.Decrypt(context.Background(), intake.File{
		Name: "junk.bin",
		Data: []byte{0x00, 0x01, 0x02},
	}, "secret")
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestDecryptGarbageFails(t *testing.T) {
	s := newTestService()

	// Valid header, garbage body: pdfcpu cannot parse it, which surfaces as
	// a decryption failure to the caller.
	_, err := s.Decrypt(context.Background(), intake.File{
		Name: "broken.pdf",
		Data: []byte("%PDF-1.7\ngarbage"),
	}, "secret")
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestExtractTextGarbageReturnsError(t *testing.T) {
	s := newTestService()

	_, err := s.ExtractText(context.Background(), intake.File{
		Name: "broken.pdf",
		Data: []byte("%PDF-1.7\ngarbage"),
	})
	assert.Error(t, err)
}
