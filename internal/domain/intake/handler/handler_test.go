package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statementkit/statement-intake/internal/domain/intake"
	"github.com/statementkit/statement-intake/internal/domain/transactions"
	"github.com/statementkit/statement-intake/pkg/storage"
)

type fakeProber struct{ encrypted bool }

func (p *fakeProber) Probe(ctx context.Context, f intake.File) (bool, error) {
	return p.encrypted, nil
}

type fakeDecryptor struct{ password string }

func (d *fakeDecryptor) Decrypt(ctx context.Context, f intake.File, password string) (intake.File, error) {
	if password != d.password {
		return intake.File{}, errors.New("bad password")
	}
	return intake.File{Name: f.Name, Data: append([]byte("unlocked:"), f.Data...)}, nil
}

type fakeExtractor struct {
	rows []transactions.Transaction
	err  error
}

func (e *fakeExtractor) Extract(ctx context.Context, f intake.File) ([]transactions.Transaction, error) {
	return e.rows, e.err
}

func sampleRows() []transactions.Transaction {
	return []transactions.Transaction{
		{Date: "2026-01-05", Description: "SALARY JAN", Credit: decimal.NewNullDecimal(decimal.RequireFromString("2500"))},
		{Date: "2026-01-06", Description: "GROCERY MART", Debit: decimal.NewNullDecimal(decimal.RequireFromString("52.30"))},
	}
}

type testEnv struct {
	server *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T, prober intake.Prober, decryptor intake.Decryptor, extractor intake.Extractor) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	manager := intake.NewManager(time.Minute, func(string) *intake.Controller {
		return intake.NewController(prober, decryptor, extractor, logger, intake.WithUploadDelay(0))
	})

	fileStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	cookieStore := sessions.NewCookieStore([]byte("test-secret"))
	h := NewIntakeHandler(manager, cookieStore, "intake_session", fileStorage, logger)

	r := mux.NewRouter()
	h.Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{server: srv, client: &http.Client{Jar: jar}}
}

func (e *testEnv) upload(t *testing.T, filename string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(uploadFieldName, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/v1/intake", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) getJSON(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *testEnv) postJSON(t *testing.T, path string, payload any, out any) int {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := e.client.Post(e.server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// waitForStatus polls the state endpoint until the wanted status appears.
func (e *testEnv) waitForStatus(t *testing.T, want string) stateResponse {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var state stateResponse
		require.Equal(t, http.StatusOK, e.getJSON(t, "/v1/intake/state", &state))
		if state.Status == want {
			return state
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("state never reached %q", want)
	return stateResponse{}
}

func TestUploadPlainStatementFlow(t *testing.T) {
	env := newTestEnv(t, &fakeProber{}, &fakeDecryptor{}, &fakeExtractor{rows: sampleRows()})

	resp := env.upload(t, "jan.pdf", []byte("%PDF-1.4"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var up uploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&up))
	assert.False(t, up.PasswordRequired)

	state := env.waitForStatus(t, "success")
	require.NotNil(t, state.Data)
	assert.Equal(t, "jan.pdf", state.Data.FileName)
	assert.Len(t, state.Data.Transactions, 2)

	var txs transactionsResponse
	require.Equal(t, http.StatusOK, env.getJSON(t, "/v1/intake/transactions", &txs))
	assert.Equal(t, 2, txs.Summary.Rows)
	assert.Equal(t, "52.3", txs.Summary.TotalDebits)
	assert.Equal(t, "2500", txs.Summary.TotalCredits)
	assert.Equal(t, "$2,500.00", txs.Summary.TotalCreditsDisplay)
}

func TestUploadEncryptedStatementPasswordFlow(t *testing.T) {
	env := newTestEnv(t, &fakeProber{encrypted: true}, &fakeDecryptor{password: "hunter2"}, &fakeExtractor{rows: sampleRows()})

	resp := env.upload(t, "locked.pdf", []byte("%PDF-1.4 encrypted"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var up uploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&up))
	assert.True(t, up.PasswordRequired)
	require.NotNil(t, up.State.PasswordPrompt)
	assert.Equal(t, "locked.pdf", up.State.PasswordPrompt.FileName)

	// Wrong password keeps the prompt with the inline message.
	var state stateResponse
	require.Equal(t, http.StatusOK, env.postJSON(t, "/v1/intake/password", map[string]string{"password": "wrong"}, &state))
	require.NotNil(t, state.PasswordPrompt)
	assert.Equal(t, "Incorrect password. Please try again.", state.PasswordPrompt.Error)

	// Correct password starts processing. Decode into a fresh struct so the
	// omitted password_prompt field is not masked by the previous response.
	state = stateResponse{}
	code := env.postJSON(t, "/v1/intake/password", map[string]string{"password": "hunter2"}, &state)
	require.Equal(t, http.StatusAccepted, code)
	assert.Nil(t, state.PasswordPrompt)

	final := env.waitForStatus(t, "success")
	require.NotNil(t, final.Data)
}

func TestCancelPasswordPrompt(t *testing.T) {
	env := newTestEnv(t, &fakeProber{encrypted: true}, &fakeDecryptor{password: "x"}, &fakeExtractor{})

	resp := env.upload(t, "locked.pdf", []byte("%PDF-1.4"))
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, env.server.URL+"/v1/intake/password", nil)
	require.NoError(t, err)
	dresp, err := env.client.Do(req)
	require.NoError(t, err)
	defer dresp.Body.Close()
	require.Equal(t, http.StatusOK, dresp.StatusCode)

	var state stateResponse
	require.NoError(t, json.NewDecoder(dresp.Body).Decode(&state))
	assert.Nil(t, state.PasswordPrompt)
	assert.Equal(t, "idle", state.Status)

	// With the pending file gone, passwords are rejected.
	code := env.postJSON(t, "/v1/intake/password", map[string]string{"password": "x"}, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestExtractionErrorSurfacesMessage(t *testing.T) {
	env := newTestEnv(t, &fakeProber{}, &fakeDecryptor{}, &fakeExtractor{err: errors.New("model exploded")})

	resp := env.upload(t, "jan.pdf", []byte("%PDF-1.4"))
	resp.Body.Close()

	state := env.waitForStatus(t, "error")
	require.NotNil(t, state.Error)
	assert.Equal(t, "Conversion Failed", state.Error.Title)
	assert.Equal(t, "An unexpected error occurred while converting your statement. Please try again.", state.Error.Message)
}

func TestResetReturnsToIdle(t *testing.T) {
	env := newTestEnv(t, &fakeProber{}, &fakeDecryptor{}, &fakeExtractor{rows: sampleRows()})

	resp := env.upload(t, "jan.pdf", []byte("%PDF-1.4"))
	resp.Body.Close()
	env.waitForStatus(t, "success")

	var state stateResponse
	require.Equal(t, http.StatusOK, env.postJSON(t, "/v1/intake/reset", nil, &state))
	assert.Equal(t, "idle", state.Status)
	assert.Nil(t, state.Data)

	code := env.getJSON(t, "/v1/intake/transactions", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	env := newTestEnv(t, &fakeProber{}, &fakeDecryptor{}, &fakeExtractor{})

	resp := env.upload(t, "statement.csv", []byte("a,b,c"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestUploadRequiresFile(t *testing.T) {
	env := newTestEnv(t, &fakeProber{}, &fakeDecryptor{}, &fakeExtractor{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/v1/intake", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := env.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t, &fakeProber{}, &fakeDecryptor{}, &fakeExtractor{rows: sampleRows()})

	resp := env.upload(t, "jan.pdf", []byte("%PDF-1.4"))
	resp.Body.Close()
	env.waitForStatus(t, "success")

	eresp, err := env.client.Get(env.server.URL + "/v1/intake/export?format=csv")
	require.NoError(t, err)
	defer eresp.Body.Close()
	require.Equal(t, http.StatusOK, eresp.StatusCode)
	assert.Equal(t, "text/csv", eresp.Header.Get("Content-Type"))
	assert.Contains(t, eresp.Header.Get("Content-Disposition"), "jan.csv")

	raw, err := io.ReadAll(eresp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "Date,Description,"))
	assert.Contains(t, string(raw), "SALARY JAN")
}

func TestExportBeforeSuccess(t *testing.T) {
	env := newTestEnv(t, &fakeProber{}, &fakeDecryptor{}, &fakeExtractor{})

	resp, err := env.client.Get(env.server.URL + "/v1/intake/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestExportUnknownFormat(t *testing.T) {
	env := newTestEnv(t, &fakeProber{}, &fakeDecryptor{}, &fakeExtractor{rows: sampleRows()})

	resp := env.upload(t, "jan.pdf", []byte("%PDF-1.4"))
	resp.Body.Close()
	env.waitForStatus(t, "success")

	eresp, err := env.client.Get(env.server.URL + "/v1/intake/export?format=pdf")
	require.NoError(t, err)
	defer eresp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, eresp.StatusCode)
}

func TestSessionsAreIndependent(t *testing.T) {
	env := newTestEnv(t, &fakeProber{}, &fakeDecryptor{}, &fakeExtractor{rows: sampleRows()})

	resp := env.upload(t, "jan.pdf", []byte("%PDF-1.4"))
	resp.Body.Close()
	env.waitForStatus(t, "success")

	// A client without the cookie gets a fresh idle session.
	other := &http.Client{}
	oresp, err := other.Get(env.server.URL + "/v1/intake/state")
	require.NoError(t, err)
	defer oresp.Body.Close()

	var state stateResponse
	require.NoError(t, json.NewDecoder(oresp.Body).Decode(&state))
	assert.Equal(t, "idle", state.Status)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := mux.NewRouter()
	r.Use(RateLimitMiddleware(1, 2))
	r.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		resp, err := http.Get(srv.URL + "/ping")
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Contains(t, codes[2:], http.StatusTooManyRequests)
}
