// Package handler exposes the intake flow over HTTP. The API is
// cookie-session based: each browser gets its own controller and storage
// namespace, and the frontend polls GET /v1/intake/state while an
// extraction runs.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/statementkit/statement-intake/internal/domain/export"
	"github.com/statementkit/statement-intake/internal/domain/intake"
	"github.com/statementkit/statement-intake/internal/domain/intake/repository"
	"github.com/statementkit/statement-intake/internal/domain/transactions"
	"github.com/statementkit/statement-intake/pkg/metrics"
	"github.com/statementkit/statement-intake/pkg/money"
	"github.com/statementkit/statement-intake/pkg/storage"
)

const uploadFieldName = "file"

// IntakeHandler serves the intake API.
type IntakeHandler struct {
	sessions    *intake.Manager
	cookieStore *sessions.CookieStore
	cookieName  string
	fileStorage storage.Storage
	history     repository.Repository // nil when history is disabled
	logger      *slog.Logger

	maxUploadBytes int64
	currency       string
}

// NewIntakeHandler creates the handler.
func NewIntakeHandler(manager *intake.Manager, cookieStore *sessions.CookieStore, cookieName string, fileStorage storage.Storage, logger *slog.Logger) *IntakeHandler {
	return &IntakeHandler{
		sessions:       manager,
		cookieStore:    cookieStore,
		cookieName:     cookieName,
		fileStorage:    fileStorage,
		logger:         logger,
		maxUploadBytes: 25 << 20,
		currency:       money.USD,
	}
}

// WithHistory enables the extraction-history endpoints.
func (h *IntakeHandler) WithHistory(repo repository.Repository) *IntakeHandler {
	h.history = repo
	return h
}

// WithMaxUploadBytes overrides the upload size limit.
func (h *IntakeHandler) WithMaxUploadBytes(n int64) *IntakeHandler {
	if n > 0 {
		h.maxUploadBytes = n
	}
	return h
}

// WithCurrency sets the display currency for summaries.
func (h *IntakeHandler) WithCurrency(code string) *IntakeHandler {
	if code != "" {
		h.currency = code
	}
	return h
}

// Register mounts the intake routes.
func (h *IntakeHandler) Register(r *mux.Router) {
	r.HandleFunc("/v1/intake", h.Upload).Methods(http.MethodPost)
	r.HandleFunc("/v1/intake/state", h.State).Methods(http.MethodGet)
	r.HandleFunc("/v1/intake/password", h.SubmitPassword).Methods(http.MethodPost)
	r.HandleFunc("/v1/intake/password", h.CancelPassword).Methods(http.MethodDelete)
	r.HandleFunc("/v1/intake/reset", h.Reset).Methods(http.MethodPost)
	r.HandleFunc("/v1/intake/transactions", h.Transactions).Methods(http.MethodGet)
	r.HandleFunc("/v1/intake/export", h.Export).Methods(http.MethodGet)
	if h.history != nil {
		r.HandleFunc("/v1/intake/history", h.History).Methods(http.MethodGet)
	}
}

// Response shapes.

type stateResponse struct {
	Status         string          `json:"status"`
	Data           *dataResponse   `json:"data,omitempty"`
	Error          *errorResponse  `json:"error,omitempty"`
	PasswordPrompt *promptResponse `json:"password_prompt,omitempty"`
}

type dataResponse struct {
	FileName     string                     `json:"file_name"`
	Transactions []transactions.Transaction `json:"transactions"`
}

type errorResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type promptResponse struct {
	FileName string `json:"file_name"`
	Error    string `json:"error,omitempty"`
}

type uploadResponse struct {
	PasswordRequired bool          `json:"password_required"`
	State            stateResponse `json:"state"`
}

type summaryResponse struct {
	Rows                int    `json:"rows"`
	TotalDebits         string `json:"total_debits"`
	TotalCredits        string `json:"total_credits"`
	Net                 string `json:"net"`
	TotalDebitsDisplay  string `json:"total_debits_display"`
	TotalCreditsDisplay string `json:"total_credits_display"`
	NetDisplay          string `json:"net_display"`
}

type transactionsResponse struct {
	FileName     string                     `json:"file_name"`
	Transactions []transactions.Transaction `json:"transactions"`
	Summary      summaryResponse            `json:"summary"`
}

// Upload accepts a statement file and starts the intake flow.
func (h *IntakeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	if sess == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		writeError(w, http.StatusRequestEntityTooLarge, "The file is too large.")
		return
	}

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "A statement file is required.")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		writeError(w, http.StatusUnsupportedMediaType, "Only PDF statements are supported.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read the uploaded file.")
		return
	}

	// Keep a copy on disk so a session can be inspected after the fact.
	// Failure here never blocks the conversion.
	if _, err := h.fileStorage.Upload(r.Context(), sess.ID, header.Filename, header.Header.Get("Content-Type"), bytes.NewReader(data)); err != nil {
		h.logger.Warn("failed to persist upload",
			slog.String("session_id", sess.ID), slog.Any("error", err))
	}

	f := intake.File{Name: header.Filename, Data: data}
	passwordRequired, err := sess.Controller.Select(r.Context(), f)
	if err != nil {
		if errors.Is(err, intake.ErrBusy) {
			writeError(w, http.StatusConflict, "A statement is already being processed.")
			return
		}
		h.logger.Error("upload failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Could not accept the file.")
		return
	}

	if passwordRequired {
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomePasswordPrompt).Inc()
	}

	writeJSON(w, http.StatusAccepted, uploadResponse{
		PasswordRequired: passwordRequired,
		State:            toStateResponse(sess.Controller.Snapshot()),
	})
}

// State returns the session's current view state.
func (h *IntakeHandler) State(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(sess.Controller.Snapshot()))
}

// SubmitPassword attempts to unlock the pending statement.
func (h *IntakeHandler) SubmitPassword(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	if sess == nil {
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	err := sess.Controller.SubmitPassword(r.Context(), req.Password)
	switch {
	case errors.Is(err, intake.ErrNoPendingFile):
		writeError(w, http.StatusConflict, "No file is waiting for a password.")
		return
	case errors.Is(err, intake.ErrIncorrectPassword):
		metrics.PasswordAttemptsTotal.WithLabelValues("incorrect").Inc()
		// The prompt state carries the inline message; 200 keeps the
		// polling loop simple for the frontend.
		writeJSON(w, http.StatusOK, toStateResponse(sess.Controller.Snapshot()))
		return
	case err != nil:
		h.logger.Error("password submission failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Could not process the password.")
		return
	}

	metrics.PasswordAttemptsTotal.WithLabelValues("correct").Inc()
	writeJSON(w, http.StatusAccepted, toStateResponse(sess.Controller.Snapshot()))
}

// CancelPassword dismisses the password prompt.
func (h *IntakeHandler) CancelPassword(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	if sess == nil {
		return
	}
	sess.Controller.CancelPassword()
	writeJSON(w, http.StatusOK, toStateResponse(sess.Controller.Snapshot()))
}

// Reset returns the session to the idle state.
func (h *IntakeHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	if sess == nil {
		return
	}
	sess.Controller.Reset()
	writeJSON(w, http.StatusOK, toStateResponse(sess.Controller.Snapshot()))
}

// Transactions returns the extracted rows plus totals.
func (h *IntakeHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	if sess == nil {
		return
	}

	snap := sess.Controller.Snapshot()
	if snap.Status != intake.StatusSuccess || snap.Data == nil {
		writeError(w, http.StatusConflict, "No converted statement is available.")
		return
	}

	summary := transactions.Summarize(snap.Data.Transactions)
	writeJSON(w, http.StatusOK, transactionsResponse{
		FileName:     snap.Data.FileName,
		Transactions: snap.Data.Transactions,
		Summary: summaryResponse{
			Rows:                summary.Rows,
			TotalDebits:         summary.TotalDebits.String(),
			TotalCredits:        summary.TotalCredits.String(),
			Net:                 summary.Net.String(),
			TotalDebitsDisplay:  money.NewFromDecimal(summary.TotalDebits, h.currency).Display(),
			TotalCreditsDisplay: money.NewFromDecimal(summary.TotalCredits, h.currency).Display(),
			NetDisplay:          money.NewFromDecimal(summary.Net, h.currency).Display(),
		},
	})
}

// Export streams the converted statement as CSV or Excel.
func (h *IntakeHandler) Export(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	if sess == nil {
		return
	}

	snap := sess.Controller.Snapshot()
	if snap.Status != intake.StatusSuccess || snap.Data == nil {
		writeError(w, http.StatusConflict, "No converted statement is available.")
		return
	}

	base := strings.TrimSuffix(snap.Data.FileName, ".pdf")
	format := r.URL.Query().Get("format")
	switch format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".csv"))
		if err := export.WriteCSV(w, snap.Data); err != nil {
			h.logger.Error("csv export failed", slog.Any("error", err))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".xlsx"))
		if err := export.WriteExcel(w, snap.Data); err != nil {
			h.logger.Error("excel export failed", slog.Any("error", err))
		}
	default:
		writeError(w, http.StatusBadRequest, "Unknown export format.")
	}
}

// History lists the session's recent extraction jobs.
func (h *IntakeHandler) History(w http.ResponseWriter, r *http.Request) {
	sess := h.resolveSession(w, r)
	if sess == nil {
		return
	}

	jobs, err := h.history.ListRecentJobs(r.Context(), sess.ID, 20)
	if err != nil {
		h.logger.Error("history lookup failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Could not load history.")
		return
	}
	if jobs == nil {
		jobs = []repository.ExtractionJob{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// resolveSession resolves the request's intake session from the cookie,
// creating one when absent. A nil return means the response is written.
func (h *IntakeHandler) resolveSession(w http.ResponseWriter, r *http.Request) *intake.Session {
	cookie, _ := h.cookieStore.Get(r, h.cookieName)

	id, _ := cookie.Values["session_id"].(string)
	sess := h.sessions.GetOrCreate(id)

	if sess.ID != id {
		cookie.Values["session_id"] = sess.ID
		if err := h.cookieStore.Save(r, w, cookie); err != nil {
			h.logger.Error("failed to save session cookie", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "Could not establish a session.")
			return nil
		}
	}
	return sess
}

func toStateResponse(snap intake.Snapshot) stateResponse {
	resp := stateResponse{Status: snap.Status.String()}
	if snap.Data != nil {
		resp.Data = &dataResponse{
			FileName:     snap.Data.FileName,
			Transactions: snap.Data.Transactions,
		}
	}
	if snap.Err != nil {
		resp.Error = &errorResponse{Title: snap.Err.Title, Message: snap.Err.Message}
	}
	if snap.PromptVisible {
		resp.PasswordPrompt = &promptResponse{
			FileName: snap.PendingFileName,
			Error:    snap.PromptError,
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
