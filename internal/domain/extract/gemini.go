// Package extract converts statement files into structured transaction rows
// using the Gemini API. The client keeps a strict JSON output contract with
// the model and decodes the result into the shared transaction model.
package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/statementkit/statement-intake/internal/domain/intake"
	"github.com/statementkit/statement-intake/internal/domain/transactions"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultTimeout = 2 * time.Minute

	// Statements with a usable text layer are sent as text: smaller payloads
	// and noticeably better extraction than raw document bytes. Anything
	// shorter than this is treated as a scan without a text layer.
	minTextLayerChars = 64
)

// Config holds the Gemini client configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string        // defaults to the Google endpoint; tests override it
	Timeout time.Duration // per-request budget, defaults to 2m
}

// TextExtractor supplies the statement's text layer when one exists.
type TextExtractor interface {
	ExtractText(ctx context.Context, f intake.File) (string, error)
}

// Client calls the Gemini generateContent API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	text       TextExtractor
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewClient creates a Gemini extraction client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
		tracer:     otel.Tracer("statement-intake/extract"),
	}
}

// WithTextExtractor enables the text-layer fast path.
func (c *Client) WithTextExtractor(text TextExtractor) *Client {
	c.text = text
	return c
}

// Extract implements intake.Extractor.
func (c *Client) Extract(ctx context.Context, f intake.File) ([]transactions.Transaction, error) {
	ctx, span := c.tracer.Start(ctx, "gemini.Extract",
		trace.WithAttributes(attribute.String("file.name", f.Name)))
	defer span.End()

	req := c.buildRequest(ctx, f)

	raw, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows(raw)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows, nil
}

// Wire types for the generateContent API.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *Client) buildRequest(ctx context.Context, f intake.File) generateRequest {
	parts := []part{{Text: extractionPrompt}}

	var textLayer string
	if c.text != nil {
		text, err := c.text.ExtractText(ctx, f)
		if err != nil {
			c.logger.Debug("text layer extraction failed, sending document bytes",
				slog.String("file", f.Name), slog.Any("error", err))
		} else {
			textLayer = text
		}
	}

	if len(textLayer) >= minTextLayerChars {
		parts = append(parts, part{Text: "STATEMENT TEXT:\n" + textLayer})
	} else {
		parts = append(parts, part{InlineData: &inlineData{
			MIMEType: "application/pdf",
			Data:     base64.StdEncoding.EncodeToString(f.Data),
		}})
	}

	return generateRequest{
		Contents:         []content{{Parts: parts}},
		GenerationConfig: generationConfig{Temperature: 0, ResponseMIMEType: "application/json"},
	}
}

// send performs the API call and returns the model's raw JSON text.
func (c *Client) send(ctx context.Context, payload generateRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("extract: marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("extract: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{
			Message: "Could not reach the AI service. Please try again.",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		var apiErr apiErrorResponse
		_ = json.Unmarshal(raw, &apiErr)
		c.logger.Error("gemini API error",
			slog.Int("status", resp.StatusCode),
			slog.String("api_status", apiErr.Error.Status),
			slog.String("api_message", apiErr.Error.Message))
		return "", &Error{
			Message: "The AI service could not process this statement.",
			Err:     fmt.Errorf("extract: API status %d: %s", resp.StatusCode, apiErr.Error.Message),
		}
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", &Error{
			Message: "The AI service returned an unreadable response.",
			Err:     fmt.Errorf("extract: decode response: %w", err),
		}
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", &Error{
			Message: "The AI service returned no result for this statement.",
			Err:     fmt.Errorf("extract: empty candidate set"),
		}
	}

	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// wireRow is the row shape the prompt demands from the model. Amounts stay
// raw so a model that quotes numbers, or emits "n/a", degrades to a null
// amount instead of failing the whole statement.
type wireRow struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
	Debit       json.RawMessage `json:"debit"`
	Credit      json.RawMessage `json:"credit"`
	Balance     json.RawMessage `json:"balance"`
}

// decodeRows parses the model output into transactions. Unparseable amounts
// become nulls rather than failing the whole statement.
func decodeRows(raw string) ([]transactions.Transaction, error) {
	cleaned := stripCodeFences(raw)

	var wire []wireRow
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, &Error{
			Message: "The AI service returned an unreadable response.",
			Err:     fmt.Errorf("extract: decode rows: %w", err),
		}
	}

	rows := make([]transactions.Transaction, 0, len(wire))
	for _, w := range wire {
		rows = append(rows, transactions.Transaction{
			Date:        strings.TrimSpace(w.Date),
			Description: strings.TrimSpace(w.Description),
			Reference:   strings.TrimSpace(w.Reference),
			Debit:       toNullDecimal(w.Debit),
			Credit:      toNullDecimal(w.Credit),
			Balance:     toNullDecimal(w.Balance),
		})
	}
	return rows, nil
}

func toNullDecimal(raw json.RawMessage) decimal.NullDecimal {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.NullDecimal{}
	}
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// stripCodeFences removes a surrounding markdown code fence, which some
// models emit despite the JSON response mime type.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
