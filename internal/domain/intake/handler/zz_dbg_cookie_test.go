package handler_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/statementkit/statement-intake/internal/domain/intake"
	handler "github.com/statementkit/statement-intake/internal/domain/intake/handler"
	"github.com/statementkit/statement-intake/internal/domain/transactions"
	"github.com/statementkit/statement-intake/pkg/storage"
)

type fp struct{}
func (fp) Probe(ctx context.Context, f intake.File) (bool, error) { return false, nil }
type fd struct{}
func (fd) Decrypt(ctx context.Context, f intake.File, p string) (intake.File, error) { return f, nil }
type fe struct{}
func (fe) Extract(ctx context.Context, f intake.File) ([]transactions.Transaction, error) { return nil, nil }

func TestCookie(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	manager := intake.NewManager(time.Minute, func(string) *intake.Controller {
		return intake.NewController(fp{}, fd{}, fe{}, logger, intake.WithUploadDelay(0))
	})
	fs, _ := storage.NewLocalStorage(t.TempDir())
	cs := sessions.NewCookieStore([]byte("test-secret"))
	h := handler.NewIntakeHandler(manager, cs, "intake_session", fs, logger)
	r := mux.NewRouter()
	h.Register(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	resp, err := client.Get(srv.URL + "/v1/intake/state")
	if err != nil { t.Fatal(err) }
	fmt.Println("status:", resp.StatusCode)
	fmt.Println("set-cookie:", resp.Header["Set-Cookie"])
	resp.Body.Close()
	fmt.Println("sessions after 1st:", manager.Len())

	resp2, _ := client.Get(srv.URL + "/v1/intake/state")
	resp2.Body.Close()
	fmt.Println("sessions after 2nd:", manager.Len())
}
