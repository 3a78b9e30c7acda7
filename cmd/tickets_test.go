// ABOUTME: Tests for the payment callback command
// ABOUTME: Verifies provider result reporting, ticket lookup and exit codes

package cmd

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
)

func ticketBackend(status int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			writeJSON(w, status, map[string]string{"message": "denied"})
			return
		}
		writeJSON(w, http.StatusOK, client.Ticket{
			ID:               r.PathValue("id"),
			PerformanceTitle: "Spring Live",
			Quantity:         2,
			TotalPrice:       88000,
			Status:           "PAID",
		})
	})
	return mux
}

func TestRunPaymentCallback_Success(t *testing.T) {
	dir := useBackend(t, ticketBackend(http.StatusOK))
	seedTokens(t, dir)

	var buf bytes.Buffer
	code := runPaymentCallback(context.Background(), &buf, "/payment/callback?success=true&method=kakaopay&pg_token=pg1&tid=T1&ticketId=7")
	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	for _, want := range []string{
		icons.CheckOK.String(), "결제가 완료되었습니다.", "Method: KAKAOPAY", "pg_token: pg1", "tid: T1", "Spring Live",
		icons.Ticket.String() + " Ticket:", "PAID",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunPaymentCallback_FailureWithoutSession(t *testing.T) {
	called := false
	useBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	var buf bytes.Buffer
	code := runPaymentCallback(context.Background(), &buf, "/payment/callback?success=false&method=TOSS&orderId=o1&ticketId=7")
	if code != exitFailed {
		t.Errorf("expected exit code %d, got %d", exitFailed, code)
	}
	if called {
		t.Error("ticket lookup needs a session")
	}
	if !strings.Contains(buf.String(), "결제에 실패했습니다.") || !strings.Contains(buf.String(), icons.Critical.String()) {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRunPaymentCallback_ExpiredSession(t *testing.T) {
	dir := useBackend(t, ticketBackend(http.StatusUnauthorized))
	seedTokens(t, dir)

	var buf bytes.Buffer
	code := runPaymentCallback(context.Background(), &buf, "/payment/callback?success=true&method=TOSS&ticketId=7")
	if code != exitLoginRequired {
		t.Errorf("expected exit code %d, got %d", exitLoginRequired, code)
	}
}

func TestFormatTicket_StatusBadge(t *testing.T) {
	out := formatTicket(&client.Ticket{ID: "7", PerformanceTitle: "Spring Live", Quantity: 1, TotalPrice: 44000, Status: "cancelled"})
	for _, want := range []string{icons.Ticket.String() + " Ticket:     7", "CANCELLED", icons.Critical.String()} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
