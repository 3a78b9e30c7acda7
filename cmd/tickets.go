// ABOUTME: Ticket purchase and payment commands
// ABOUTME: Payment confirmation happens server-side; the callback command only reports it

package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chikadol/rev-frontend-sub000/internal/client"
	"github.com/chikadol/rev-frontend-sub000/internal/redirect"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/icons"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/widgets"
)

var (
	ticketQuantity int
	paymentMethod  string
	paymentAmount  int64
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Buy and view tickets",
}

var ticketsBuyCmd = &cobra.Command{
	Use:   "buy <performance-id>",
	Short: "Reserve tickets for a performance",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runTicketBuy(ctx, w, args[0], ticketQuantity)
	}),
}

var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tickets",
	Args:  cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runTicketsList(ctx, w, currentPageQuery())
	}),
}

var ticketsShowCmd = &cobra.Command{
	Use:   "show <ticket-id>",
	Short: "Show a ticket's status",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runTicketShow(ctx, w, args[0])
	}),
}

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Pay for tickets",
}

var paymentsCreateCmd = &cobra.Command{
	Use:   "create <ticket-id>",
	Short: "Start a payment and print the provider URL",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runPaymentCreate(ctx, w, args[0], paymentMethod, paymentAmount)
	}),
}

var paymentsShowCmd = &cobra.Command{
	Use:   "show <payment-id>",
	Short: "Show a payment",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runPaymentShow(ctx, w, args[0])
	}),
}

var paymentsCallbackCmd = &cobra.Command{
	Use:   "callback <url>",
	Short: "Report the result of a payment provider redirect",
	Args:  cobra.ExactArgs(1),
	Run: runCommand(func(ctx context.Context, w io.Writer, args []string) int {
		return runPaymentCallback(ctx, w, args[0])
	}),
}

func init() {
	ticketsBuyCmd.Flags().IntVar(&ticketQuantity, "quantity", 1, "Number of seats")
	addPageFlags(ticketsListCmd)
	paymentsCreateCmd.Flags().StringVar(&paymentMethod, "method", redirect.KakaoPay, "KAKAOPAY, TOSS or NAVERPAY")
	paymentsCreateCmd.Flags().Int64Var(&paymentAmount, "amount", 0, "Amount in won (default: the ticket's total price)")

	ticketsCmd.AddCommand(ticketsBuyCmd, ticketsListCmd, ticketsShowCmd)
	paymentsCmd.AddCommand(paymentsCreateCmd, paymentsShowCmd, paymentsCallbackCmd)
	rootCmd.AddCommand(ticketsCmd, paymentsCmd)
}

// runTicketBuy reserves seats
func runTicketBuy(ctx context.Context, w io.Writer, performanceID string, quantity int) int {
	if quantity < 1 {
		fmt.Fprintln(w, "Error: --quantity must be at least 1")
		return exitError
	}
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		ticket, err := env.api.PurchaseTicket(ctx, client.TicketPurchaseRequest{PerformanceID: performanceID, Quantity: quantity})
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, ticket, func() string {
			return fmt.Sprintf("Ticket %s: %d seat(s), %s [%s]\nPay with: rev payments create %s",
				ticket.ID, ticket.Quantity, won(ticket.TotalPrice), ticket.Status, ticket.ID)
		})
		return exitOK
	})
}

// runTicketsList lists the viewer's tickets
func runTicketsList(ctx context.Context, w io.Writer, q client.PageQuery) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		page, err := env.api.ListMyTickets(ctx, q)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, page, func() string {
			if len(page.Content) == 0 {
				return "No tickets."
			}
			rows := make([][]string, 0, len(page.Content))
			for _, t := range page.Content {
				rows = append(rows, []string{
					t.ID, orDash(t.PerformanceTitle), fmt.Sprint(t.Quantity), won(t.TotalPrice), t.Status, relTime(t.PurchasedAt),
				})
			}
			return renderTable([]string{"ID", "Performance", "Seats", "Total", "Status", "Purchased"}, rows) + "\n" + pageFooter(page)
		})
		return exitOK
	})
}

// runTicketShow prints one ticket
func runTicketShow(ctx context.Context, w io.Writer, id string) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		ticket, err := env.api.GetTicket(ctx, id)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, ticket, func() string { return formatTicket(ticket) })
		return exitOK
	})
}

func formatTicket(t *client.Ticket) string {
	return fmt.Sprintf(`%s Ticket:     %s
Performance:  %s
Seats:        %d
Total:        %s
Status:       %s
Purchased:    %s`, icons.Ticket, t.ID, orDash(t.PerformanceTitle), t.Quantity, won(t.TotalPrice),
		widgets.TicketStatusBadge(t.Status), absTime(t.PurchasedAt))
}

// runPaymentCreate starts a payment for a ticket
func runPaymentCreate(ctx context.Context, w io.Writer, ticketID, method string, amount int64) int {
	method = strings.ToUpper(method)
	switch method {
	case redirect.KakaoPay, redirect.Toss, redirect.NaverPay:
	default:
		fmt.Fprintf(w, "Error: unsupported payment method %q (use KAKAOPAY, TOSS or NAVERPAY)\n", method)
		return exitError
	}
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		if amount <= 0 {
			ticket, err := env.api.GetTicket(ctx, ticketID)
			if err != nil {
				return env.fail(w, err)
			}
			amount = ticket.TotalPrice
		}

		payment, err := env.api.CreatePayment(ctx, client.PaymentRequest{TicketID: ticketID, Method: method, Amount: amount})
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, payment, func() string {
			text := fmt.Sprintf("Payment %s: %s via %s [%s]", payment.ID, won(payment.Amount), payment.Method, payment.Status)
			if payment.RedirectURL != "" {
				text += "\nComplete the payment at:\n  " + payment.RedirectURL +
					"\nThen run: rev payments callback '<final URL>'"
			}
			return text
		})
		return exitOK
	})
}

// runPaymentShow prints one payment
func runPaymentShow(ctx context.Context, w io.Writer, id string) int {
	return withEnv(w, func(env *appEnv) int {
		if !env.requireLogin(w) {
			return exitLoginRequired
		}
		payment, err := env.api.GetPayment(ctx, id)
		if err != nil {
			return env.fail(w, err)
		}
		printOutput(w, payment, func() string {
			return fmt.Sprintf(`Payment:  %s
Ticket:   %s
Method:   %s
Amount:   %s
Status:   %s
Created:  %s`, payment.ID, payment.TicketID, payment.Method, won(payment.Amount),
				widgets.TicketStatusBadge(payment.Status), absTime(payment.CreatedAt))
		})
		return exitOK
	})
}

// paymentCallbackOutput is the JSON shape of payments callback
type paymentCallbackOutput struct {
	*redirect.PaymentResult
	Ticket *client.Ticket `json:"ticket,omitempty"`
}

// runPaymentCallback reports a provider redirect and the ticket's current
// status. Exit code 1 when the provider reported failure.
func runPaymentCallback(ctx context.Context, w io.Writer, rawURL string) int {
	res, err := redirect.ParsePaymentCallback(rawURL)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	return withEnv(w, func(env *appEnv) int {
		out := paymentCallbackOutput{PaymentResult: res}
		if res.TicketID != "" && env.tokens.Present() {
			ticket, err := env.api.GetTicket(ctx, res.TicketID)
			if err == nil {
				out.Ticket = ticket
			} else if code := env.fail(w, err); code == exitLoginRequired {
				return code
			}
		}

		printOutput(w, out, func() string {
			level := widgets.StatusOK
			if !res.Success {
				level = widgets.StatusCritical
			}
			var b strings.Builder
			b.WriteString(widgets.StatusText(res.Message, level))
			if res.Method != "" {
				fmt.Fprintf(&b, "\nMethod: %s", res.Method)
			}
			keys := make([]string, 0, len(res.TransactionIDs))
			for k := range res.TransactionIDs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, "\n%s: %s", k, res.TransactionIDs[k])
			}
			if out.Ticket != nil {
				b.WriteString("\n\n" + formatTicket(out.Ticket))
			}
			return b.String()
		})

		if !res.Success {
			return exitFailed
		}
		return exitOK
	})
}
