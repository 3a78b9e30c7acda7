// ABOUTME: Payment provider callback parsing
// ABOUTME: Collects provider-specific transaction ids and the result message for the ticket view

package redirect

import (
	"strconv"
	"strings"
)

// Payment methods supported by the backend
const (
	KakaoPay = "KAKAOPAY"
	Toss     = "TOSS"
	NaverPay = "NAVERPAY"
)

// transactionParams lists the ids each provider appends to its callback
var transactionParams = map[string][]string{
	KakaoPay: {"pg_token", "tid"},
	Toss:     {"paymentKey", "orderId", "amount"},
	NaverPay: {"paymentId"},
}

// standardParams are read into PaymentResult fields, not TransactionIDs
var standardParams = map[string]bool{
	"success":  true,
	"method":   true,
	"message":  true,
	"ticketId": true,
}

// PaymentResult is the outcome shown on the ticket status view
type PaymentResult struct {
	Success        bool              `json:"success"`
	Method         string            `json:"method,omitempty"`
	TicketID       string            `json:"ticketId,omitempty"`
	TransactionIDs map[string]string `json:"transactionIds"`
	Message        string            `json:"message"`
}

const (
	paymentSucceeded = "결제가 완료되었습니다."
	paymentFailed    = "결제에 실패했습니다."
)

// ParsePaymentCallback reads a payment provider's return URL. Confirmation
// itself happens server-side; this only reports what the provider said.
func ParsePaymentCallback(rawURL string) (*PaymentResult, error) {
	q, err := queryOf(rawURL)
	if err != nil {
		return nil, err
	}

	success, _ := strconv.ParseBool(q.Get("success"))
	res := &PaymentResult{
		Success:        success,
		Method:         strings.ToUpper(q.Get("method")),
		TicketID:       q.Get("ticketId"),
		TransactionIDs: map[string]string{},
	}

	if params, ok := transactionParams[res.Method]; ok {
		for _, name := range params {
			if v := q.Get(name); v != "" {
				res.TransactionIDs[name] = v
			}
		}
	} else {
		for name := range q {
			if !standardParams[name] && q.Get(name) != "" {
				res.TransactionIDs[name] = q.Get(name)
			}
		}
	}

	res.Message = paymentMessage(res.Success, q.Get("message"))
	return res, nil
}

func paymentMessage(success bool, detail string) string {
	base := paymentFailed
	if success {
		base = paymentSucceeded
	}
	if detail == "" {
		return base
	}
	return base + " (" + detail + ")"
}
