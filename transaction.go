package fedapay

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/fedapay/fedapay-go/internal/apierrors"
)

var transactionResource = Resource{
	ObjectName: "transaction",
	Path:       "/transactions",
	Operations: OpAll,
}

// Mobile money payment modes accepted by TransactionService.SendNow.
const (
	ModeMTN   = "mtn"
	ModeMoov  = "moov"
	ModeMTNCI = "mtn_ci"
)

var mobileMoneyModes = []string{ModeMTN, ModeMoov, ModeMTNCI}

// Transaction is a payment collected from a customer.
type Transaction struct {
	ID                ID             `json:"id"`
	Reference         string         `json:"reference"`
	Amount            int64          `json:"amount"`
	Description       string         `json:"description"`
	CallbackURL       string         `json:"callback_url"`
	Status            string         `json:"status"`
	Mode              string         `json:"mode"`
	CustomerID        ID             `json:"customer_id"`
	CurrencyID        ID             `json:"currency_id"`
	Commission        float64        `json:"commission"`
	Fees              int64          `json:"fees"`
	AmountTransferred int64          `json:"amount_transferred"`
	ReceiptURL        string         `json:"receipt_url"`
	Metadata          map[string]any `json:"metadata"`
	ApprovedAt        *time.Time     `json:"approved_at"`
	CanceledAt        *time.Time     `json:"canceled_at"`
	DeclinedAt        *time.Time     `json:"declined_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// TransactionToken is a payment token and the URL of its checkout page.
type TransactionToken struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// TransactionService manages transactions.
type TransactionService struct {
	*Service[Transaction]
}

// GenerateToken creates a payment token for the transaction.
func (s *TransactionService) GenerateToken(ctx context.Context, id ID, opts ...RequestOption) (*TransactionToken, error) {
	path, err := s.resource.InstancePath(id)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(ctx, http.MethodPost, path+"/token", nil, opts...)
	if err != nil {
		return nil, err
	}
	token := &TransactionToken{}
	if err := decodeField(resp, "", token); err != nil {
		return nil, err
	}
	return token, nil
}

// SendNowWithToken requests payment of the transaction behind token through
// the given mobile money mode. Extra params are sent alongside the token.
func (s *TransactionService) SendNowWithToken(ctx context.Context, mode, token string, params *Params, opts ...RequestOption) (*Response, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	body := NewParams().Set("token", token).Merge(params)
	return s.client.Do(ctx, http.MethodPost, "/"+mode, body, opts...)
}

// SendNow generates a token for the transaction and requests payment
// through the given mobile money mode.
func (s *TransactionService) SendNow(ctx context.Context, id ID, mode string, params *Params, opts ...RequestOption) (*Response, error) {
	if err := checkMode(mode); err != nil {
		return nil, err
	}
	token, err := s.GenerateToken(ctx, id, opts...)
	if err != nil {
		return nil, err
	}
	return s.SendNowWithToken(ctx, mode, token.Token, params, opts...)
}

func checkMode(mode string) error {
	if slices.Contains(mobileMoneyModes, mode) {
		return nil
	}
	return apierrors.NewInvalidRequestError(
		fmt.Sprintf("Invalid payment method '%s' supplied. "+
			"You have to use one of the following payment methods [%s]",
			mode, strings.Join(mobileMoneyModes, ", ")),
		"mode")
}
