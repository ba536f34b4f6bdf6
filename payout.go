package fedapay

import (
	"context"
	"net/http"
	"time"

	"github.com/fedapay/fedapay-go/internal/apierrors"
)

var payoutResource = Resource{
	ObjectName: "payout",
	Path:       "/payouts",
	Operations: OpAll,
}

// Payout is a transfer of funds to a customer.
type Payout struct {
	ID          ID             `json:"id"`
	Reference   string         `json:"reference"`
	Amount      int64          `json:"amount"`
	Status      string         `json:"status"`
	Mode        string         `json:"mode"`
	CustomerID  ID             `json:"customer_id"`
	CurrencyID  ID             `json:"currency_id"`
	Metadata    map[string]any `json:"metadata"`
	ScheduledAt *time.Time     `json:"scheduled_at"`
	SentAt      *time.Time     `json:"sent_at"`
	FailedAt    *time.Time     `json:"failed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// PayoutSchedule selects a payout for ScheduleAll. A nil ScheduledAt lets
// the API pick the time.
type PayoutSchedule struct {
	ID          ID
	ScheduledAt *time.Time
}

// PayoutService manages payouts.
type PayoutService struct {
	*Service[Payout]
}

// Start starts the payouts described by params, which carries a "payouts"
// list of {id, scheduled_at, send_now} items.
func (s *PayoutService) Start(ctx context.Context, params *Params, opts ...RequestOption) (*Response, error) {
	return s.client.Do(ctx, http.MethodPut, s.resource.Path+"/start", params, opts...)
}

// SendNow sends one payout immediately.
func (s *PayoutService) SendNow(ctx context.Context, id ID, params *Params, opts ...RequestOption) (*Response, error) {
	if id == "" {
		return nil, missingPayoutID()
	}
	items := []*Params{NewParams().Set("id", id.String())}
	return s.Start(ctx, NewParams().Set("payouts", items).Merge(params), opts...)
}

// Schedule schedules one payout for the given time.
func (s *PayoutService) Schedule(ctx context.Context, id ID, at time.Time, params *Params, opts ...RequestOption) (*Response, error) {
	if id == "" {
		return nil, missingPayoutID()
	}
	items := []*Params{NewParams().Set("id", id.String()).Set("scheduled_at", at)}
	return s.Start(ctx, NewParams().Set("payouts", items).Merge(params), opts...)
}

// SendAllNow sends several payouts immediately.
func (s *PayoutService) SendAllNow(ctx context.Context, ids []ID, params *Params, opts ...RequestOption) (*Response, error) {
	items := make([]*Params, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, missingPayoutID()
		}
		items = append(items, NewParams().Set("id", id.String()).Set("send_now", true))
	}
	return s.Start(ctx, NewParams().Set("payouts", items).Merge(params), opts...)
}

// ScheduleAll schedules several payouts.
func (s *PayoutService) ScheduleAll(ctx context.Context, payouts []PayoutSchedule, params *Params, opts ...RequestOption) (*Response, error) {
	items := make([]*Params, 0, len(payouts))
	for _, p := range payouts {
		if p.ID == "" {
			return nil, missingPayoutID()
		}
		item := NewParams().Set("id", p.ID.String())
		if p.ScheduledAt != nil {
			item.Set("scheduled_at", *p.ScheduledAt)
		}
		items = append(items, item)
	}
	return s.Start(ctx, NewParams().Set("payouts", items).Merge(params), opts...)
}

func missingPayoutID() error {
	return apierrors.NewInvalidRequestError("Invalid id argument. You must specify payout id.", "id")
}
