package fedapay

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayouts_Start(t *testing.T) {
	client, conn := newStubClient(t, reply(200, `{}`))

	_, err := client.Payouts.Start(context.Background(), NewParams().Set("payouts", []*Params{
		NewParams().Set("id", "1"),
	}))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, conn.last().Method)
	assert.Equal(t, SandboxBaseURL+"/v1/payouts/start", conn.last().URL)
	assert.Equal(t, "payouts[0][id]=1", string(conn.last().Body))
}

func TestPayouts_SendNow(t *testing.T) {
	client, conn := newStubClient(t, reply(200, `{}`))

	_, err := client.Payouts.SendNow(context.Background(), "7", NewParams().Set("note", "salary"))
	require.NoError(t, err)

	form := conn.form(t, 0)
	assert.Equal(t, "7", form.Get("payouts[0][id]"))
	assert.Equal(t, "salary", form.Get("note"))
}

func TestPayouts_Schedule(t *testing.T) {
	client, conn := newStubClient(t, reply(200, `{}`))
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := client.Payouts.Schedule(context.Background(), "7", at, nil)
	require.NoError(t, err)

	form := conn.form(t, 0)
	assert.Equal(t, "7", form.Get("payouts[0][id]"))
	assert.Equal(t, "2024-03-01T12:00:00Z", form.Get("payouts[0][scheduled_at]"))
}

func TestPayouts_SendAllNow(t *testing.T) {
	client, conn := newStubClient(t, reply(200, `{}`))

	_, err := client.Payouts.SendAllNow(context.Background(), []ID{"1", "2"}, nil)
	require.NoError(t, err)
	assert.Equal(t,
		"payouts[0][id]=1&payouts[0][send_now]=true&payouts[1][id]=2&payouts[1][send_now]=true",
		string(conn.last().Body))
}

func TestPayouts_ScheduleAll(t *testing.T) {
	client, conn := newStubClient(t, reply(200, `{}`))
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := client.Payouts.ScheduleAll(context.Background(), []PayoutSchedule{
		{ID: "1", ScheduledAt: &at},
		{ID: "2"},
	}, nil)
	require.NoError(t, err)

	form := conn.form(t, 0)
	assert.Equal(t, "2024-03-01T12:00:00Z", form.Get("payouts[0][scheduled_at]"))
	assert.Equal(t, "2", form.Get("payouts[1][id]"))
	_, scheduled := form["payouts[1][scheduled_at]"]
	assert.False(t, scheduled)
}

func TestPayouts_MissingID(t *testing.T) {
	client, conn := newStubClient(t, reply(200, `{}`))
	ctx := context.Background()

	_, err := client.Payouts.SendNow(ctx, "", nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = client.Payouts.Schedule(ctx, "", time.Now(), nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = client.Payouts.SendAllNow(ctx, []ID{"1", ""}, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = client.Payouts.ScheduleAll(ctx, []PayoutSchedule{{}}, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid id argument. You must specify payout id.", apiErr.Message)
	assert.Equal(t, 0, conn.count())
}
