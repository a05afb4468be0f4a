package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahar-caura/marino/internal/dialogue"
	"github.com/shahar-caura/marino/internal/outbox"
)

func testReminder() *outbox.Reminder {
	return outbox.New(dialogue.ReminderRequest{
		Title:    "comprar leche",
		Date:     "2024-08-15",
		Priority: "low",
	}, "Recuérdame comprar leche mañana")
}

func TestNotifyReminder_HappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload webhookPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Recordatorio: comprar leche (15/8/2024)", payload.Text)
		require.Len(t, payload.Blocks, 2)
		assert.Equal(t, ":white_circle: Recordatorio: *comprar leche* para el 15/8/2024", payload.Blocks[0].Text.Text)
		assert.Equal(t, "> Recuérdame comprar leche mañana", payload.Blocks[1].Elements[0].Text)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL).NotifyReminder(context.Background(), testReminder()))
}

func TestNotifyReminder_WebhookFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	err := New(srv.URL).NotifyReminder(context.Background(), testReminder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack: unexpected status 500")
}

func TestNotifyReminder_BadURL(t *testing.T) {
	err := New("http://[::1]:namedport").NotifyReminder(context.Background(), testReminder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack:")
}

func TestNotifyReminder_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(srv.URL).NotifyReminder(ctx, testReminder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack: sending request")
}

func TestNotifyReminder_UnexpectedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("invalid_payload"))
	}))
	defer srv.Close()

	err := New(srv.URL).NotifyReminder(context.Background(), testReminder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack: unexpected response body")
}

func TestFromConfig(t *testing.T) {
	n, err := FromConfig("", "")
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = FromConfig("slack", "https://hooks.slack.com/x")
	require.NoError(t, err)
	assert.IsType(t, &Slack{}, n)

	_, err = FromConfig("teams", "https://x")
	assert.True(t, errors.Is(err, ErrUnsupportedProvider))
}

func TestReminderPayload(t *testing.T) {
	r := &outbox.Reminder{Title: "pagar la luz", Date: "2024-09-01", Priority: "high", Description: "antes del mediodía"}
	p := reminderPayload(r)
	require.Len(t, p.Blocks, 1, "no context block without a source message")
	assert.Equal(t, ":red_circle: Recordatorio: *pagar la luz* para el 1/9/2024\nantes del mediodía", p.Blocks[0].Text.Text)

	p = reminderPayload(&outbox.Reminder{Title: "x", Date: "2025-02-02"})
	assert.Equal(t, "Recordatorio: *x* para el 2/2/2025", p.Blocks[0].Text.Text)
}
