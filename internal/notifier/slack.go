package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shahar-caura/marino/internal/dialogue"
	"github.com/shahar-caura/marino/internal/outbox"
)

var priorityMarks = map[string]string{
	"high":   ":red_circle:",
	"medium": ":large_orange_circle:",
	"low":    ":white_circle:",
}

// Slack posts reminders to an incoming webhook as a short Block Kit message.
type Slack struct {
	webhookURL string
	client     *http.Client
}

// New returns a Slack notifier for the given webhook URL.
func New(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type textObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type block struct {
	Type     string       `json:"type"`
	Text     *textObject  `json:"text,omitempty"`
	Elements []textObject `json:"elements,omitempty"`
}

// webhookPayload carries a plain-text fallback for notifications and the
// blocks rendered in the channel.
type webhookPayload struct {
	Text   string  `json:"text"`
	Blocks []block `json:"blocks,omitempty"`
}

// reminderPayload renders r as a headline with the due date and a context
// line quoting the message it came from.
func reminderPayload(r *outbox.Reminder) webhookPayload {
	var head strings.Builder
	if mark, ok := priorityMarks[r.Priority]; ok {
		head.WriteString(mark)
		head.WriteByte(' ')
	}
	fmt.Fprintf(&head, "Recordatorio: *%s* para el %s", r.Title, dialogue.FormatDate(r.Date))
	if r.Description != "" {
		fmt.Fprintf(&head, "\n%s", r.Description)
	}

	p := webhookPayload{
		Text:   fmt.Sprintf("Recordatorio: %s (%s)", r.Title, dialogue.FormatDate(r.Date)),
		Blocks: []block{{Type: "section", Text: &textObject{Type: "mrkdwn", Text: head.String()}}},
	}
	if r.Message != "" {
		p.Blocks = append(p.Blocks, block{
			Type:     "context",
			Elements: []textObject{{Type: "mrkdwn", Text: fmt.Sprintf("> %s", r.Message)}},
		})
	}
	return p
}

// NotifyReminder posts r to the configured webhook.
func (s *Slack) NotifyReminder(ctx context.Context, r *outbox.Reminder) error {
	payload, err := json.Marshal(reminderPayload(r))
	if err != nil {
		return fmt.Errorf("slack: marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("slack: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack: sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("slack: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack: unexpected status %d: %s", resp.StatusCode, body)
	}
	if string(body) != "ok" {
		return fmt.Errorf("slack: unexpected response body: %s", body)
	}
	return nil
}
