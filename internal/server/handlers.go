package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/shahar-caura/marino/internal/dialogue"
	"github.com/shahar-caura/marino/internal/outbox"
)

const defaultListLimit = 20

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int    `json:"uptime_seconds"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply plus the ID the reminder was stored under, if any.
type ChatResponse struct {
	dialogue.Reply
	ReminderID string `json:"reminder_id,omitempty"`
}

// ReminderList is the body of GET /api/reminders.
type ReminderList struct {
	Reminders []*outbox.Reminder `json:"reminders"`
	Total     int                `json:"total"`
}

// ErrorResponse is the body of every 4xx/5xx answer.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Version:       s.version,
		UptimeSeconds: int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp := ChatResponse{Reply: s.bot.HandleMessage(r.Context(), req.Message)}
	if resp.Reminder != nil && s.store != nil {
		resp.ReminderID = s.capture(r.Context(), *resp.Reminder, req.Message)
	}
	writeJSON(w, http.StatusOK, resp)
}

// capture stores an emitted reminder and notifies about it. Failures are
// logged; the chat reply is sent regardless.
func (s *Server) capture(ctx context.Context, req dialogue.ReminderRequest, message string) string {
	rem, err := s.store.Capture(ctx, req, message, s.notifier)
	if rem == nil {
		s.logger.Error("saving reminder", "error", err)
		return ""
	}
	if err != nil {
		s.logger.Error("saving reminder status", "id", rem.ID, "error", err)
	}
	if rem.Status == outbox.StatusNotifyFailed {
		s.logger.Warn("notifying reminder", "id", rem.ID, "error", rem.NotifyError)
	}
	s.logger.Info("reminder captured", "id", rem.ID, "date", rem.Date, "priority", rem.Priority, "status", string(rem.Status))
	return rem.ID
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.store == nil {
		writeJSON(w, http.StatusOK, ReminderList{Reminders: []*outbox.Reminder{}})
		return
	}
	all, err := s.store.List(0)
	if err != nil {
		s.logger.Error("listing reminders", "error", err)
		writeError(w, http.StatusInternalServerError, "listing reminders failed")
		return
	}
	page := all
	if len(page) > limit {
		page = page[:limit]
	}
	if page == nil {
		page = []*outbox.Reminder{}
	}
	writeJSON(w, http.StatusOK, ReminderList{Reminders: page, Total: len(all)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Code: status, Message: message})
}
