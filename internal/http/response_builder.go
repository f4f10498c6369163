// Package http serves the ledger over HTTP.
//
// Handlers answer HTMX requests with HTML partials and announce what changed
// through the HX-Trigger header; the page script and hx-trigger attributes
// listen for those events.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// Client-side events emitted through HX-Trigger.
const (
	EventLedgerChanged  = "ledger:changed"
	EventLedgerSaved    = "ledger:saved"
	EventLedgerReloaded = "ledger:reloaded"
	EventFormReset      = "form:reset"
	EventNotification   = "show-notification"
)

// NotificationType selects the style of the toast shown by app.js.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// notificationDuration is how long app.js keeps each kind of toast, in ms.
var notificationDuration = map[NotificationType]int{
	NotificationSuccess: 3000,
	NotificationInfo:    3000,
	NotificationWarning: 5000,
	NotificationError:   5000,
}

type notification struct {
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	Duration int              `json:"duration"`
}

type changedList struct {
	Kind string `json:"kind"`
}

// htmxResponse collects the status, HX-Trigger events and HTML body of a
// single response and writes them in one go.
type htmxResponse struct {
	status int
	events map[string]any
	body   []byte
}

func respond() *htmxResponse {
	return &htmxResponse{status: http.StatusOK, events: map[string]any{}}
}

// failure is an escaped error fragment that also pops an error toast.
func failure(status int, message string) *htmxResponse {
	return respond().
		withStatus(status).
		html([]byte(`<div class="error">`+template.HTMLEscapeString(message)+`</div>`)).
		notify(NotificationError, message)
}

func tooManyRequests(message string) *htmxResponse {
	return failure(http.StatusTooManyRequests, message)
}

func (b *htmxResponse) withStatus(code int) *htmxResponse {
	b.status = code
	return b
}

// trigger records an event; a nil payload is sent as an empty object.
func (b *htmxResponse) trigger(event string, payload any) *htmxResponse {
	if payload == nil {
		payload = struct{}{}
	}
	b.events[event] = payload
	return b
}

// ledgerChanged tells the summary panel that the list under segment changed.
func (b *htmxResponse) ledgerChanged(segment string) *htmxResponse {
	return b.trigger(EventLedgerChanged, changedList{Kind: segment})
}

func (b *htmxResponse) formReset() *htmxResponse {
	return b.trigger(EventFormReset, nil)
}

func (b *htmxResponse) notify(kind NotificationType, message string) *htmxResponse {
	return b.trigger(EventNotification, notification{
		Type:     kind,
		Message:  message,
		Duration: notificationDuration[kind],
	})
}

func (b *htmxResponse) html(body []byte) *htmxResponse {
	b.body = body
	return b
}

func (b *htmxResponse) write(w http.ResponseWriter) {
	if len(b.events) > 0 {
		if header, err := json.Marshal(b.events); err == nil {
			w.Header().Set("HX-Trigger", string(header))
		}
	}
	if b.body != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(b.status)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
