package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"splitter/internal/core"
	"splitter/internal/i18n"
	"splitter/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks that templates parsed and the store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	switch {
	case s.store == nil:
		checks["store"] = "not_configured"
	default:
		if err := s.store.Ping(ctx); err != nil {
			checks["store"] = "failed: " + err.Error()
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	}

	clients, rejected := s.rateLimiter.Stats()
	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
		"rate_limiter": map[string]any{
			"active_clients": clients,
			"rejected":       rejected,
		},
	})
}

// handleIndex renders the page. An explicit ?lang= choice is remembered in a
// cookie so the partials that follow render in the same language.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc := i18n.FromRequest(r)
	lg, summary := s.service.View()
	body, err := s.render(tmplIndex, pageView{
		L:       loc,
		Ledger:  newLedgerView(lg, loc),
		Summary: newSummaryView(summary, loc),
	})
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	if r.URL.Query().Get("lang") != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     i18n.CookieName,
			Value:    loc.Lang(),
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	respond().html(body).write(w)
}

func (s *Server) handleAPILedger(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Ledger())
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Summary())
}

// handleCalculate recomputes the summary and returns its partial.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	summary := s.service.Summary()
	log.FromContext(r.Context()).WithComponent(log.ComponentLedger).DebugContext(r.Context(), "Summary calculated",
		log.FieldOperation, log.OpCalculate,
		log.FieldTotalContrib, summary.TotalContribution,
		log.FieldTotalExpense, summary.TotalExpense)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, summary)
		return
	}
	body, err := s.render(tmplSummary, newSummaryView(summary, i18n.FromRequest(r)))
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	respond().html(body).write(w)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	loc := i18n.FromRequest(r)
	if err := s.service.Save(r.Context()); err != nil {
		failure(http.StatusInternalServerError, loc.T("Could not save the ledger")).write(w)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
		return
	}
	respond().
		trigger(EventLedgerSaved, nil).
		notify(NotificationSuccess, loc.T("Ledger saved")).
		write(w)
}

// handleReload replaces the ledger with the stored one. A storage failure
// leaves an empty ledger, which is still rendered.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	resp := respond().trigger(EventLedgerReloaded, nil)
	if err := s.service.Load(r.Context()); err != nil {
		resp.notify(NotificationWarning, i18n.FromRequest(r).T("Stored ledger could not be read; starting empty"))
	}
	s.writeLedger(w, r, resp)
}

// handleAddItem appends an item. Both label and value must be present;
// the core itself accepts anything.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	loc := i18n.FromRequest(r)
	kind, err := kindParam(r)
	if err != nil {
		failure(http.StatusNotFound, loc.T("Unknown list")).write(w)
		return
	}
	in, err := parseItemInput(r)
	if err != nil {
		failure(http.StatusBadRequest, loc.T("Invalid request body")).write(w)
		return
	}
	if blank(in.Label) || blank(in.Value) {
		failure(http.StatusBadRequest, loc.T("Label and value are required")).write(w)
		return
	}
	if err := s.service.Add(r.Context(), kind, in.Label, in.Value); err != nil {
		s.mutationFailed(w, r, err)
		return
	}
	s.writeLedger(w, r, respond().ledgerChanged(pathSegment(kind)).formReset())
}

func (s *Server) handleEditLabel(w http.ResponseWriter, r *http.Request) {
	kind, index, ok := s.itemParams(w, r)
	if !ok {
		return
	}
	loc := i18n.FromRequest(r)
	label, err := parseLabelInput(r)
	if err != nil {
		failure(http.StatusBadRequest, loc.T("Invalid request body")).write(w)
		return
	}
	if blank(label) {
		failure(http.StatusBadRequest, loc.T("Label must not be empty")).write(w)
		return
	}
	if err := s.service.EditLabel(r.Context(), kind, index, label); err != nil {
		s.mutationFailed(w, r, err)
		return
	}
	s.writeLedger(w, r, respond().ledgerChanged(pathSegment(kind)))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	kind, index, ok := s.itemParams(w, r)
	if !ok {
		return
	}
	if err := s.service.Delete(r.Context(), kind, index); err != nil {
		s.mutationFailed(w, r, err)
		return
	}
	s.writeLedger(w, r, respond().ledgerChanged(pathSegment(kind)))
}

// itemParams resolves {kind} and {index}, answering 404 and 400 itself.
func (s *Server) itemParams(w http.ResponseWriter, r *http.Request) (core.FinanceType, int, bool) {
	loc := i18n.FromRequest(r)
	kind, err := kindParam(r)
	if err != nil {
		failure(http.StatusNotFound, loc.T("Unknown list")).write(w)
		return "", 0, false
	}
	index, err := indexParam(r)
	if err != nil {
		failure(http.StatusBadRequest, loc.T("Index must be an integer")).write(w)
		return "", 0, false
	}
	return kind, index, true
}

// writeLedger answers a mutation with the current ledger: JSON for API
// clients, the ledger partial otherwise.
func (s *Server) writeLedger(w http.ResponseWriter, r *http.Request, resp *htmxResponse) {
	lg := s.service.Ledger()
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, lg)
		return
	}
	body, err := s.render(tmplLedger, newLedgerView(lg, i18n.FromRequest(r)))
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	resp.html(body).write(w)
}

func (s *Server) mutationFailed(w http.ResponseWriter, r *http.Request, err error) {
	loc := i18n.FromRequest(r)
	if errors.Is(err, core.ErrUnknownKind) {
		failure(http.StatusNotFound, loc.T("Unknown list")).write(w)
		return
	}
	failure(http.StatusInternalServerError, loc.T("Could not update the ledger")).write(w)
}

// blank reports whether s has nothing but whitespace.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Failed to render template",
		log.FieldError, err.Error(),
		log.FieldOperation, log.OpRender)
	failure(http.StatusInternalServerError, i18n.FromRequest(r).T("Rendering failed")).write(w)
}
