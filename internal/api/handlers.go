package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fakeyudi/huntsplit/internal/history"
	"github.com/fakeyudi/huntsplit/internal/report"
	"github.com/fakeyudi/huntsplit/internal/settle"
)

const maxReportBytes = 1 << 20

// HistoryStore is the subset of *history.Store the API needs.
type HistoryStore interface {
	Save(ctx context.Context, sess *report.Session) (history.Entry, error)
	Get(ctx context.Context, id string) (history.Entry, error)
	List(ctx context.Context, limit int) ([]history.Entry, error)
	Delete(ctx context.Context, id string) (history.Entry, error)
}

// Server is the huntsplit HTTP API.
type Server struct {
	*BaseServer
	history HistoryStore
	mode    settle.Mode
}

// NewServer wires the API routes onto a fresh BaseServer. mode is the
// rounding mode used when a request does not pass ?mode=.
func NewServer(addr string, store HistoryStore, mode settle.Mode, logger *slog.Logger) *Server {
	s := &Server{
		BaseServer: NewBaseServer(addr, logger),
		history:    store,
		mode:       mode,
	}

	r := s.Router
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/settlements", s.handleSettle).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/history", s.handleListHistory).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleSaveHistory).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/history/{id}", s.handleGetHistory).Methods(http.MethodGet)
	api.HandleFunc("/history/{id}", s.handleDeleteHistory).Methods(http.MethodDelete, http.MethodOptions)
	return s
}

// Settlement is a parsed session together with everything derived from it.
type Settlement struct {
	Session   *report.Session   `json:"session"`
	Transfers []settle.Transfer `json:"transfers"`
	Commands  []string          `json:"commands"`
	Profit    settle.Summary    `json:"profit"`
	Warnings  []string          `json:"warnings"`
}

// HistoryEntry is a saved session as returned by the history endpoints.
type HistoryEntry struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Settlement
}

// HistoryItem is one row of the history listing.
type HistoryItem struct {
	ID        string    `json:"id"`
	SavedAt   time.Time `json:"saved_at"`
	StartTime time.Time `json:"start_time"`
	Duration  string    `json:"duration"`
	Players   int       `json:"players"`
	Profit    int64     `json:"profit"`
}

func newSettlement(sess *report.Session, warnings []string, mode settle.Mode) Settlement {
	transfers := settle.Calculator{Mode: mode}.Settle(sess)
	commands := make([]string, len(transfers))
	for i, t := range transfers {
		commands[i] = settle.Command(t)
	}
	if warnings == nil {
		warnings = []string{}
	}
	return Settlement{
		Session:   sess,
		Transfers: transfers,
		Commands:  commands,
		Profit:    settle.Summarize(sess),
		Warnings:  warnings,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	mode, ok := s.requestMode(w, r)
	if !ok {
		return
	}
	sess, warnings, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, newSettlement(sess, warnings, mode))
}

func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	mode, ok := s.requestMode(w, r)
	if !ok {
		return
	}
	sess, warnings, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	e, err := s.history.Save(r.Context(), sess)
	if err != nil {
		s.Logger.Error("save session failed", "err", err)
		WriteInternalServerError(w, "failed to save session")
		return
	}
	s.Logger.Info("session saved", "id", e.ID, "players", len(sess.Players))
	WriteJSON(w, http.StatusCreated, HistoryEntry{ID: e.ID, SavedAt: e.SavedAt, Settlement: newSettlement(e.Session, warnings, mode)})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteBadRequest(w, fmt.Sprintf("invalid limit %q", v))
			return
		}
		limit = n
	}

	entries, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.Logger.Error("list history failed", "err", err)
		WriteInternalServerError(w, "failed to list history")
		return
	}
	items := make([]HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = HistoryItem{
			ID:        e.ID,
			SavedAt:   e.SavedAt,
			StartTime: e.Session.StartTime,
			Duration:  e.Session.Duration,
			Players:   len(e.Session.Players),
			Profit:    settle.Summarize(e.Session).Profit,
		}
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	mode, ok := s.requestMode(w, r)
	if !ok {
		return
	}
	e, err := s.history.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeHistoryError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, HistoryEntry{ID: e.ID, SavedAt: e.SavedAt, Settlement: newSettlement(e.Session, nil, mode)})
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	e, err := s.history.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeHistoryError(w, err)
		return
	}
	s.Logger.Info("session deleted", "id", e.ID)
	WriteJSON(w, http.StatusOK, map[string]string{"deleted": e.ID})
}

func (s *Server) writeHistoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, history.ErrNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, history.ErrAmbiguousID):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		s.Logger.Error("history lookup failed", "err", err)
		WriteInternalServerError(w, "history lookup failed")
	}
}

// requestMode reads ?mode=, falling back to the server default.
func (s *Server) requestMode(w http.ResponseWriter, r *http.Request) (settle.Mode, bool) {
	v := r.URL.Query().Get("mode")
	if v == "" {
		return s.mode, true
	}
	mode, err := settle.ParseMode(v)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return "", false
	}
	return mode, true
}

// parseBody reads the report from the request and parses it, writing the
// error response itself when that fails.
func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*report.Session, []string, bool) {
	raw, err := readReport(w, r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return nil, nil, false
	}

	sess, warnings, err := report.ParseText(raw)
	if err != nil {
		var pe *report.ParseError
		if errors.As(err, &pe) {
			writeErrorResponse(w, JSONErrorResponse{
				Message: err.Error(),
				Code:    http.StatusUnprocessableEntity,
				Details: pe.Kind.Error(),
			})
			return nil, nil, false
		}
		WriteBadRequest(w, err.Error())
		return nil, nil, false
	}
	for _, msg := range warnings {
		s.Logger.Warn("report value defaulted", "detail", msg)
	}
	return sess, warnings, true
}

// readReport returns the report text from a JSON {"report": ...} body or
// from a plain-text body.
func readReport(w http.ResponseWriter, r *http.Request) (string, error) {
	body := http.MaxBytesReader(w, r.Body, maxReportBytes)
	defer body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req struct {
			Report string `json:"report"`
		}
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			return "", fmt.Errorf("invalid JSON body: %w", err)
		}
		return req.Report, nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}
