package transfers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teller/internal/bank"
	"github.com/MrJamesThe3rd/teller/internal/http/auth"
	"github.com/MrJamesThe3rd/teller/internal/ledger"
	"github.com/MrJamesThe3rd/teller/internal/money"
	"github.com/MrJamesThe3rd/teller/internal/transfer"
)

type Handler struct {
	banks *bank.Set
}

func NewHandler(banks *bank.Set) *Handler {
	return &Handler{banks: banks}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.initiate)
	r.Post("/{id}/verify", h.verify)
}

type initiateRequest struct {
	Destination string `json:"destination"`
	Amount      int64  `json:"amount"` // cents
}

type initiateResponse struct {
	ID          uuid.UUID `json:"id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Amount      int64     `json:"amount"`
	// Code stands in for the SMS channel a real bank would deliver it on.
	Code int `json:"code"`
}

func (h *Handler) initiate(w http.ResponseWriter, r *http.Request) {
	b, session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := b.Transfers.Initiate(r.Context(), session.Account, req.Destination, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrSelfTransfer):
			http.Error(w, "cannot transfer to the same account", http.StatusBadRequest)
		case errors.Is(err, ledger.ErrInvalidAmount):
			http.Error(w, "amount must be > 0", http.StatusBadRequest)
		case errors.Is(err, ledger.ErrUnknownAccount):
			http.Error(w, "account not found", http.StatusNotFound)
		case errors.Is(err, ledger.ErrInsufficientFunds):
			http.Error(w, "insufficient balance", http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusCreated, initiateResponse{
		ID:          p.ID,
		Source:      p.SourceID,
		Destination: p.DestID,
		Amount:      p.Amount,
		Code:        p.Code,
	})
}

type verifyRequest struct {
	Code int `json:"code"`
}

type committedResponse struct {
	Source             string `json:"source"`
	Destination        string `json:"destination"`
	Amount             int64  `json:"amount"`
	SourceBalance      int64  `json:"source_balance"`
	SourceBalanceShown string `json:"source_balance_display"`
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	b, session, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid transfer id", http.StatusBadRequest)
		return
	}

	p, ok := b.Transfers.Get(id)
	if !ok || p.SourceID != session.Account {
		// An unknown id and a consumed challenge look the same to the caller.
		http.Error(w, "challenge expired", http.StatusGone)
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	committed, err := b.Transfers.Verify(r.Context(), p, req.Code)
	if err != nil && !errors.Is(err, ledger.ErrRecorderWrite) {
		switch {
		case errors.Is(err, transfer.ErrCodeMismatch):
			http.Error(w, "invalid code", http.StatusForbidden)
		case errors.Is(err, transfer.ErrExpiredChallenge):
			http.Error(w, "challenge expired", http.StatusGone)
		case errors.Is(err, ledger.ErrInsufficientFunds):
			http.Error(w, "insufficient balance", http.StatusConflict)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusOK, committedResponse{
		Source:             committed.SourceID,
		Destination:        committed.DestID,
		Amount:             committed.Amount,
		SourceBalance:      committed.SourceBalance,
		SourceBalanceShown: money.Format(committed.SourceBalance),
	})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*bank.Bank, auth.Session, bool) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, auth.Session{}, false
	}

	b, ok := h.banks.Get(session.Bank)
	if !ok {
		http.Error(w, "bank not found", http.StatusNotFound)
		return nil, auth.Session{}, false
	}

	return b, session, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
