package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/teller/internal/bank"
	"github.com/MrJamesThe3rd/teller/internal/http/auth"
	"github.com/MrJamesThe3rd/teller/internal/ledger"
)

type Handler struct {
	banks      *bank.Set
	auth       *auth.Manager
	bcryptCost int
}

func NewHandler(banks *bank.Set, authManager *auth.Manager, bcryptCost int) *Handler {
	return &Handler{banks: banks, auth: authManager, bcryptCost: bcryptCost}
}

// PublicRoutes are mounted under /banks/{bank} and need no session.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/accounts", h.create)
	r.Post("/login", h.login)
}

// SessionRoutes operate on the authenticated caller's own account.
func (h *Handler) SessionRoutes(r chi.Router) {
	r.Get("/balance", h.balance)
	r.Post("/deposit", h.deposit)
	r.Post("/withdraw", h.withdraw)
}

type createAccountRequest struct {
	ID             string `json:"id"`
	Password       string `json:"password"`
	OpeningBalance int64  `json:"opening_balance"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	b, ok := h.banks.Get(chi.URLParam(r, "bank"))
	if !ok {
		http.Error(w, "bank not found", http.StatusNotFound)
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.ID == "" || req.Password == "" {
		http.Error(w, "id and password are required", http.StatusBadRequest)
		return
	}

	secret, err := ledger.NewHashedSecret(req.Password, h.bcryptCost)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	acct, err := b.Ledger.CreateAccount(r.Context(), req.ID, secret, req.OpeningBalance)
	if err != nil && !errors.Is(err, ledger.ErrRecorderWrite) {
		switch {
		case errors.Is(err, ledger.ErrDuplicateAccount):
			http.Error(w, "account already exists", http.StatusConflict)
		case errors.Is(err, ledger.ErrInvalidAmount):
			http.Error(w, "invalid opening balance", http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusCreated, toBalanceResponse(acct.ID, acct.Balance))
}

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	b, ok := h.banks.Get(chi.URLParam(r, "bank"))
	if !ok {
		http.Error(w, "bank not found", http.StatusNotFound)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	acct, err := b.Ledger.Authenticate(r.Context(), req.ID, req.Password)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	token, err := h.auth.Issue(b.Name, acct.ID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	b, session, ok := h.session(w, r)
	if !ok {
		return
	}

	balance, err := b.Ledger.Balance(r.Context(), session.Account)
	if err != nil {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toBalanceResponse(session.Account, balance))
}

type amountRequest struct {
	Amount int64 `json:"amount"` // cents
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(b *bank.Bank, session auth.Session, amount int64) (int64, error) {
		return b.Ledger.Deposit(r.Context(), session.Account, amount)
	})
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(b *bank.Bank, session auth.Session, amount int64) (int64, error) {
		return b.Ledger.Withdraw(r.Context(), session.Account, amount)
	})
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op func(*bank.Bank, auth.Session, int64) (int64, error)) {
	b, session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	balance, err := op(b, session, req.Amount)
	if err != nil && !errors.Is(err, ledger.ErrRecorderWrite) {
		switch {
		case errors.Is(err, ledger.ErrInvalidAmount):
			http.Error(w, "amount must be > 0", http.StatusBadRequest)
		case errors.Is(err, ledger.ErrInsufficientFunds):
			http.Error(w, "insufficient balance", http.StatusConflict)
		case errors.Is(err, ledger.ErrUnknownAccount):
			http.Error(w, "account not found", http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	writeJSON(w, http.StatusOK, toBalanceResponse(session.Account, balance))
}

// session resolves the authenticated caller's bank. The token was issued for
// a bank this process hosts unless the configuration changed under it.
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
