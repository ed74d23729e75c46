package httpapi

import (
	"errors"
	"net/http"

	"github.com/zourit/zourit/auth"
	"github.com/zourit/zourit/store"
)

type (
	credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	sessionReply struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
)

// issueSession answers with a fresh token for the given account, or a
// generic 500 when signing fails.
func (h *handler) issueSession(w http.ResponseWriter, r *http.Request, accountID int64, role string) {
	token, err := auth.IssueToken(accountID, role, h.secret, h.lifetime)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionReply{Token: token, Role: role})
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	acc, err := auth.Register(r.Context(), h.st, body.Username, body.Password)
	var dup store.DuplicateUsername
	switch {
	case errors.As(err, &dup):
		http.Error(w, "username already taken", http.StatusConflict)
		return
	case errors.Is(err, auth.ErrInvalidUsername):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		internalError(w, r, err)
		return
	}
	h.issueSession(w, r, acc.ID, acc.Role)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	acc, err := auth.Login(r.Context(), h.st, body.Username, body.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	} else if err != nil {
		internalError(w, r, err)
		return
	}
	h.issueSession(w, r, acc.ID, acc.Role)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": id.AccountID,
		"role":    id.Role,
	})
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	h.issueSession(w, r, id.AccountID, id.Role)
}

type userEntry struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.st.ListAccounts(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	users := make([]userEntry, 0, len(accounts))
	for _, acc := range accounts {
		users = append(users, userEntry{ID: acc.ID, Username: acc.Username, Role: acc.Role})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// createAdmin handles the bootstrap flow: while no admin exists the call
// is accepted without authentication, once one does it requires a valid
// admin bearer token. Creation forces the admin role either way.
func (h *handler) createAdmin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	acc, err := auth.BootstrapAdmin(r.Context(), h.st, body.Username, body.Password)
	var closed store.BootstrapClosed
	if errors.As(err, &closed) {
		id, ok := h.realm.resolve(r)
		if !ok {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		if id.Role != store.RoleAdmin {
			http.Error(w, "Insufficient permissions", http.StatusForbidden)
			return
		}
		acc, err = auth.RegisterAdmin(r.Context(), h.st, body.Username, body.Password)
	}
	var dup store.DuplicateUsername
	switch {
	case errors.As(err, &dup):
		http.Error(w, "username already taken", http.StatusConflict)
		return
	case errors.Is(err, auth.ErrInvalidUsername):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		internalError(w, r, err)
		return
	}
	h.issueSession(w, r, acc.ID, acc.Role)
}
