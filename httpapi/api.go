package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/zourit/zourit/auth"
	"github.com/zourit/zourit/internal/logutil"
	"github.com/zourit/zourit/store"
)

type (
	Config struct {
		// Secret signs and verifies session tokens.
		Secret []byte
		// TokenLifetime bounds issued sessions, DefaultTokenLifetime when
		// zero.
		TokenLifetime time.Duration
	}

	handler struct {
		st       *store.Store
		realm    *SecurityRealm
		csrf     CSRFGuard
		secret   []byte
		lifetime time.Duration
	}
)

// AsHandler wires the whole HTTP surface: the JSON auth endpoints, the
// token-gated admin HTML pages, and the product resource.
func AsHandler(ctx context.Context, st *store.Store, cfg Config) (http.Handler, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("httpapi: signing secret must not be empty")
	}
	if cfg.TokenLifetime <= 0 {
		cfg.TokenLifetime = auth.DefaultTokenLifetime
	}
	realm, err := NewSecurityRealm(cfg.Secret)
	if err != nil {
		return nil, err
	}
	h := &handler{
		st:       st,
		realm:    realm,
		secret:   cfg.Secret,
		lifetime: cfg.TokenLifetime,
	}

	router := httprouter.New()
	router.HandlerFunc("GET", "/", h.index)

	router.HandlerFunc("POST", "/auth/register", h.register)
	router.HandlerFunc("POST", "/auth/login", h.login)
	router.Handler("GET", "/auth/me", realm.Protect(http.HandlerFunc(h.me)))
	router.Handler("GET", "/auth/refresh", realm.Protect(http.HandlerFunc(h.refresh)))
	router.Handler("GET", "/auth/users", realm.ProtectAdmin(http.HandlerFunc(h.listUsers)))
	router.HandlerFunc("POST", "/auth/admin", h.createAdmin)

	router.Handler("GET", "/admin/users", realm.ProtectAdmin(http.HandlerFunc(h.adminUsersPage)))
	router.Handler("POST", "/admin/users/:id/role", realm.ProtectAdmin(http.HandlerFunc(h.promote)))

	router.HandlerFunc("POST", "/products", h.createProduct)
	router.HandlerFunc("GET", "/products", h.listProducts)
	router.HandlerFunc("GET", "/products/:id", h.getProduct)
	router.HandlerFunc("PUT", "/products/:id", h.updateProduct)
	router.HandlerFunc("DELETE", "/products/:id", h.deleteProduct)

	log := logutil.GetOrDefault(ctx)
	log.Debug().
		Dur("token.lifetime", cfg.TokenLifetime).
		Msg("HTTP API ready")
	return router, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	buf, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "unable to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf)
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// internalError logs the cause and answers with a generic 500, nothing
// internal leaks to the caller.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	log := logutil.GetOrDefault(r.Context())
	log.Error().Err(err).
		Str("path", r.URL.Path).Msg("Request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

var indexPage = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><title>Zourit API</title></head>
<body>
<h1>Zourit API</h1>
<p>Welcome to Zourit API</p>
<ul>
<li><a href="/products">/products</a> — product catalog (GET, POST, PUT, DELETE)</li>
<li>/auth — registration, login and session endpoints</li>
</ul>
</body>
</html>
`))

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Welcome to Zourit API",
			"version": "1.0.0",
			"endpoints": map[string]string{
				"products": "/products",
			},
		})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexPage.Execute(w, nil)
}
