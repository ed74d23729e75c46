package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/zourit/zourit/auth"
	"github.com/zourit/zourit/internal/logutil"
	"github.com/zourit/zourit/store"
)

type (
	// Identity is what the security realm attaches to the request context
	// once a bearer token checks out. Downstream handlers trust only this,
	// never the raw token.
	Identity struct {
		AccountID int64
		Role      string
	}

	// SecurityRealm resolves bearer tokens into identities. Validated
	// tokens are remembered in an in-memory cache so repeated requests with
	// the same token skip the signature check; cached entries carry their
	// own expiry and are re-verified against the clock before being
	// trusted.
	SecurityRealm struct {
		secret []byte
		cache  *bigcache.BigCache
	}

	cachedIdentity struct {
		AccountID int64  `json:"account_id"`
		Role      string `json:"role"`
		Expiry    int64  `json:"expiry"`
	}

	ctxKey byte
)

var (
	identityKey = ctxKey(1)

	bearerTokenRE = regexp.MustCompile(`^Bearer (\S+)$`)
)

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return Identity{}, false
	}
	return v.(Identity), true
}

func NewSecurityRealm(secret []byte) (*SecurityRealm, error) {
	cache, err := bigcache.NewBigCache(bigcache.DefaultConfig(10 * time.Minute))
	if err != nil {
		return nil, fmt.Errorf("unable to create token cache, cause %w", err)
	}
	return &SecurityRealm{secret: secret, cache: cache}, nil
}

// Protect rejects requests without a valid bearer token and attaches the
// resolved identity to the context of requests that carry one.
func (s *SecurityRealm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.resolve(r)
		if !ok {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// ProtectAdmin is Protect plus a role check: a valid identity without the
// admin role is refused with 403.
func (s *SecurityRealm) ProtectAdmin(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.resolve(r)
		if !ok {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		if id.Role != store.RoleAdmin {
			http.Error(w, "Insufficient permissions", http.StatusForbidden)
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func (s *SecurityRealm) resolve(r *http.Request) (Identity, bool) {
	log := logutil.GetOrDefault(r.Context())
	groups := bearerTokenRE.FindStringSubmatch(r.Header.Get("Authorization"))
	if len(groups) == 0 {
		return Identity{}, false
	}
	tk := groups[1]
	if id, ok := s.cached(tk); ok {
		return id, true
	}
	claims, err := auth.ValidateToken(tk, s.secret)
	if err != nil {
		log.Debug().Err(err).Msg("Token rejected")
		return Identity{}, false
	}
	id := Identity{AccountID: claims.AccountID(), Role: claims.Role}
	s.remember(tk, id, claims.ExpiresAt.Time)
	return id, true
}

func (s *SecurityRealm) cached(token string) (Identity, bool) {
	buf, err := s.cache.Get(token)
	if err != nil {
		return Identity{}, false
	}
	var entry cachedIdentity
	if json.Unmarshal(buf, &entry) != nil {
		return Identity{}, false
	}
	if time.Now().Unix() >= entry.Expiry {
		return Identity{}, false
	}
	return Identity{AccountID: entry.AccountID, Role: entry.Role}, true
}

func (s *SecurityRealm) remember(token string, id Identity, expiry time.Time) {
	buf, err := json.Marshal(cachedIdentity{AccountID: id.AccountID, Role: id.Role, Expiry: expiry.Unix()})
	if err != nil {
		return
	}
	s.cache.Set(token, buf)
}
