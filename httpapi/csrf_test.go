package httpapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSRFEnsureMintsOnceAndReuses(t *testing.T) {
	var guard CSRFGuard
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/users", nil)

	token, err := guard.Ensure(rec, req)
	require.NoError(t, err)
	// 32 random bytes, beyond the 128 bit floor
	require.GreaterOrEqual(t, len(token), 43)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CSRFCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.Equal(t, token, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	// a request that already carries the cookie keeps its token
	req = httptest.NewRequest("GET", "/admin/users", nil)
	req.AddCookie(cookie)
	again, err := guard.Ensure(httptest.NewRecorder(), req)
	require.NoError(t, err)
	require.Equal(t, token, again)
}

func formPost(cookie, field string) *http.Request {
	form := url.Values{}
	if field != "" {
		form.Set(CSRFCookie, field)
	}
	req := httptest.NewRequest("POST", "/admin/users/1/role", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: CSRFCookie, Value: cookie})
	}
	return req
}

func TestCSRFCheck(t *testing.T) {
	var guard CSRFGuard
	require.True(t, guard.Check(formPost("abc", "abc")))
	require.False(t, guard.Check(formPost("abc", "xyz")))
	require.False(t, guard.Check(formPost("", "abc")))
	require.False(t, guard.Check(formPost("abc", "")))
}
