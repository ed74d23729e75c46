package httpapi

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/zourit/zourit/store"
)

var usersPage = template.Must(template.New("users").Parse(`<!doctype html>
<html>
<head><title>Users</title></head>
<body>
<h1>Users</h1>
<table>
<tr><th>ID</th><th>Username</th><th>Role</th><th></th></tr>
{{range .Users}}
<tr>
<td>{{.ID}}</td>
<td>{{.Username}}</td>
<td>{{.Role}}</td>
<td>
<form method="post" action="/admin/users/{{.ID}}/role">
<input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
<select name="role">
<option value="user">user</option>
<option value="admin">admin</option>
</select>
<button type="submit">Change role</button>
</form>
</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

type usersPageData struct {
	Users     []store.Account
	CSRFToken string
}

func (h *handler) adminUsersPage(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.st.ListAccounts(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	// the same value ends up in the cookie and in the hidden form field,
	// the promote handler requires both to match
	token, err := h.csrf.Ensure(w, r)
	if err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	usersPage.Execute(w, usersPageData{Users: accounts, CSRFToken: token})
}

func (h *handler) promote(w http.ResponseWriter, r *http.Request) {
	role := r.FormValue("role")
	if !store.ValidRole(role) {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}
	if !h.csrf.Check(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}
	err = h.st.UpdateRole(r.Context(), id, role)
	var notFound store.AccountNotFound
	if errors.As(err, &notFound) {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	} else if err != nil {
		internalError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
