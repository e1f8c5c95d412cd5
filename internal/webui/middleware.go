package webui

import "net/http"

// AuthMiddleware restricts access to requests carrying a valid session
// cookie: the cookie must carry the configured username. The password is
// compared only at login time.
func AuthMiddleware(creds Credentials, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session_id")
		if err != nil || cookie.Value == "" || cookie.Value != creds.Username {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
