package zoho

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/pysugar/zoho-dashboard/internal/auth/token"
	"github.com/pysugar/zoho-dashboard/internal/logging"
)

// CodeExchanger is satisfied by *Exchanger.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (token.Pair, error)
}

// HandleCallback completes the flow: it checks ?error, the CSRF state and the code, then exchanges the code.
func HandleCallback(ex CodeExchanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if code := q.Get("error"); code != "" {
			aerr := &AuthorizationError{Code: code, Description: q.Get("error_description")}
			logging.WarnContext(r.Context(), "zoho authorization denied", "error", aerr)
			renderResult(w, http.StatusBadRequest, false, aerr.Error())
			return
		}

		cookie, err := r.Cookie(StateCookie)
		if err != nil || cookie.Value == "" || cookie.Value != q.Get("state") {
			renderResult(w, http.StatusBadRequest, false, "Invalid state token, please start the connection again.")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: StateCookie, Value: "", Path: "/auth/zoho", MaxAge: -1})

		code := q.Get("code")
		if code == "" {
			renderResult(w, http.StatusBadRequest, false, "No authorization code received.")
			return
		}

		if _, err := ex.ExchangeCode(r.Context(), code); err != nil {
			status := http.StatusInternalServerError
			var xerr *ExchangeError
			if errors.As(err, &xerr) {
				status = http.StatusBadGateway
			}
			renderResult(w, status, false, err.Error())
			return
		}

		renderResult(w, http.StatusOK, true, "Your Zoho account is connected.")
	}
}

func renderResult(w http.ResponseWriter, status int, ok bool, message string) {
	title, class := "Connection Failed", "failure"
	if ok {
		title, class = "Connection Successful", "success"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta http-equiv="refresh" content="3;url=/">
	<title>%[1]s</title>
	<style>
		body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; max-width: 600px; margin: 50px auto; padding: 20px; background: #fffbeb; color: #78350f; }
		.success { color: #15803d; }
		.failure { color: #b91c1c; }
		.redirect { color: #92400e; margin-top: 20px; }
	</style>
</head>
<body>
	<h1 class="%[2]s">%[1]s</h1>
	<p>%[3]s</p>
	<p class="redirect">Redirecting to dashboard in <span id="countdown">3</span> seconds...</p>
	<script>
		let sec = 3;
		setInterval(() => { if(sec > 0) document.getElementById('countdown').textContent = --sec; }, 1000);
		setTimeout(() => window.location.href = '/', 3000);
	</script>
</body>
</html>`, title, class, html.EscapeString(message))
}
