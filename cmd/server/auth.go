package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	sessionCookieName = "specquote_session"
	sessionTTL        = 12 * time.Hour
)

// authService guards the admin endpoints with a single configured account and
// an HMAC-signed session cookie.
type authService struct {
	adminEmail    string
	adminHash     string
	sessionSecret []byte
}

func newAuthService(adminEmail, adminPassword, sessionSecret string) *authService {
	a := &authService{
		adminEmail:    strings.TrimSpace(adminEmail),
		sessionSecret: []byte(sessionSecret),
	}
	if adminPassword != "" {
		a.adminHash = hashPassword(adminPassword)
	}
	return a
}

func (a *authService) validateCredentials(email, password string) bool {
	if a.adminEmail == "" || a.adminHash == "" {
		return false
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(email)), []byte(a.adminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(hashPassword(password)), []byte(a.adminHash)) == 1
	return emailOK && passwordOK
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// createSessionValue signs "email|expiry" so a session stops verifying once
// sessionTTL has passed, even if the browser keeps the cookie.
func (a *authService) createSessionValue(email string, now time.Time) string {
	claims := email + "|" + strconv.FormatInt(now.Add(sessionTTL).Unix(), 10)
	payload := base64.RawURLEncoding.EncodeToString([]byte(claims))
	return payload + "." + a.sign(payload)
}

func (a *authService) sign(payload string) string {
	mac := hmac.New(sha256.New, a.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *authService) verifySessionValue(value string, now time.Time) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok || len(a.sessionSecret) == 0 {
		return "", false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	expected, _ := hex.DecodeString(a.sign(payload))
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	email, rawExpiry, ok := strings.Cut(string(decoded), "|")
	if !ok || email == "" {
		return "", false
	}
	expiry, err := strconv.ParseInt(rawExpiry, 10, 64)
	if err != nil || now.Unix() >= expiry {
		return "", false
	}

	return email, true
}

func (a *authService) setSessionCookie(w http.ResponseWriter, email string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    a.createSessionValue(email, time.Now()),
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) isAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}

	_, ok := a.verifySessionValue(cookie.Value, time.Now())
	return ok
}

func (s *server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.isAuthenticated(r) {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	email := r.FormValue("email")
	if !s.auth.validateCredentials(email, r.FormValue("password")) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	s.auth.setSessionCookie(w, email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
