package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wadjakorntonsri/moodsync/pkg/config"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const sessionTTL = 24 * time.Hour

type AuthHandler struct {
	oauthConfig   *oauth2.Config
	mw            *Middleware
	jwtSecret     []byte
	frontendURL   string
	allowedEmails []string
	isProduction  bool
	userInfoURL   string
}

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewAuthHandler(cfg *config.Config, mw *Middleware) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		mw:            mw,
		jwtSecret:     []byte(cfg.JWTSecret),
		frontendURL:   cfg.FrontendURL,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
		userInfoURL:   "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// SignSessionToken issues the HS256 token stored in the auth_token cookie.
func SignSessionToken(secret []byte, email string, ttl time.Duration) (string, time.Time, error) {
	expirationTime := time.Now().Add(ttl)
	claims := &jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	return token, expirationTime, err
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := h.generateStateOauthCookie(w)
	url := h.oauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	oauthState, err := r.Cookie("oauthstate")
	if err != nil {
		log.Warn("Callback error: missing oauthstate cookie", "error", err)
		http.Redirect(w, r, h.frontendURL+"/login", http.StatusTemporaryRedirect)
		return
	}

	if r.FormValue("state") != oauthState.Value {
		log.Warn("Callback error: invalid oauth state")
		writeErrorMessage(w, http.StatusBadRequest, "invalid oauth google state")
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Error("Callback error: code exchange failed", "error", err)
		writeErrorMessage(w, http.StatusBadGateway, "code exchange failed")
		return
	}

	googleUser, err := h.fetchUser(r, token)
	if err != nil {
		log.Error("Callback error: failed getting user info", "error", err)
		writeErrorMessage(w, http.StatusBadGateway, "failed getting user info")
		return
	}

	// Email Allowlist Check
	if len(h.allowedEmails) > 0 && !slices.Contains(h.allowedEmails, googleUser.Email) {
		log.Warn("Callback error: email not in allowlist", "email", googleUser.Email)
		writeErrorMessage(w, http.StatusForbidden, "Access denied: your email is not in the allowlist")
		return
	}

	tokenString, expirationTime, err := SignSessionToken(h.jwtSecret, googleUser.Email, sessionTTL)
	if err != nil {
		log.Error("Callback error: failed signing JWT", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    tokenString,
		Expires:  expirationTime,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("Login successful", slog.String("email", googleUser.Email))
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) fetchUser(r *http.Request, token *oauth2.Token) (*GoogleUser, error) {
	client := h.oauthConfig.Client(r.Context(), token)
	response, err := client.Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	var googleUser GoogleUser
	if err := json.NewDecoder(response.Body).Decode(&googleUser); err != nil {
		return nil, err
	}
	return &googleUser, nil
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.frontendURL+"/login", http.StatusTemporaryRedirect)
}

type sessionResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Email    string `json:"email,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
}

// Check backs the front-end login store. It never answers 401.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	email, err := h.mw.sessionEmail(r)
	if err != nil {
		writeJSON(w, http.StatusOK, sessionResponse{LoggedIn: false})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		LoggedIn: true,
		Email:    email,
		Admin:    slices.Contains(h.mw.adminEmails, email),
	})
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	cookie := http.Cookie{
		Name:     "oauthstate",
		Value:    state,
		Expires:  time.Now().Add(20 * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction, // Set based on environment
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, &cookie)
	return state
}
