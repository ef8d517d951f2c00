package auth

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/quizzical/internal/config"
)

type Handler struct {
	ttl    time.Duration
	secure bool
}

func NewHandler(ttl time.Duration, secure bool) *Handler {
	return &Handler{ttl: ttl, secure: secure}
}

type ClientTokenResponse struct {
	ClientID  string `json:"clientId"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// IssueClient creates a fresh client profile: a new id, and so an empty store
// namespace.
func (h *Handler) IssueClient(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	clientID := uuid.NewString()
	token, err := GenerateJWT(clientID, h.ttl)
	if err != nil {
		log.WithError(err).Error("Failed to sign client token")
		config.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	expires := time.Now().Add(h.ttl)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: h.sameSite(),
	})

	log.WithField("client_id", clientID).Info("Issued client token")
	config.JSON(w, http.StatusCreated, ClientTokenResponse{
		ClientID:  clientID,
		Token:     token,
		ExpiresAt: expires.UnixMilli(),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: h.sameSite(),
	})

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "logout successful",
	})
}

func (h *Handler) sameSite() http.SameSite {
	if h.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
