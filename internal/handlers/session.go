package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coursedb/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// SessionHandler provides the login endpoint. It verifies credentials
// via the user service and issues a signed token.
type SessionHandler struct {
	userService *services.UserService
	validate    *validator.Validate
	secret      []byte
	tokenTTL    time.Duration
}

// NewSessionHandler constructs a SessionHandler with the provided dependencies.
func NewSessionHandler(userService *services.UserService, v *validator.Validate, jwtSecret string, tokenTTL time.Duration) *SessionHandler {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &SessionHandler{
		userService: userService,
		validate:    v,
		secret:      []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

// SessionRouter registers session routes on the given router.
func SessionRouter(r chi.Router, userService *services.UserService, v *validator.Validate, jwtSecret string, tokenTTL time.Duration) {
	handler := NewSessionHandler(userService, v, jwtSecret, tokenTTL)

	r.Post("/", handler.CreateSession)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=4,max=60"`
	Password string `json:"password" validate:"required,min=4,max=60"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// CreateSession verifies the supplied credentials and responds with a
// signed bearer token whose subject is the username.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	valid, err := h.userService.ValidateCredentials(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to validate user")
		return
	}
	if !valid {
		writeError(w, http.StatusUnprocessableEntity, "invalid credentials")
		return
	}

	token, err := issueToken(req.Username, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// RequireAuth enforces bearer token authentication and injects the
// token subject into the request context. Exposed for routes that need
// protection; none of the current surface uses it.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			subject, err := parseTokenSubject(tokenString, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), contextSubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func issueToken(username string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
