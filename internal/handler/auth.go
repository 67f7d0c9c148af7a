package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/logger"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const contextSubjectKey contextKey = "sub"

// UserID returns the authenticated user id placed in ctx by RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(contextSubjectKey).(string)
	return id
}

// WithUserID returns a copy of ctx carrying userID as the authenticated subject.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextSubjectKey, userID)
}

// Claims are the JWT claims issued on login. Role is informational; every
// operation re-reads the role from the user store.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthHandler provides account registration and login endpoints.
type AuthHandler struct {
	svc      *service.EventManagementSystem
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthHandler constructs an AuthHandler signing tokens with jwtSecret.
func NewAuthHandler(svc *service.EventManagementSystem, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		secret:   []byte(jwtSecret),
		tokenTTL: tokenTTL,
	}
}

// Register handles POST /auth/register
// Self-service sign-up is limited to regular users and organizers.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	switch model.Role(req.Role) {
	case "", model.RoleUser, model.RoleOrganizer:
	default:
		writeError(w, http.StatusBadRequest, "role must be user or organizer")
		return
	}

	id, err := h.svc.RegisterUser(r.Context(), req.Username, req.Password, req.Email, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.MessageResponse{ID: id, Message: model.MsgUserCreated})
}

// Login handles POST /auth/login
// Verifies credentials and returns a signed bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	id, role, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		logger.WarnContext(r.Context(), "login failed", "username", req.Username)
		writeServiceError(w, r, err)
		return
	}

	token, err := issueToken(id, role, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token, UserID: id, Role: role})
}

// RequireAuth enforces JWT authentication and injects the subject into context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		subject, err := parseTokenSubject(tokenString, h.secret)
		if err != nil {
			logger.Debug("bearer token rejected", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), subject)))
	})
}

func issueToken(userID string, role model.Role, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := Claims{}
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
