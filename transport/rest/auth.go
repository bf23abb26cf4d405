package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gridclash/gridclash-backend/internal/apperror"
	"github.com/gridclash/gridclash-backend/internal/entity"
)

type authService interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) error
	GenerateToken(email string) (string, error)
}

type userRepo interface {
	Save(ctx context.Context, user *entity.User) error
	Find(ctx context.Context, email string) (*entity.User, error)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type AuthHandler struct {
	logger *slog.Logger

	auth  authService
	users userRepo
}

func NewAuthHandler(logger *slog.Logger, auth authService, users userRepo) *AuthHandler {
	return &AuthHandler{
		logger: logger,

		auth:  auth,
		users: users,
	}
}

func (that *AuthHandler) Register(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "Register")

	creds, ok := decodeCredentials(writer, req)
	if !ok {
		return
	}

	hash, err := that.auth.HashPassword(creds.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user := &entity.User{Email: creds.Email, PasswordHash: hash}

	err = that.users.Save(req.Context(), user)
	if errors.Is(err, apperror.ErrEmailTaken) {
		http.Error(writer, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		log.Error("failed to save user", "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.issueToken(writer, creds.Email, http.StatusCreated)
}

func (that *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "Login")

	creds, ok := decodeCredentials(writer, req)
	if !ok {
		return
	}

	user, err := that.users.Find(req.Context(), creds.Email)
	if errors.Is(err, apperror.ErrNotFound) {
		http.Error(writer, apperror.ErrInvalidCredential.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Error("failed to find user", "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err = that.auth.CheckPassword(user.PasswordHash, creds.Password); err != nil {
		http.Error(writer, apperror.ErrInvalidCredential.Error(), http.StatusUnauthorized)
		return
	}

	that.issueToken(writer, creds.Email, http.StatusOK)
}

func (that *AuthHandler) issueToken(writer http.ResponseWriter, email string, status int) {
	log := that.logger.With("method", "issueToken")

	token, err := that.auth.GenerateToken(email)
	if err != nil {
		log.Error("failed to generate token", "error", err)
		http.Error(writer, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if err = json.NewEncoder(writer).Encode(tokenResponse{Token: token}); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func decodeCredentials(writer http.ResponseWriter, req *http.Request) (credentials, bool) {
	var creds credentials
	if err := json.NewDecoder(req.Body).Decode(&creds); err != nil {
		http.Error(writer, "invalid request body", http.StatusBadRequest)
		return creds, false
	}

	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		http.Error(writer, "email and password are required", http.StatusBadRequest)
		return creds, false
	}

	return creds, true
}
