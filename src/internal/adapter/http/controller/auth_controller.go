package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/orgbook/orgbook-api/src/internal/adapter/http/models"
	"github.com/orgbook/orgbook-api/src/internal/commons"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
)

type UserService interface {
	Register(ctx context.Context, req models.RegisterUserRequest) (commons.Response[models.UserResponse], error)
	Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error)
	GetUser(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.UserResponse], error)
}

// AuthController is the only surface registered without the auth middleware;
// register and login have to be reachable before a token exists.
type AuthController struct {
	service UserService
}

func NewAuthController(service UserService) *AuthController {
	return &AuthController{service: service}
}

func (c *AuthController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("POST /auth/register", http.HandlerFunc(c.register))
	mux.Handle("POST /auth/login", http.HandlerFunc(c.login))

	profile := http.Handler(http.HandlerFunc(c.getUser))
	if authMiddleware != nil {
		profile = authMiddleware(profile)
	}
	mux.Handle("GET /users/{id}", profile)
}

func (c *AuthController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.UserResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Register(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusFromError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LoginResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Login(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusFromError(err)
		if response.Message == "Invalid credentials" {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AuthController) getUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.GetUser(r.Context(), requester, r.PathValue("id"))
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusFromError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
