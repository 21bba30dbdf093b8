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

type AccountService interface {
	CreateAccount(ctx context.Context, requester domain.Requester, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.AccountResponse], error)
	ListAccounts(ctx context.Context, requester domain.Requester) (commons.Response[[]models.AccountResponse], error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	collection := http.Handler(http.HandlerFunc(c.handleCollection))
	item := http.Handler(http.HandlerFunc(c.get))
	if authMiddleware != nil {
		collection = authMiddleware(collection)
		item = authMiddleware(item)
	}

	mux.Handle("/accounts", collection)
	mux.Handle("GET /accounts/{id}", item)
}

func (c *AccountController) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.create(w, r)
	case http.MethodGet:
		c.list(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.AccountResponse]("method not allowed"))
	}
}

func (c *AccountController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateAccount(r.Context(), requester, req)
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

func (c *AccountController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.GetAccount(r.Context(), requester, r.PathValue("id"))
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

func (c *AccountController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.ListAccounts(r.Context(), requester)
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
