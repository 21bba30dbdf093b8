package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/orgbook/orgbook-api/src/internal/adapter/http/models"
	"github.com/orgbook/orgbook-api/src/internal/commons"
	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
)

type LedgerService interface {
	CreateTransaction(ctx context.Context, requester domain.Requester, req models.CreateTransactionRequest) (commons.Response[models.TransactionResponse], error)
	GetTransaction(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.TransactionResponse], error)
	ListTransactions(ctx context.Context, requester domain.Requester, query models.ListTransactionsQuery) (commons.Response[models.ListTransactionsResponse], error)
	UpdateTransaction(ctx context.Context, requester domain.Requester, id string, req models.UpdateTransactionRequest) (commons.Response[models.TransactionResponse], error)
	DeleteTransaction(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.DeleteTransactionResponse], error)
}

type TransactionController struct {
	service LedgerService
}

func NewTransactionController(service LedgerService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	collection := http.Handler(http.HandlerFunc(c.handleCollection))
	item := http.Handler(http.HandlerFunc(c.handleItem))
	if authMiddleware != nil {
		collection = authMiddleware(collection)
		item = authMiddleware(item)
	}

	mux.Handle("/transactions", collection)
	mux.Handle("/transactions/{id}", item)
}

func (c *TransactionController) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.create(w, r)
	case http.MethodGet:
		c.list(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.TransactionResponse]("method not allowed"))
	}
}

func (c *TransactionController) handleItem(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.get(w, r)
	case http.MethodPatch:
		c.update(w, r)
	case http.MethodDelete:
		c.delete(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.TransactionResponse]("method not allowed"))
	}
}

func (c *TransactionController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateTransaction(r.Context(), requester, req)
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

func (c *TransactionController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.GetTransaction(r.Context(), requester, r.PathValue("id"))
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

func (c *TransactionController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	query := parseListQuery(r)
	response, err := c.service.ListTransactions(r.Context(), requester, query)
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

func (c *TransactionController) update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	var req models.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.UpdateTransaction(r.Context(), requester, r.PathValue("id"), req)
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

func (c *TransactionController) delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.DeleteTransaction(r.Context(), requester, r.PathValue("id"))
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

func parseListQuery(r *http.Request) models.ListTransactionsQuery {
	values := r.URL.Query()
	query := models.ListTransactionsQuery{
		AccountID:       values.Get("accountId"),
		OrganizationID:  values.Get("organizationId"),
		TransactionType: values.Get("type"),
		StartDate:       values.Get("startDate"),
		EndDate:         values.Get("endDate"),
		MinAmount:       values.Get("minAmount"),
		MaxAmount:       values.Get("maxAmount"),
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		query.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil {
		query.Limit = limit
	}
	return query
}
