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

type ActivityService interface {
	CreateActivity(ctx context.Context, requester domain.Requester, req models.CreateActivityRequest) (commons.Response[models.ActivityResponse], error)
	GetActivity(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.ActivityResponse], error)
	ListActivities(ctx context.Context, requester domain.Requester, organizationID string) (commons.Response[[]models.ActivityResponse], error)
	UpdateActivity(ctx context.Context, requester domain.Requester, id string, req models.UpdateActivityRequest) (commons.Response[models.ActivityResponse], error)
	DeleteActivity(ctx context.Context, requester domain.Requester, id string) (commons.Response[struct{}], error)
}

type ActivityController struct {
	service ActivityService
}

func NewActivityController(service ActivityService) *ActivityController {
	return &ActivityController{service: service}
}

func (c *ActivityController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	collection := http.Handler(http.HandlerFunc(c.handleCollection))
	item := http.Handler(http.HandlerFunc(c.handleItem))
	if authMiddleware != nil {
		collection = authMiddleware(collection)
		item = authMiddleware(item)
	}

	mux.Handle("/activities", collection)
	mux.Handle("/activities/{id}", item)
}

func (c *ActivityController) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.create(w, r)
	case http.MethodGet:
		c.list(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.ActivityResponse]("method not allowed"))
	}
}

func (c *ActivityController) handleItem(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.get(w, r)
	case http.MethodPatch:
		c.update(w, r)
	case http.MethodDelete:
		c.delete(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.ActivityResponse]("method not allowed"))
	}
}

func (c *ActivityController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ActivityResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateActivity(r.Context(), requester, req)
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

func (c *ActivityController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.GetActivity(r.Context(), requester, r.PathValue("id"))
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

func (c *ActivityController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.ListActivities(r.Context(), requester, r.URL.Query().Get("organizationId"))
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

func (c *ActivityController) update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	var req models.UpdateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ActivityResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.UpdateActivity(r.Context(), requester, r.PathValue("id"), req)
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

func (c *ActivityController) delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.DeleteActivity(r.Context(), requester, r.PathValue("id"))
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
