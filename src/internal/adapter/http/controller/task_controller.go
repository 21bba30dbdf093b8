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

type TaskService interface {
	CreateTask(ctx context.Context, requester domain.Requester, req models.CreateTaskRequest) (commons.Response[models.TaskResponse], error)
	GetTask(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.TaskResponse], error)
	ListTasks(ctx context.Context, requester domain.Requester, activityID string) (commons.Response[[]models.TaskResponse], error)
	UpdateTask(ctx context.Context, requester domain.Requester, id string, req models.UpdateTaskRequest) (commons.Response[models.TaskResponse], error)
	DeleteTask(ctx context.Context, requester domain.Requester, id string) (commons.Response[struct{}], error)
}

type TaskController struct {
	service TaskService
}

func NewTaskController(service TaskService) *TaskController {
	return &TaskController{service: service}
}

func (c *TaskController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	collection := http.Handler(http.HandlerFunc(c.handleCollection))
	item := http.Handler(http.HandlerFunc(c.handleItem))
	if authMiddleware != nil {
		collection = authMiddleware(collection)
		item = authMiddleware(item)
	}

	mux.Handle("/tasks", collection)
	mux.Handle("/tasks/{id}", item)
}

func (c *TaskController) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.create(w, r)
	case http.MethodGet:
		c.list(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.TaskResponse]("method not allowed"))
	}
}

func (c *TaskController) handleItem(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.get(w, r)
	case http.MethodPatch:
		c.update(w, r)
	case http.MethodDelete:
		c.delete(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.TaskResponse]("method not allowed"))
	}
}

func (c *TaskController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TaskResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateTask(r.Context(), requester, req)
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

func (c *TaskController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.GetTask(r.Context(), requester, r.PathValue("id"))
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

func (c *TaskController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.ListTasks(r.Context(), requester, r.URL.Query().Get("activityId"))
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

func (c *TaskController) update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TaskResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.UpdateTask(r.Context(), requester, r.PathValue("id"), req)
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

func (c *TaskController) delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.DeleteTask(r.Context(), requester, r.PathValue("id"))
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
