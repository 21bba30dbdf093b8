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

type OrganizationService interface {
	CreateOrganization(ctx context.Context, requester domain.Requester, req models.CreateOrganizationRequest) (commons.Response[models.OrganizationResponse], error)
	GetOrganization(ctx context.Context, requester domain.Requester, id string) (commons.Response[models.OrganizationResponse], error)
	ListOrganizations(ctx context.Context, requester domain.Requester) (commons.Response[[]models.OrganizationResponse], error)
	UpdateOrganization(ctx context.Context, requester domain.Requester, id string, req models.UpdateOrganizationRequest) (commons.Response[models.OrganizationResponse], error)
	DeleteOrganization(ctx context.Context, requester domain.Requester, id string) (commons.Response[struct{}], error)
	AddMember(ctx context.Context, requester domain.Requester, organizationID string, req models.AddMemberRequest) (commons.Response[models.MembershipResponse], error)
	RemoveMember(ctx context.Context, requester domain.Requester, organizationID string, userID string) (commons.Response[struct{}], error)
}

type OrganizationController struct {
	service OrganizationService
}

func NewOrganizationController(service OrganizationService) *OrganizationController {
	return &OrganizationController{service: service}
}

func (c *OrganizationController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/organizations", wrap(c.handleCollection))
	mux.Handle("/organizations/{id}", wrap(c.handleItem))
	mux.Handle("POST /organizations/{id}/members", wrap(c.addMember))
	mux.Handle("DELETE /organizations/{id}/members/{userId}", wrap(c.removeMember))
}

func (c *OrganizationController) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.create(w, r)
	case http.MethodGet:
		c.list(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.OrganizationResponse]("method not allowed"))
	}
}

func (c *OrganizationController) handleItem(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.get(w, r)
	case http.MethodPatch:
		c.update(w, r)
	case http.MethodDelete:
		c.delete(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.OrganizationResponse]("method not allowed"))
	}
}

func (c *OrganizationController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.OrganizationResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateOrganization(r.Context(), requester, req)
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

func (c *OrganizationController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.GetOrganization(r.Context(), requester, r.PathValue("id"))
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

func (c *OrganizationController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.ListOrganizations(r.Context(), requester)
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

func (c *OrganizationController) update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	var req models.UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.OrganizationResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.UpdateOrganization(r.Context(), requester, r.PathValue("id"), req)
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

func (c *OrganizationController) delete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.DeleteOrganization(r.Context(), requester, r.PathValue("id"))
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

func (c *OrganizationController) addMember(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	var req models.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.MembershipResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.AddMember(r.Context(), requester, r.PathValue("id"), req)
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

func (c *OrganizationController) removeMember(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	requester, ok := requesterFrom(w, r)
	if !ok {
		return
	}

	response, err := c.service.RemoveMember(r.Context(), requester, r.PathValue("id"), r.PathValue("userId"))
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
