package lead

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"imobcrm/internal/pkg/response"
	"imobcrm/internal/pkg/validator"
)

// Handler handles lead HTTP requests
type Handler struct {
	service *Service
	catalog *Catalog
}

// NewHandler creates lead handler
func NewHandler(service *Service, catalog *Catalog) *Handler {
	return &Handler{
		service: service,
		catalog: catalog,
	}
}

// SubmitLead handles POST /api/v1/leads/submit (public)
// @Summary Submit a lead from a public inquiry
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body CreateLeadRequest true "Lead data"
// @Success 201 {object} response.Response{data=Lead}
// @Failure 400 {object} response.Response
// @Router /leads/submit [post]
func (h *Handler) SubmitLead(c *gin.Context) {
	h.createLead(c, nil)
}

// CreateLead handles POST /api/v1/leads
// @Summary Create lead
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLeadRequest true "Lead data"
// @Success 201 {object} response.Response{data=Lead}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /leads [post]
func (h *Handler) CreateLead(c *gin.Context) {
	h.createLead(c, OperatorFromContext(c))
}

func (h *Handler) createLead(c *gin.Context, op *Operator) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	l, err := h.service.CreateLead(c.Request.Context(), &req, op)
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, l)
}

// ListLeads handles GET /api/v1/leads
// @Summary List leads
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param status query string false "Pipeline status"
// @Param source query string false "Acquisition channel"
// @Param assignedTo query int false "Assigned operator"
// @Param q query string false "Search in name, email and phone"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param order query string false "asc or desc by creation" default(desc)
// @Success 200 {object} response.Response{data=LeadListResponse}
// @Failure 400 {object} response.Response
// @Router /leads [get]
func (h *Handler) ListLeads(c *gin.Context) {
	f, ok := ParseListFilter(c)
	if !ok {
		return
	}

	result, err := h.service.ListLeads(c.Request.Context(), f)
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetEnums handles GET /api/v1/leads/enums (public)
// @Summary Pipeline statuses, sources and interest types with labels
// @Tags Leads
// @Produce json
// @Success 200 {object} response.Response{data=Catalog}
// @Router /leads/enums [get]
func (h *Handler) GetEnums(c *gin.Context) {
	response.Success(c, http.StatusOK, h.catalog)
}

// GetLead handles GET /api/v1/leads/:id
// @Summary Get lead by ID
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response{data=Lead}
// @Failure 404 {object} response.Response
// @Router /leads/{id} [get]
func (h *Handler) GetLead(c *gin.Context) {
	id, ok := ParseLeadID(c)
	if !ok {
		return
	}

	l, err := h.service.GetLead(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

// UpdateLead handles PATCH /api/v1/leads/:id
// @Summary Partially update a lead
// @Description Status changes require an authenticated operator.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body UpdateLeadRequest true "Fields to change"
// @Success 200 {object} response.Response{data=Lead}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /leads/{id} [patch]
func (h *Handler) UpdateLead(c *gin.Context) {
	id, ok := ParseLeadID(c)
	if !ok {
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	l, err := h.service.UpdateLead(c.Request.Context(), id, &req, OperatorFromContext(c))
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, l)
}

// DeleteLead handles DELETE /api/v1/leads/:id
// @Summary Delete a lead with its activities and visits
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /leads/{id} [delete]
func (h *Handler) DeleteLead(c *gin.Context) {
	id, ok := ParseLeadID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteLead(c.Request.Context(), id, OperatorFromContext(c)); err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true, "id": id})
}

// ListActivities handles GET /api/v1/leads/:id/activities
// @Summary Audit trail of a lead, newest first
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} response.Response{data=[]activity.Activity}
// @Failure 404 {object} response.Response
// @Router /leads/{id}/activities [get]
func (h *Handler) ListActivities(c *gin.Context) {
	id, ok := ParseLeadID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.service.ListActivities(c.Request.Context(), id, limit)
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"activities": items})
}

// ScheduleVisit handles POST /api/v1/leads/:id/visits
// @Summary Book a visit; moves the lead to VISITA_AGENDADA
// @Tags Visits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body ScheduleVisitRequest true "Visit"
// @Success 201 {object} response.Response{data=VisitResult}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /leads/{id}/visits [post]
func (h *Handler) ScheduleVisit(c *gin.Context) {
	id, ok := ParseLeadID(c)
	if !ok {
		return
	}

	var req ScheduleVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	result, err := h.service.ScheduleVisit(c.Request.Context(), id, &req, OperatorFromContext(c))
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// ListVisits handles GET /api/v1/leads/:id/visits
// @Summary Visits of a lead
// @Tags Visits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Response{data=[]visit.Visit}
// @Router /leads/{id}/visits [get]
func (h *Handler) ListVisits(c *gin.Context) {
	id, ok := ParseLeadID(c)
	if !ok {
		return
	}

	items, err := h.service.ListVisits(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"visits": items})
}

// InternalScheduleVisit handles POST /api/v1/internal/visits
// @Summary Visit scheduler callback
// @Tags Internal
// @Accept json
// @Produce json
// @Param request body InternalVisitRequest true "Visit and acting operator"
// @Success 201 {object} response.Response{data=VisitResult}
// @Router /internal/visits [post]
func (h *Handler) InternalScheduleVisit(c *gin.Context) {
	var req InternalVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	op := &Operator{ID: req.OperatorID, Name: req.OperatorName}
	result, err := h.service.ScheduleVisit(c.Request.Context(), req.LeadID, &ScheduleVisitRequest{
		ScheduledAt: req.ScheduledAt,
		PropertyID:  req.PropertyID,
		Notes:       req.Notes,
	}, op)
	if err != nil {
		WriteError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// OperatorFromContext returns the operator set by the auth middleware, or
// nil for anonymous requests.
func OperatorFromContext(c *gin.Context) *Operator {
	userID := c.GetInt64("user_id")
	if userID <= 0 {
		return nil
	}
	return &Operator{
		ID:   userID,
		Name: c.GetString("user_name"),
		Role: c.GetString("role"),
	}
}

// ParseLeadID reads the :id path parameter and writes a 400 when invalid.
func ParseLeadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return uuid.Nil, false
	}
	return id, true
}

// ParseListFilter reads list query parameters and writes a 400 when invalid.
func ParseListFilter(c *gin.Context) (ListFilter, bool) {
	f := ListFilter{
		Status: Status(c.Query("status")),
		Source: Source(c.Query("source")),
		Search: c.Query("q"),
		Order:  c.Query("order"),
	}

	ints := []struct {
		name string
		dst  *int
	}{{"page", &f.Page}, {"limit", &f.Limit}}
	for _, p := range ints {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_QUERY", p.name+" must be an integer")
			return f, false
		}
		*p.dst = n
	}

	if raw := c.Query("assignedTo"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "assignedTo must be an integer")
			return f, false
		}
		f.AssignedTo = &id
	}
	return f, true
}

// WriteError maps engine errors to responses.
func WriteError(c *gin.Context, err error) {
	var verr *ValidationError
	var perr *PersistenceError

	switch {
	case errors.Is(err, ErrLeadNotFound):
		response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Operator authentication required")
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error(), map[string]string{
			verr.Field: verr.Message,
		})
	case errors.As(err, &perr):
		_ = c.Error(err)
		response.ErrorWithDetails(c, http.StatusInternalServerError, "PERSISTENCE_ERROR", "Could not save changes", gin.H{
			"retryable": perr.Retryable,
		})
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
