package kanban

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imobcrm/internal/domain/lead"
	"imobcrm/internal/pkg/response"
	"imobcrm/internal/pkg/validator"
)

// MoveCardRequest drops a card on the column of Status.
type MoveCardRequest struct {
	Status lead.Status `json:"status" validate:"required"`
}

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// GetBoard handles GET /api/v1/kanban
// @Summary Pipeline board
// @Tags Kanban
// @Produce json
// @Security BearerAuth
// @Param source query string false "Acquisition channel"
// @Param assignedTo query int false "Assigned operator"
// @Param q query string false "Search in name, email and phone"
// @Param limit query int false "Max cards" default(100)
// @Success 200 {object} response.Response{data=Board}
// @Router /kanban [get]
func (h *Handler) GetBoard(c *gin.Context) {
	f, ok := lead.ParseListFilter(c)
	if !ok {
		return
	}

	board, err := h.service.Board(c.Request.Context(), f)
	if err != nil {
		lead.WriteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, board)
}

// MoveCard handles PATCH /api/v1/kanban/cards/:id
// @Summary Move a card to another column
// @Tags Kanban
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Param request body MoveCardRequest true "Target column"
// @Success 200 {object} response.Response{data=Card}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /kanban/cards/{id} [patch]
func (h *Handler) MoveCard(c *gin.Context) {
	id, ok := lead.ParseLeadID(c)
	if !ok {
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", errs)
		return
	}

	card, err := h.service.Move(c.Request.Context(), id, req.Status, lead.OperatorFromContext(c))
	if err != nil {
		lead.WriteError(c, err)
		return
	}

	response.Success(c, http.StatusOK, card)
}

// Stream handles GET /api/v1/ws/kanban?token=JWT
//
// Browsers cannot set headers on websocket upgrades, so the token travels
// in the query string and is checked by QueryTokenAuth.
func (h *Handler) Stream(c *gin.Context) {
	userID := c.GetInt64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("kanban: websocket upgrade failed")
		return
	}

	logrus.WithField("user_id", userID).Debug("kanban: board connected")
	h.hub.ServeWS(conn, userID)
	logrus.WithField("user_id", userID).Debug("kanban: board disconnected")
}
