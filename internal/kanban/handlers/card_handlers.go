package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/boardkit/boardkit/internal/common/logger"
	"github.com/boardkit/boardkit/internal/kanban/dto"
	"github.com/boardkit/boardkit/internal/kanban/models"
	"github.com/boardkit/boardkit/internal/kanban/service"
)

type CardHandlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewCardHandlers(svc *service.Service, log *logger.Logger) *CardHandlers {
	return &CardHandlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "card-handlers")),
	}
}

func RegisterCardRoutes(router *gin.Engine, svc *service.Service, log *logger.Logger) *CardHandlers {
	handlers := NewCardHandlers(svc, log)
	api := router.Group("/api/v1")
	api.GET("/boards/:id/cards", handlers.httpListCards)
	api.POST("/boards/:id/cards", handlers.httpCreateCard)
	api.GET("/cards/:id", handlers.httpGetCard)
	api.PATCH("/cards/:id", handlers.httpUpdateCard)
	api.DELETE("/cards/:id", handlers.httpDeleteCard)
	api.POST("/cards/:id/move", handlers.httpMoveCard)
	api.POST("/cards/:id/reorder", handlers.httpReorderCard)
	api.PUT("/columns/:id/cards/order", handlers.httpSetCardOrder)
	return handlers
}

func (h *CardHandlers) httpListCards(c *gin.Context) {
	cards, err := h.service.ListCards(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	resp := dto.ListCardsResponse{
		Cards: make([]dto.CardDTO, 0, len(cards)),
		Total: len(cards),
	}
	for _, card := range cards {
		resp.Cards = append(resp.Cards, dto.FromCard(card))
	}
	c.JSON(http.StatusOK, resp)
}

type httpCreateCardRequest struct {
	ColumnID    string          `json:"column_id"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Assignee    *string         `json:"assignee,omitempty"`
	DueDate     *string         `json:"due_date,omitempty"`
	Labels      []string        `json:"labels,omitempty"`
	Priority    models.Priority `json:"priority,omitempty"`
}

func (h *CardHandlers) httpCreateCard(c *gin.Context) {
	var body httpCreateCardRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	card, err := h.service.CreateCard(c.Request.Context(), models.CreateCardInput{
		BoardID:     c.Param("id"),
		ColumnID:    body.ColumnID,
		Title:       body.Title,
		Description: body.Description,
		Assignee:    body.Assignee,
		DueDate:     body.DueDate,
		Labels:      body.Labels,
		Priority:    body.Priority,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromCard(card))
}

func (h *CardHandlers) httpGetCard(c *gin.Context) {
	card, err := h.service.GetCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCard(card))
}

// httpUpdateCardRequest decodes the three-way optional fields once at the
// boundary: absent keeps, null clears, value sets.
type httpUpdateCardRequest struct {
	Title       *string                 `json:"title"`
	Description models.Optional[string] `json:"description"`
	Assignee    models.Optional[string] `json:"assignee"`
	DueDate     models.Optional[string] `json:"due_date"`
	Labels      *[]string               `json:"labels"`
	Priority    *models.Priority        `json:"priority"`
}

func (h *CardHandlers) httpUpdateCard(c *gin.Context) {
	var body httpUpdateCardRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	card, err := h.service.UpdateCard(c.Request.Context(), c.Param("id"), models.CardPatch{
		Title:       body.Title,
		Description: body.Description,
		Assignee:    body.Assignee,
		DueDate:     body.DueDate,
		Labels:      body.Labels,
		Priority:    body.Priority,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCard(card))
}

type httpMoveCardRequest struct {
	ToColumnID string `json:"to_column_id"`
	ToPosition int    `json:"to_position"`
}

func (h *CardHandlers) httpMoveCard(c *gin.Context) {
	var body httpMoveCardRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := h.service.MoveCard(c.Request.Context(), c.Param("id"), body.ToColumnID, body.ToPosition); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

type httpReorderCardRequest struct {
	ToPosition int `json:"to_position"`
}

func (h *CardHandlers) httpReorderCard(c *gin.Context) {
	var body httpReorderCardRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := h.service.ReorderCard(c.Request.Context(), c.Param("id"), body.ToPosition); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

type httpSetCardOrderRequest struct {
	CardIDs []string `json:"card_ids"`
}

func (h *CardHandlers) httpSetCardOrder(c *gin.Context) {
	var body httpSetCardOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := h.service.SetCardOrder(c.Request.Context(), c.Param("id"), body.CardIDs); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *CardHandlers) httpDeleteCard(c *gin.Context) {
	if err := h.service.DeleteCard(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
