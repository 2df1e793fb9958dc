package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/boardkit/boardkit/internal/common/logger"
	"github.com/boardkit/boardkit/internal/kanban/dto"
	"github.com/boardkit/boardkit/internal/kanban/service"
)

type ColumnHandlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewColumnHandlers(svc *service.Service, log *logger.Logger) *ColumnHandlers {
	return &ColumnHandlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "column-handlers")),
	}
}

func RegisterColumnRoutes(router *gin.Engine, svc *service.Service, log *logger.Logger) *ColumnHandlers {
	handlers := NewColumnHandlers(svc, log)
	api := router.Group("/api/v1")
	api.GET("/boards/:id/columns", handlers.httpListColumns)
	api.POST("/boards/:id/columns", handlers.httpCreateColumn)
	api.PUT("/boards/:id/columns/order", handlers.httpSetColumnOrder)
	api.GET("/columns/:id", handlers.httpGetColumn)
	api.PATCH("/columns/:id", handlers.httpUpdateColumn)
	api.DELETE("/columns/:id", handlers.httpDeleteColumn)
	return handlers
}

func (h *ColumnHandlers) httpListColumns(c *gin.Context) {
	columns, err := h.service.ListColumns(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	resp := dto.ListColumnsResponse{
		Columns: make([]dto.ColumnDTO, 0, len(columns)),
		Total:   len(columns),
	}
	for _, column := range columns {
		resp.Columns = append(resp.Columns, dto.FromColumn(column))
	}
	c.JSON(http.StatusOK, resp)
}

type httpCreateColumnRequest struct {
	Name     string `json:"name"`
	Position *int   `json:"position,omitempty"`
}

func (h *ColumnHandlers) httpCreateColumn(c *gin.Context) {
	var body httpCreateColumnRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	column, err := h.service.CreateColumn(c.Request.Context(), c.Param("id"), body.Name, body.Position)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromColumn(column))
}

func (h *ColumnHandlers) httpGetColumn(c *gin.Context) {
	column, err := h.service.GetColumn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromColumn(column))
}

type httpUpdateColumnRequest struct {
	Name     *string `json:"name"`
	Position *int    `json:"position"`
}

// httpUpdateColumn dispatches on the present fields: a name renames, a
// position reorders; both may appear in one request.
func (h *ColumnHandlers) httpUpdateColumn(c *gin.Context) {
	var body httpUpdateColumnRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if body.Name == nil && body.Position == nil {
		respondBadRequest(c, "name or position is required")
		return
	}

	ctx := c.Request.Context()
	columnID := c.Param("id")

	if body.Name != nil {
		if _, err := h.service.RenameColumn(ctx, columnID, *body.Name); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	if body.Position != nil {
		if err := h.service.ReorderColumn(ctx, columnID, *body.Position); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	column, err := h.service.GetColumn(ctx, columnID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromColumn(column))
}

type httpSetColumnOrderRequest struct {
	ColumnIDs []string `json:"column_ids"`
}

func (h *ColumnHandlers) httpSetColumnOrder(c *gin.Context) {
	var body httpSetColumnOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := h.service.SetColumnOrder(c.Request.Context(), c.Param("id"), body.ColumnIDs); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *ColumnHandlers) httpDeleteColumn(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))
	if err := h.service.DeleteColumn(c.Request.Context(), c.Param("id"), force); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
