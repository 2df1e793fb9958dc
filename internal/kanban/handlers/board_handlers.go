// Package handlers exposes the kanban service over HTTP using gin.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/boardkit/boardkit/internal/common/logger"
	"github.com/boardkit/boardkit/internal/kanban/dto"
	"github.com/boardkit/boardkit/internal/kanban/service"
)

type BoardHandlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewBoardHandlers(svc *service.Service, log *logger.Logger) *BoardHandlers {
	return &BoardHandlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "board-handlers")),
	}
}

func RegisterBoardRoutes(router *gin.Engine, svc *service.Service, log *logger.Logger) *BoardHandlers {
	handlers := NewBoardHandlers(svc, log)
	api := router.Group("/api/v1")
	api.GET("/boards", handlers.httpListBoards)
	api.GET("/boards/:id", handlers.httpGetBoard)
	api.POST("/boards", handlers.httpCreateBoard)
	api.PATCH("/boards/:id", handlers.httpRenameBoard)
	api.DELETE("/boards/:id", handlers.httpDeleteBoard)
	return handlers
}

func (h *BoardHandlers) httpListBoards(c *gin.Context) {
	boards, err := h.service.ListBoards(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	resp := dto.ListBoardsResponse{
		Boards: make([]dto.BoardDTO, 0, len(boards)),
		Total:  len(boards),
	}
	for _, board := range boards {
		resp.Boards = append(resp.Boards, dto.FromBoard(board))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BoardHandlers) httpGetBoard(c *gin.Context) {
	board, err := h.service.GetBoard(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBoard(board))
}

type httpCreateBoardRequest struct {
	Name string `json:"name"`
}

func (h *BoardHandlers) httpCreateBoard(c *gin.Context) {
	var body httpCreateBoardRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	board, err := h.service.CreateBoard(c.Request.Context(), body.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromBoard(board))
}

type httpRenameBoardRequest struct {
	Name string `json:"name"`
}

func (h *BoardHandlers) httpRenameBoard(c *gin.Context) {
	var body httpRenameBoardRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	board, err := h.service.RenameBoard(c.Request.Context(), c.Param("id"), body.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBoard(board))
}

func (h *BoardHandlers) httpDeleteBoard(c *gin.Context) {
	if err := h.service.DeleteBoard(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
