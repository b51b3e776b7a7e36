package handler

import (
	"net/http"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/middleware"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CommentsHandler struct{ svc service.CommentService }

func NewCommentsHandler(svc service.CommentService) *CommentsHandler {
	return &CommentsHandler{svc: svc}
}

// Create godoc
// @Summary      Comentar pedido
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID do pedido"
// @Param        body body dto.CreateCommentRequest true "Comentario"
// @Success      201  {object} dto.CommentResponse
// @Failure      404  {object} apierror.Error
// @Router       /v1/orders/{id}/comments [post]
func (h *CommentsHandler) Create(c *gin.Context) {
	orderID, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), orderID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListByOrder godoc
// @Summary      Listar comentarios do pedido
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID do pedido"
// @Success      200 {array} dto.CommentResponse
// @Failure      404 {object} apierror.Error
// @Router       /v1/orders/{id}/comments [get]
func (h *CommentsHandler) ListByOrder(c *gin.Context) {
	orderID, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Remover comentario
// @Tags         comments
// @Security     BearerAuth
// @Param        id path string true "UUID do comentario"
// @Success      204
// @Failure      404 {object} apierror.Error
// @Router       /v1/comments/{id} [delete]
func (h *CommentsHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
