package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/middleware"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct {
	svc      service.OrderService
	receipts service.ReceiptService
}

func NewOrdersHandler(svc service.OrderService, receipts service.ReceiptService) *OrdersHandler {
	return &OrdersHandler{svc: svc, receipts: receipts}
}

// Create godoc
// @Summary      Criar pedido
// @Description  Valida todos os itens, congela precos atuais e atribui numero sequencial.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateOrderRequest true "Itens do pedido"
// @Success      201  {object} dto.OrderResponse
// @Failure      400  {object} apierror.Error
// @Router       /v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "PENDING | PREPARING | READY | DELIVERED | CANCELLED | all"
// @Param        date   query string false "Data YYYY-MM-DD"
// @Param        page   query int    false "Pagina (default 1)"
// @Param        limit  query int    false "Registros por pagina (default 50)"
// @Success      200 {object} dto.OrderListResponse
// @Router       /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewValidation(err.Error(), nil))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Buscar pedido por ID
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID do pedido"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.Error
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Atualizar pedido
// @Description  Substitui os itens quando informados, reprecificando pelos precos atuais.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID do pedido"
// @Param        body body dto.UpdateOrderRequest true "Campos a atualizar"
// @Success      200  {object} dto.OrderResponse
// @Failure      404  {object} apierror.Error
// @Router       /v1/orders/{id} [put]
func (h *OrdersHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Alterar status do pedido
// @Description  Aceita qualquer status valido; a transicao e livre e cancelar novamente e idempotente.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID do pedido"
// @Param        body body dto.UpdateStatusRequest true "Novo status"
// @Success      200  {object} dto.OrderResponse
// @Failure      400  {object} apierror.Error
// @Router       /v1/orders/{id}/status [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Remover pedido
// @Description  Remove o pedido, seus itens e comentarios. Requer ADMIN ou MANAGER.
// @Tags         orders
// @Security     BearerAuth
// @Param        id path string true "UUID do pedido"
// @Success      204
// @Failure      404 {object} apierror.Error
// @Router       /v1/orders/{id} [delete]
func (h *OrdersHandler) Delete(c *gin.Context) {
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

// ReceiptPDF godoc
// @Summary      Baixar comprovante em PDF
// @Description  Gera o comprovante do pedido em formato de cupom e retorna o arquivo.
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID do pedido"
// @Success      200 {file} file
// @Failure      404 {object} apierror.Error
// @Router       /v1/orders/{id}/receipt [get]
func (h *OrdersHandler) ReceiptPDF(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	path, err := h.receipts.GeneratePDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

// EmailReceipt godoc
// @Summary      Enviar comprovante por email
// @Description  Gera o PDF e enfileira o envio assincrono; o worker processa em segundo plano.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID do pedido"
// @Param        body body dto.EmailReceiptRequest true "Destinatario"
// @Success      202  {object} map[string]string
// @Failure      404  {object} apierror.Error
// @Router       /v1/orders/{id}/receipt/email [post]
func (h *OrdersHandler) EmailReceipt(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}
	var req dto.EmailReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.receipts.EmailReceipt(c.Request.Context(), id, req.To); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"detail": fmt.Sprintf("Comprovante enfileirado para %s", req.To)})
}
