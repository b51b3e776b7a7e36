package handler

import (
	"net/http"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"
	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct{ svc service.StatsService }

func NewStatisticsHandler(svc service.StatsService) *StatisticsHandler {
	return &StatisticsHandler{svc: svc}
}

// Daily godoc
// @Summary      Serie diaria de vendas
// @Description  Serie densa por dia do intervalo; dias sem pedidos aparecem zerados.
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        startDate        query string false "Data inicial YYYY-MM-DD (default: 6 dias atras)"
// @Param        endDate          query string false "Data final YYYY-MM-DD (default: hoje)"
// @Param        includeCancelled query bool   false "Incluir pedidos cancelados"
// @Success      200 {array} dto.DailyStat
// @Failure      400 {object} apierror.Error
// @Router       /v1/orders/stats/daily [get]
func (h *StatisticsHandler) Daily(c *gin.Context) {
	var query dto.StatsRange
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewValidation(err.Error(), nil))
		return
	}
	resp, err := h.svc.Daily(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopProducts godoc
// @Summary      Produtos mais vendidos
// @Description  Ranking por quantidade vendida no intervalo, com desempate por ID.
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        startDate query string false "Data inicial YYYY-MM-DD"
// @Param        endDate   query string false "Data final YYYY-MM-DD"
// @Param        limit     query int    false "Tamanho do ranking (default 10)"
// @Success      200 {array} dto.ProductStat
// @Failure      400 {object} apierror.Error
// @Router       /v1/orders/stats/products [get]
func (h *StatisticsHandler) TopProducts(c *gin.Context) {
	var query dto.TopProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewValidation(err.Error(), nil))
		return
	}
	if err := validate.Struct(&query); err != nil {
		apiErr := apierror.NewValidation("Parametros invalidos", nil)
		c.JSON(apiErr.Status, apiErr)
		return
	}
	resp, err := h.svc.TopProducts(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard godoc
// @Summary      Painel consolidado
// @Description  Totais do periodo, tendencias contra o periodo anterior, formas de pagamento, ranking e serie diaria. Cacheado em Redis.
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        days query int false "Janela em dias (default 7)"
// @Success      200 {object} dto.DashboardResponse
// @Failure      400 {object} apierror.Error
// @Router       /v1/statistics/dashboard [get]
func (h *StatisticsHandler) Dashboard(c *gin.Context) {
	var query dto.DashboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewValidation(err.Error(), nil))
		return
	}
	if err := validate.Struct(&query); err != nil {
		apiErr := apierror.NewValidation("Parametros invalidos", nil)
		c.JSON(apiErr.Status, apiErr)
		return
	}
	resp, err := h.svc.Dashboard(c.Request.Context(), query.Days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
