package api

import (
	"net/http"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/service/reports"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service reports.ReportUseCase
}

func NewReportHandler(service reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{service: service}
}

// Register mounts report routes; every route takes ?preset= or ?from=&to=.
func (h *ReportHandler) Register(router *gin.RouterGroup) {
	router.GET("/summary", h.summary)
	router.GET("/daily-income", h.dailyIncome)
	router.GET("/income-by-field", h.incomeByField)
	router.GET("/expenses-by-category", h.expensesByCategory)
}

func (h *ReportHandler) period(c *gin.Context) (calendar.Period, bool) {
	p, err := h.service.Period(c.Query("preset"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return calendar.Period{}, false
	}
	return p, true
}

func (h *ReportHandler) summary(c *gin.Context) {
	p, ok := h.period(c)
	if !ok {
		return
	}
	s, err := h.service.Summary(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": p.From.String(), "to": p.To.String(), "summary": s})
}

func (h *ReportHandler) dailyIncome(c *gin.Context) {
	p, ok := h.period(c)
	if !ok {
		return
	}
	days, err := h.service.DailyIncome(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (h *ReportHandler) incomeByField(c *gin.Context) {
	p, ok := h.period(c)
	if !ok {
		return
	}
	list, err := h.service.IncomeByField(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ReportHandler) expensesByCategory(c *gin.Context) {
	p, ok := h.period(c)
	if !ok {
		return
	}
	list, err := h.service.ExpensesByCategory(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
