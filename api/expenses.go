package api

import (
	"net/http"

	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/service/expenses"
	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	service expenses.ExpenseUseCase
}

type expenseResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

func NewExpenseHandler(service expenses.ExpenseUseCase) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

func (h *ExpenseHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/categories", h.categories)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *ExpenseHandler) create(c *gin.Context) {
	var req expenses.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toExpenseResponse(e))
}

func (h *ExpenseHandler) update(c *gin.Context) {
	var req expenses.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseResponse(e))
}

func (h *ExpenseHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ExpenseHandler) get(c *gin.Context) {
	e, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toExpenseResponse(e))
}

func (h *ExpenseHandler) list(c *gin.Context) {
	from, err := optionalDay(c, "from")
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := optionalDay(c, "to")
	if err != nil {
		respondError(c, err)
		return
	}

	list, err := h.service.List(c.Request.Context(), domain.ExpenseFilter{From: from, To: to, Category: c.Query("category")})
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]expenseResponse, 0, len(list))
	for i := range list {
		out = append(out, toExpenseResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ExpenseHandler) categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func toExpenseResponse(e *domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Date:        e.Day.String(),
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
	}
}
