package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/service/payments"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service payments.PaymentUseCase
}

type transactionResponse struct {
	ID            string  `json:"id"`
	BookingID     string  `json:"booking_id"`
	Amount        int64   `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
	PaidAt        *string `json:"paid_at"`
	Notes         string  `json:"notes,omitempty"`
	FieldName     string  `json:"field_name,omitempty"`
	CustomerName  string  `json:"customer_name,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func NewPaymentHandler(service payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/today-income", h.todayIncome)
	router.GET("/:id", h.get)
	router.PATCH("/:id/pay", h.markPaid)
}

func (h *PaymentHandler) create(c *gin.Context) {
	var req payments.CreatePaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionResponse(t))
}

func (h *PaymentHandler) markPaid(c *gin.Context) {
	t, err := h.service.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(t))
}

func (h *PaymentHandler) get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(t))
}

func (h *PaymentHandler) list(c *gin.Context) {
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

	list, err := h.service.List(c.Request.Context(), payments.ListQuery{
		Status: domain.PaymentStatus(c.Query("status")),
		From:   from,
		To:     to,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]transactionResponse, 0, len(list))
	for i := range list {
		out = append(out, toTransactionResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) todayIncome(c *gin.Context) {
	total, err := h.service.TodayIncome(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:            t.ID,
		BookingID:     t.BookingID,
		Amount:        t.Amount,
		PaymentMethod: string(t.PaymentMethod),
		PaymentStatus: string(t.PaymentStatus),
		Notes:         t.Notes,
		FieldName:     t.FieldName,
		CustomerName:  t.CustomerName,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
	if t.PaidAt != nil {
		paid := t.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paid
	}
	return resp
}
