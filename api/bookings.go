package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/Domenick1991/fieldbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type updateStatusRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

type bookingResponse struct {
	ID            string              `json:"id"`
	FieldID       string              `json:"field_id"`
	FieldName     string              `json:"field_name,omitempty"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone,omitempty"`
	Date          string              `json:"date"`
	StartTime     string              `json:"start_time"`
	EndTime       string              `json:"end_time"`
	Duration      int                 `json:"duration"`
	TotalPrice    int64               `json:"total_price"`
	Status        string              `json:"status"`
	StatusLabel   string              `json:"status_label"`
	Actions       []domain.Transition `json:"actions"`
	Notes         string              `json:"notes,omitempty"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
}

// availabilityResponse is public, so a conflict only reveals the taken range.
type availabilityResponse struct {
	Available bool          `json:"available"`
	Conflict  *conflictSpan `json:"conflict,omitempty"`
}

type conflictSpan struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) RegisterPublic(router *gin.RouterGroup) {
	router.POST("/bookings", h.createPublic)
	router.GET("/fields/:id/booked-hours", h.bookedHours)
	router.GET("/fields/:id/slots", h.slotGrid)
	router.GET("/fields/:id/availability", h.availability)
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.createStaff)
	router.GET("/today", h.today)
	router.GET("/stats", h.stats)
	router.GET("/:id", h.get)
	router.PATCH("/:id/status", h.updateStatus)
	router.POST("/:id/cancel", h.cancel)
}

func (h *BookingHandler) createPublic(c *gin.Context) {
	h.create(c, h.service.CreatePublicBooking)
}

func (h *BookingHandler) createStaff(c *gin.Context) {
	h.create(c, h.service.CreateStaffBooking)
}

func (h *BookingHandler) create(c *gin.Context, admit func(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error)) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := admit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (h *BookingHandler) list(c *gin.Context) {
	day, err := optionalDay(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}
	filter := domain.BookingFilter{
		Day:     day,
		FieldID: c.Query("field_id"),
		Status:  domain.BookingStatus(c.Query("status")),
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(list))
}

func (h *BookingHandler) today(c *gin.Context) {
	list, err := h.service.Today(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponses(list))
}

func (h *BookingHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	b, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) bookedHours(c *gin.Context) {
	day, err := requiredDay(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}
	hours, err := h.service.BookedHours(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.String(), "booked_hours": hours})
}

func (h *BookingHandler) slotGrid(c *gin.Context) {
	day, err := requiredDay(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}
	slots, err := h.service.SlotGrid(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.String(), "slots": slots})
}

func (h *BookingHandler) availability(c *gin.Context) {
	day, err := requiredDay(c, "date")
	if err != nil {
		respondError(c, err)
		return
	}
	slot, err := calendar.ParseRange(c.Query("start_time"), c.Query("end_time"))
	if err != nil {
		respondError(c, domain.ValidationError{Field: "time", Msg: err.Error(), Err: err})
		return
	}

	a, err := h.service.CheckAvailability(c.Request.Context(), c.Param("id"), day, slot)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := availabilityResponse{Available: a.Available}
	if a.Conflict != nil {
		resp.Conflict = &conflictSpan{
			StartTime: a.Conflict.Slot.Start.String(),
			EndTime:   a.Conflict.Slot.End.String(),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		FieldID:       b.FieldID,
		FieldName:     b.FieldName,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		Date:          b.Day.String(),
		StartTime:     b.Slot.Start.String(),
		EndTime:       b.Slot.End.String(),
		Duration:      b.Duration,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		StatusLabel:   b.Status.Label(),
		Actions:       domain.NextActions(b.Status),
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBookingResponses(list []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(list))
	for i := range list {
		out = append(out, toBookingResponse(&list[i]))
	}
	return out
}
