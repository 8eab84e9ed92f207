package api

import (
	"net/http"

	"github.com/Domenick1991/fieldbooking/internal/service/timeslots"
	"github.com/gin-gonic/gin"
)

type TimeSlotHandler struct {
	service timeslots.TimeSlotUseCase
}

func NewTimeSlotHandler(service timeslots.TimeSlotUseCase) *TimeSlotHandler {
	return &TimeSlotHandler{service: service}
}

func (h *TimeSlotHandler) RegisterPublic(router *gin.RouterGroup) {
	router.GET("/time-slots", h.listActive)
}

func (h *TimeSlotHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.listAll)
}

// RegisterOwner mounts the mutations; the group must be restricted to OWNER.
func (h *TimeSlotHandler) RegisterOwner(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.PATCH("/:id/toggle", h.toggle)
	router.DELETE("/:id", h.delete)
}

func (h *TimeSlotHandler) listActive(c *gin.Context) {
	list, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *TimeSlotHandler) listAll(c *gin.Context) {
	list, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *TimeSlotHandler) create(c *gin.Context) {
	var req timeslots.TimeSlotInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	slot, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

func (h *TimeSlotHandler) update(c *gin.Context) {
	var req timeslots.TimeSlotInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	slot, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *TimeSlotHandler) toggle(c *gin.Context) {
	slot, err := h.service.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *TimeSlotHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
