package api

import (
	"net/http"

	"github.com/Domenick1991/fieldbooking/internal/service/fields"
	"github.com/gin-gonic/gin"
)

type FieldHandler struct {
	service fields.FieldUseCase
}

func NewFieldHandler(service fields.FieldUseCase) *FieldHandler {
	return &FieldHandler{service: service}
}

func (h *FieldHandler) RegisterPublic(router *gin.RouterGroup) {
	router.GET("/fields", h.listActive)
}

func (h *FieldHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.PATCH("/:id/toggle", h.toggle)
	router.DELETE("/:id", h.delete)
}

func (h *FieldHandler) listActive(c *gin.Context) {
	list, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FieldHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FieldHandler) get(c *gin.Context) {
	f, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FieldHandler) create(c *gin.Context) {
	var req fields.FieldInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	f, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *FieldHandler) update(c *gin.Context) {
	var req fields.FieldInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	f, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FieldHandler) toggle(c *gin.Context) {
	f, err := h.service.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FieldHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
