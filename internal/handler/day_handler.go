package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusworks/routine-api/internal/models"
	"github.com/campusworks/routine-api/internal/service"
	appErrors "github.com/campusworks/routine-api/pkg/errors"
	"github.com/campusworks/routine-api/pkg/response"
)

// DayHandler exposes teaching day endpoints.
type DayHandler struct {
	service *service.DayService
}

// NewDayHandler constructs a day handler.
func NewDayHandler(svc *service.DayService) *DayHandler {
	return &DayHandler{service: svc}
}

// List godoc
// @Summary List teaching days
// @Tags Days
// @Produce json
// @Param name query string false "Filter by name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /days [get]
func (h *DayHandler) List(c *gin.Context) {
	var filter models.DayFilter
	filter.Name = c.Query("name")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	days, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days, pagination)
}

// Get godoc
// @Summary Get teaching day
// @Tags Days
// @Produce json
// @Param id path string true "Day ID"
// @Success 200 {object} response.Envelope
// @Router /days/{id} [get]
func (h *DayHandler) Get(c *gin.Context) {
	day, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, day, nil)
}

// Create godoc
// @Summary Add teaching day
// @Tags Days
// @Accept json
// @Produce json
// @Param payload body service.CreateDayRequest true "Day payload"
// @Success 201 {object} response.Envelope
// @Router /days [post]
func (h *DayHandler) Create(c *gin.Context) {
	var req service.CreateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	day, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, day)
}

// Update godoc
// @Summary Update teaching day
// @Tags Days
// @Accept json
// @Produce json
// @Param id path string true "Day ID"
// @Param payload body service.UpdateDayRequest true "Day payload"
// @Success 200 {object} response.Envelope
// @Router /days/{id} [put]
func (h *DayHandler) Update(c *gin.Context) {
	var req service.UpdateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	day, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, day, nil)
}

// Delete godoc
// @Summary Delete teaching day
// @Tags Days
// @Produce json
// @Param id path string true "Day ID"
// @Success 200 {object} response.Envelope
// @Router /days/{id} [delete]
func (h *DayHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
