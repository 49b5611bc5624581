package handler

import (
	"net/http"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/apierror"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/dto"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StaffHandler manages the business's team. Mounted admin-only.
type StaffHandler struct{ svc service.StaffService }

func NewStaffHandler(svc service.StaffService) *StaffHandler { return &StaffHandler{svc: svc} }

// Create godoc
// @Summary Alta de un miembro del personal
// @Tags staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateStaffRequest true "Datos del usuario"
// @Success 201 {object} dto.StaffResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.CreateStaffRequest
	if !bindAndValidate(c, &req) {
		return
	}
	businessID, _, ok := tenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), businessID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *StaffHandler) List(c *gin.Context) {
	businessID, userID, ok := tenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), businessID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StaffHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.UpdateStaffRequest
	if !bindAndValidate(c, &req) {
		return
	}
	businessID, _, ok := tenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), businessID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StaffHandler) ToggleActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	businessID, _, ok := tenant(c)
	if !ok {
		return
	}
	active, err := h.svc.ToggleActive(c.Request.Context(), businessID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.String(), "active": active})
}

func (h *StaffHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	businessID, _, ok := tenant(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), businessID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
