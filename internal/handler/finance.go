package handler

import (
	"net/http"

	"github.com/Desarrollos-QV/FudiPos-Backend/internal/apierror"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/dto"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/middleware"
	"github.com/Desarrollos-QV/FudiPos-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FinanceHandler exposes the register-shift lifecycle under /v1/finance.
type FinanceHandler struct {
	svc     service.ShiftService
	exports service.ExportService
}

func NewFinanceHandler(svc service.ShiftService, exports service.ExportService) *FinanceHandler {
	return &FinanceHandler{svc: svc, exports: exports}
}

// tenant pulls the caller's identity from the JWT. A malformed claim set is a
// token the auth middleware should never have admitted.
func tenant(c *gin.Context) (businessID, userID uuid.UUID, ok bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return uuid.Nil, uuid.Nil, false
	}
	businessID, errB := uuid.Parse(claims.BusinessID)
	userID, errU := uuid.Parse(claims.UserID)
	if errB != nil || errU != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
		return uuid.Nil, uuid.Nil, false
	}
	return businessID, userID, true
}

// Open godoc
// @Summary Abre un nuevo turno de caja
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenShiftRequest true "Fondo inicial"
// @Success 201 {object} dto.ShiftResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/finance/open [post]
func (h *FinanceHandler) Open(c *gin.Context) {
	var req dto.OpenShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	businessID, userID, ok := tenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), businessID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Current godoc
// @Summary Consulta el estado actual de la caja
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatusResponse
// @Router /v1/finance/current [get]
func (h *FinanceHandler) Current(c *gin.Context) {
	businessID, _, ok := tenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.CurrentStatus(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PostMovement godoc
// @Summary Registra una entrada o salida manual de efectivo
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovementRequest true "Movimiento"
// @Success 201 {object} dto.MovementResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/finance/movement [post]
func (h *FinanceHandler) PostMovement(c *gin.Context) {
	var req dto.MovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	businessID, userID, ok := tenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.PostMovement(c.Request.Context(), businessID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ReverseMovement godoc
// @Summary Reversa un movimiento con un asiento compensatorio
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del movimiento original"
// @Success 201 {object} dto.MovementResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/finance/movements/{id}/reverse [post]
func (h *FinanceHandler) ReverseMovement(c *gin.Context) {
	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	businessID, userID, ok := tenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.ReverseMovement(c.Request.Context(), businessID, userID, movementID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Cierra el turno con el conteo declarado
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseShiftRequest true "Conteo y retiro"
// @Success 200 {object} dto.ShiftResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/finance/close [post]
func (h *FinanceHandler) Close(c *gin.Context) {
	var req dto.CloseShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	businessID, userID, ok := tenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), businessID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reopen godoc
// @Summary Cierra el turno y abre el siguiente con el fondo remanente
// @Tags finance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseShiftRequest true "Conteo y retiro"
// @Success 201 {object} dto.ShiftResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/finance/reopen [post]
func (h *FinanceHandler) Reopen(c *gin.Context) {
	var req dto.CloseShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	businessID, userID, ok := tenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.ReopenWithFloat(c.Request.Context(), businessID, userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary Obtiene un turno por ID
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del turno"
// @Success 200 {object} dto.ShiftResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/finance/{id} [get]
func (h *FinanceHandler) Get(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	businessID, _, ok := tenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), businessID, shiftID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary Lista los turnos cerrados, paginados
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Param page query int false "Pagina"
// @Param limit query int false "Tamano de pagina"
// @Success 200 {object} dto.HistoryResponse
// @Router /v1/finance/history [get]
func (h *FinanceHandler) History(c *gin.Context) {
	businessID, _, ok := tenant(c)
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	resp, err := h.svc.History(c.Request.Context(), businessID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportXLSX streams the close report of a shift as a spreadsheet.
func (h *FinanceHandler) ExportXLSX(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	businessID, _, ok := tenant(c)
	if !ok {
		return
	}
	f, filename, err := h.exports.ShiftWorkbook(c.Request.Context(), businessID, shiftID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	// Headers are out the door already; a stream failure can only be logged.
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Str("shift_id", shiftID.String()).Msg("xlsx export stream failed")
	}
}

// ExportPDF serves the close report of a shift as a PDF file.
func (h *FinanceHandler) ExportPDF(c *gin.Context) {
	shiftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	businessID, _, ok := tenant(c)
	if !ok {
		return
	}
	path, filename, err := h.exports.ShiftPDF(c.Request.Context(), businessID, shiftID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, filename)
}
