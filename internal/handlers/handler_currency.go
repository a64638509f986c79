package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fxdesk/fxrates_app/internal/apperrors"
	"github.com/fxdesk/fxrates_app/internal/core/domain"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/fxdesk/fxrates_app/internal/dto"
	"github.com/fxdesk/fxrates_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const rateNotFoundMsg = "Requested currency exchange rate not found in the database."

// currencyHandler handles the daily exchange-rate endpoints.
type currencyHandler struct {
	rateService portssvc.RateSvcFacade
}

// newCurrencyHandler creates a new currencyHandler.
func newCurrencyHandler(rs portssvc.RateSvcFacade) *currencyHandler {
	return &currencyHandler{rateService: rs}
}

// RegisterCurrencyRoutes registers the rate routes behind their gates.
// The single-segment GET carries a date while the two-segment GET starts
// with a code, so the shared first path parameter is named codeOrDate.
func RegisterCurrencyRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade, userService portssvc.UserSvcFacade) {
	h := newCurrencyHandler(rateService)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("/add",
			middleware.RequireRoleOrPermission(userService, domain.RoleEditor, domain.PermAddCurrencyRates), h.add)
		currencies.POST("/update/:codeOrDate/:date",
			middleware.RequireRoleOrPermission(userService, domain.RoleAdmin, domain.PermUpdateCurrencyRates), h.update)
		currencies.DELETE("/delete/:codeOrDate/:date",
			middleware.RequireRoleOrPermission(userService, domain.RoleAdmin, domain.PermDeleteCurrencyRates), h.delete)
		currencies.GET("/:codeOrDate",
			middleware.RequireRoleOrPermission(userService, domain.RoleUser, domain.PermGetCurrencyRates), h.list)
		currencies.GET("/:codeOrDate/:date",
			middleware.RequireRoleOrPermission(userService, domain.RoleUser, domain.PermGetCurrencyRates), h.get)
	}
}

// add godoc
// @Summary Add a daily exchange rate
// @Description Persists a rate for a (code, date) key. Future dates are rejected; an existing key returns 409 with the stored record.
// @Tags currencies
// @Accept json
// @Produce json
// @Param rate body dto.AddRateRequest true "Rate details"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "Rate already exists for the key"
// @Failure 422 {object} map[string]interface{} "Validation errors or future date"
// @Security BearerAuth
// @Router /currencies/add [post]
func (h *currencyHandler) add(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AddRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": bindingFieldErrors(err)})
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)
	rate, err := h.rateService.AddRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		var fieldErrs apperrors.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": fieldErrs})
		case errors.Is(err, apperrors.ErrDuplicate):
			// The service hands back the record that already occupies the key.
			conflict := gin.H{
				"status":  "error",
				"message": "This currency exchange rate for the given date exists already in the database.",
			}
			if rate != nil {
				conflict["currency"] = dto.ToRateResponse(rate)
			}
			c.JSON(http.StatusConflict, conflict)
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "message": "Cannot add currency exchange rate for a future date."})
		default:
			logger.Error("Failed to add currency rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to add currency exchange rate"})
		}
		return
	}

	logger.Info("Currency rate added", slog.String("code", rate.Code), slog.String("date", req.Date))
	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"message":  "Successfully added currency exchange rate.",
		"currency": dto.ToRateResponse(rate),
	})
}

// update godoc
// @Summary Update a daily exchange rate
// @Description Overwrites the amount of an existing (code, date) record.
// @Tags currencies
// @Accept json
// @Produce json
// @Param code path string true "Currency code"
// @Param date path string true "Calendar date (Y-m-d)"
// @Param rate body dto.UpdateRateRequest true "Replacement amount"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Rate not found"
// @Failure 422 {object} map[string]interface{} "Validation errors"
// @Security BearerAuth
// @Router /currencies/update/{code}/{date} [post]
func (h *currencyHandler) update(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("codeOrDate")
	date := c.Param("date")

	var req dto.UpdateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": bindingFieldErrors(err)})
		return
	}

	updaterUserID, _ := middleware.GetUserIDFromContext(c)
	rate, err := h.rateService.UpdateRate(c.Request.Context(), code, date, req, updaterUserID)
	if err != nil {
		h.respondRateError(c, logger, err, "Failed to update currency exchange rate")
		return
	}

	logger.Info("Currency rate updated", slog.String("code", rate.Code), slog.String("date", date))
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "Successfully updated currency exchange rate.",
		"currency": dto.ToRateResponse(rate),
	})
}

// delete godoc
// @Summary Delete a daily exchange rate
// @Description Removes an existing (code, date) record and returns its prior state.
// @Tags currencies
// @Produce json
// @Param code path string true "Currency code"
// @Param date path string true "Calendar date (Y-m-d)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Rate not found"
// @Failure 422 {object} map[string]interface{} "Validation errors"
// @Security BearerAuth
// @Router /currencies/delete/{code}/{date} [delete]
func (h *currencyHandler) delete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("codeOrDate")
	date := c.Param("date")

	rate, err := h.rateService.DeleteRate(c.Request.Context(), code, date)
	if err != nil {
		h.respondRateError(c, logger, err, "Failed to delete currency exchange rate")
		return
	}

	logger.Info("Currency rate deleted", slog.String("code", rate.Code), slog.String("date", date))
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "Successfully deleted currency exchange rate.",
		"currency": dto.ToRateResponse(rate),
	})
}

// list godoc
// @Summary List exchange rates for a date
// @Description Returns all records for the date in fixed priority order (EUR, USD, GBP).
// @Tags currencies
// @Produce json
// @Param date path string true "Calendar date (Y-m-d)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "No rates for the date"
// @Failure 422 {object} map[string]interface{} "Validation errors"
// @Security BearerAuth
// @Router /currencies/{date} [get]
func (h *currencyHandler) list(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	date := c.Param("codeOrDate")

	rates, err := h.rateService.ListRates(c.Request.Context(), date)
	if err != nil {
		var fieldErrs apperrors.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": fieldErrs})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Currency exchange rates for the given date not found in the database."})
		default:
			logger.Error("Failed to list currency rates", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to retrieve currency exchange rates"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Successfully retrieved currency exchange rates.",
		"currencies": dto.ToListRateResponse(rates),
	})
}

// get godoc
// @Summary Get a single exchange rate
// @Description Returns the record for a (code, date) key projected to {code, date, amount}.
// @Tags currencies
// @Produce json
// @Param code path string true "Currency code"
// @Param date path string true "Calendar date (Y-m-d)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Rate not found"
// @Failure 422 {object} map[string]interface{} "Validation errors"
// @Security BearerAuth
// @Router /currencies/{code}/{date} [get]
func (h *currencyHandler) get(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("codeOrDate")
	date := c.Param("date")

	rate, err := h.rateService.GetRate(c.Request.Context(), code, date)
	if err != nil {
		h.respondRateError(c, logger, err, "Failed to retrieve currency exchange rate")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "Successfully retrieved currency exchange rate.",
		"currency": dto.ToRateResponse(rate),
	})
}

// respondRateError maps the shared service error cases of the keyed rate
// operations onto their HTTP responses.
func (h *currencyHandler) respondRateError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var fieldErrs apperrors.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": fieldErrs})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": rateNotFoundMsg})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": fallback})
	}
}
