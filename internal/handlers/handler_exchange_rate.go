package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
	"github.com/poledger/po_settlement_app/internal/dto"
	"github.com/poledger/po_settlement_app/internal/middleware"
)

// exchangeRateHandler handles HTTP requests related to exchange rates and conversion.
type exchangeRateHandler struct {
	rateService   portssvc.ExchangeRateSvcFacade
	converter     portssvc.ConverterSvc
	importService portssvc.RateImportSvc
	baseCurrency  string
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade, cs portssvc.ConverterSvc, is portssvc.RateImportSvc, baseCurrency string) *exchangeRateHandler {
	return &exchangeRateHandler{
		rateService:   rs,
		converter:     cs,
		importService: is,
		baseCurrency:  baseCurrency,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade, converter portssvc.ConverterSvc, importService portssvc.RateImportSvc, baseCurrency string) {
	h := newExchangeRateHandler(rateService, converter, importService, baseCurrency)

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("", h.listExchangeRates)
		rates.POST("/import", middleware.RequireRole(middleware.RoleAdmin), h.importRates)
	}

	rg.GET("/convert", h.convert)
}

// createExchangeRate godoc
// @Summary Record a manual exchange rate
// @Description Appends a manually entered rate row; existing rows are never modified
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to save exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	newRate, err := h.rateService.CreateExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save exchange rate"})
		}
		return
	}

	logger.Info("Exchange rate created",
		slog.String("from", newRate.FromCurrencyCode),
		slog.String("to", newRate.ToCurrencyCode))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(newRate))
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Description Retrieves rate rows, optionally filtered by currency pair and effective date
// @Tags exchange-rates
// @Produce  json
// @Param   from query string false "From currency code"
// @Param   to query string false "To currency code"
// @Param   effectiveOn query string false "Rows effective on or before this date (YYYY-MM-DD)"
// @Param   limit query int false "Page size (default 50, max 200)"
// @Param   offset query int false "Page offset"
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list exchange rates"
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ListExchangeRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for ListExchangeRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rates, total, err := h.rateService.ListExchangeRates(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list exchange rates", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exchange rates"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":   dto.ToListExchangeRateResponse(rates),
		"total":  total,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// importRates godoc
// @Summary Import the latest market rates
// @Description Fetches current quotes for the tracked currencies and stores them as one batch. Admin only.
// @Tags exchange-rates
// @Produce  json
// @Success 200 {object} dto.ImportRatesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Insufficient role"
// @Failure 502 {object} map[string]string "Quote provider failure"
// @Security BearerAuth
// @Router /exchange-rates/import [post]
func (h *exchangeRateHandler) importRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to import rates")

	imported, err := h.importService.ImportLatestRates(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrRateImportFailed) {
			logger.Error("Rate import failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		} else {
			logger.Error("Rate import failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import rates"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ImportRatesResponse{Imported: imported})
}

// convert godoc
// @Summary Convert an amount into the settlement currency
// @Description Resolves the applicable rate and returns the rounded converted amount; nothing is persisted
// @Tags exchange-rates
// @Produce  json
// @Param   amount query string true "Amount in the source currency"
// @Param   from query string true "Source currency code"
// @Param   asOf query string false "Resolution date (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "No applicable exchange rate"
// @Failure 500 {object} map[string]string "Failed to convert"
// @Security BearerAuth
// @Router /convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	asOf := time.Now().UTC()
	if req.AsOfDate != nil {
		asOf = *req.AsOfDate
	}

	result, err := h.converter.Convert(c.Request.Context(), req.Amount, req.FromCurrencyCode, asOf)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRateNotFound):
			logger.Warn("No applicable exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to convert", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		ConvertedAmount:  result.ConvertedAmount,
		CurrencyCode:     h.baseCurrency,
		RateUsed:         result.RateUsed,
		RateSource:       string(result.RateSource),
		FromCurrencyCode: req.FromCurrencyCode,
	})
}
