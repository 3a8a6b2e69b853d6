package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poledger/po_settlement_app/internal/apperrors"
	portssvc "github.com/poledger/po_settlement_app/internal/core/ports/services"
	"github.com/poledger/po_settlement_app/internal/dto"
	"github.com/poledger/po_settlement_app/internal/middleware"
)

// purchaseOrderHandler handles HTTP requests related to the purchase order ledger.
type purchaseOrderHandler struct {
	poService portssvc.PurchaseOrderSvcFacade
}

// newPurchaseOrderHandler creates a new purchaseOrderHandler.
func newPurchaseOrderHandler(ps portssvc.PurchaseOrderSvcFacade) *purchaseOrderHandler {
	return &purchaseOrderHandler{
		poService: ps,
	}
}

// registerPurchaseOrderRoutes registers routes related to purchase orders.
func registerPurchaseOrderRoutes(rg *gin.RouterGroup, poService portssvc.PurchaseOrderSvcFacade) {
	h := newPurchaseOrderHandler(poService)

	pos := rg.Group("/purchase-orders")
	{
		pos.POST("", h.createPurchaseOrder)
		pos.GET("", h.listPurchaseOrders)
		pos.GET("/:poID", h.getPurchaseOrder)
		pos.POST("/:poID/revisions", h.createRevision)
		pos.PUT("/:poID/adjustment", h.adjustSettlement)
		pos.PUT("/:poID/status", h.updateStatus)
		pos.DELETE("/:poID", middleware.RequireRole(middleware.RoleAdmin), h.deletePurchaseOrder)

		pos.GET("/base/:poNumberBase/revisions", h.getRevisionHistory)
		pos.GET("/base/:poNumberBase/active", h.getActiveRevision)
	}
}

// createPurchaseOrder godoc
// @Summary Create a new purchase order
// @Description Creates revision 1 of a new purchase order chain; the amount is converted into the settlement currency
// @Tags purchase-orders
// @Accept  json
// @Produce  json
// @Param   purchaseOrder body dto.CreatePurchaseOrderRequest true "Purchase order details"
// @Success 201 {object} dto.PurchaseOrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 409 {object} map[string]string "Project already has an active purchase order"
// @Failure 422 {object} map[string]string "No applicable exchange rate"
// @Failure 500 {object} map[string]string "Failed to create purchase order"
// @Security BearerAuth
// @Router /purchase-orders [post]
func (h *purchaseOrderHandler) createPurchaseOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePurchaseOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("po_number", req.PONumber), slog.String("project_code", req.ProjectCode))
	logger.Info("Received request to create purchase order")

	newPO, err := h.poService.CreatePurchaseOrder(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondPurchaseOrderError(c, logger, err, "create purchase order")
		return
	}

	logger.Info("Purchase order created", slog.String("purchase_order_id", newPO.PurchaseOrderID))
	c.JSON(http.StatusCreated, dto.ToPurchaseOrderResponse(newPO))
}

// listPurchaseOrders godoc
// @Summary List active purchase orders
// @Description Retrieves the active revision of every chain, optionally filtered by project code and status
// @Tags purchase-orders
// @Produce  json
// @Param   projectCode query string false "Filter by project code"
// @Param   status query string false "Filter by fulfillment status"
// @Param   limit query int false "Page size (default 50, max 200)"
// @Param   offset query int false "Page offset"
// @Success 200 {object} dto.ListPurchaseOrdersResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list purchase orders"
// @Security BearerAuth
// @Router /purchase-orders [get]
func (h *purchaseOrderHandler) listPurchaseOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ListPurchaseOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for ListPurchaseOrders", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	pos, total, err := h.poService.ListActive(c.Request.Context(), req)
	if err != nil {
		respondPurchaseOrderError(c, logger, err, "list purchase orders")
		return
	}

	c.JSON(http.StatusOK, dto.ListPurchaseOrdersResponse{
		Rows:   dto.ToListPurchaseOrderResponse(pos),
		Total:  total,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}

// getPurchaseOrder godoc
// @Summary Get a purchase order revision by ID
// @Description Retrieves a single revision row, active or superseded
// @Tags purchase-orders
// @Produce  json
// @Param   poID path string true "Purchase order revision ID"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase order not found"
// @Failure 500 {object} map[string]string "Failed to retrieve purchase order"
// @Security BearerAuth
// @Router /purchase-orders/{poID} [get]
func (h *purchaseOrderHandler) getPurchaseOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	poID := c.Param("poID")

	po, err := h.poService.GetPurchaseOrderByID(c.Request.Context(), poID)
	if err != nil {
		respondPurchaseOrderError(c, logger, err, "get purchase order")
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// createRevision godoc
// @Summary Create a new revision of a purchase order
// @Description Supersedes the currently active revision with a new one; conversion is re-run for the new amount
// @Tags purchase-orders
// @Accept  json
// @Produce  json
// @Param   poID path string true "ID of the revision being superseded"
// @Param   revision body dto.CreateRevisionRequest true "Revision details"
// @Success 201 {object} dto.PurchaseOrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase order not found"
// @Failure 409 {object} map[string]string "Target revision is no longer active"
// @Failure 422 {object} map[string]string "No applicable exchange rate"
// @Failure 500 {object} map[string]string "Failed to create revision"
// @Security BearerAuth
// @Router /purchase-orders/{poID}/revisions [post]
func (h *purchaseOrderHandler) createRevision(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	poID := c.Param("poID")

	var req dto.CreateRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRevision", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("supersedes", poID))
	logger.Info("Received request to create revision")

	newRev, err := h.poService.CreateRevision(c.Request.Context(), poID, req, actorID)
	if err != nil {
		respondPurchaseOrderError(c, logger, err, "create revision")
		return
	}

	logger.Info("Revision created",
		slog.String("purchase_order_id", newRev.PurchaseOrderID),
		slog.Int("revision_number", newRev.RevisionNumber))
	c.JSON(http.StatusCreated, dto.ToPurchaseOrderResponse(newRev))
}

// adjustSettlement godoc
// @Summary Adjust the settlement amount of a revision
// @Description Overrides the computed settlement amount with a manually reconciled figure; the computed value is kept
// @Tags purchase-orders
// @Accept  json
// @Produce  json
// @Param   poID path string true "Purchase order revision ID"
// @Param   adjustment body dto.AdjustSettlementRequest true "Adjustment details"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase order not found"
// @Failure 500 {object} map[string]string "Failed to adjust settlement"
// @Security BearerAuth
// @Router /purchase-orders/{poID}/adjustment [put]
func (h *purchaseOrderHandler) adjustSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	poID := c.Param("poID")

	var req dto.AdjustSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustSettlement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	adjusted, err := h.poService.AdjustSettlement(c.Request.Context(), poID, req, actorID)
	if err != nil {
		respondPurchaseOrderError(c, logger, err, "adjust settlement")
		return
	}

	logger.Info("Settlement adjusted", slog.String("purchase_order_id", poID))
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(adjusted))
}

// updateStatus godoc
// @Summary Update the fulfillment status of a revision
// @Description Moves the status forward along received, in-progress, invoiced, paid
// @Tags purchase-orders
// @Accept  json
// @Produce  json
// @Param   poID path string true "Purchase order revision ID"
// @Param   status body dto.UpdatePOStatusRequest true "New status"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 400 {object} map[string]string "Invalid status or backward transition"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase order not found"
// @Failure 500 {object} map[string]string "Failed to update status"
// @Security BearerAuth
// @Router /purchase-orders/{poID}/status [put]
func (h *purchaseOrderHandler) updateStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	poID := c.Param("poID")

	var req dto.UpdatePOStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.poService.UpdateStatus(c.Request.Context(), poID, req, actorID)
	if err != nil {
		respondPurchaseOrderError(c, logger, err, "update status")
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(updated))
}

// deletePurchaseOrder godoc
// @Summary Delete a purchase order revision
// @Description Physically removes a revision row; chain links pointing at it are cleared. Admin only.
// @Tags purchase-orders
// @Produce  json
// @Param   poID path string true "Purchase order revision ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Insufficient role"
// @Failure 404 {object} map[string]string "Purchase order not found"
// @Failure 500 {object} map[string]string "Failed to delete purchase order"
// @Security BearerAuth
// @Router /purchase-orders/{poID} [delete]
func (h *purchaseOrderHandler) deletePurchaseOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	poID := c.Param("poID")

	logger = logger.With(slog.String("purchase_order_id", poID))
	logger.Info("Received request to delete purchase order")

	if err := h.poService.DeletePurchaseOrder(c.Request.Context(), poID); err != nil {
		respondPurchaseOrderError(c, logger, err, "delete purchase order")
		return
	}

	logger.Info("Purchase order deleted")
	c.Status(http.StatusNoContent)
}

// getRevisionHistory godoc
// @Summary Get the revision history of a purchase order
// @Description Retrieves every revision of a chain ordered by revision number ascending
// @Tags purchase-orders
// @Produce  json
// @Param   poNumberBase path string true "Base PO number"
// @Success 200 {array} dto.PurchaseOrderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No revisions found"
// @Failure 500 {object} map[string]string "Failed to retrieve revisions"
// @Security BearerAuth
// @Router /purchase-orders/base/{poNumberBase}/revisions [get]
func (h *purchaseOrderHandler) getRevisionHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base := c.Param("poNumberBase")

	revisions, err := h.poService.GetRevisionHistory(c.Request.Context(), base)
	if err != nil {
		respondPurchaseOrderError(c, logger, err, "get revision history")
		return
	}

	c.JSON(http.StatusOK, dto.ToListPurchaseOrderResponse(revisions))
}

// getActiveRevision godoc
// @Summary Get the active revision of a purchase order
// @Description Retrieves the single active revision of a chain
// @Tags purchase-orders
// @Produce  json
// @Param   poNumberBase path string true "Base PO number"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active revision found"
// @Failure 500 {object} map[string]string "Failed to retrieve active revision"
// @Security BearerAuth
// @Router /purchase-orders/base/{poNumberBase}/active [get]
func (h *purchaseOrderHandler) getActiveRevision(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base := c.Param("poNumberBase")

	po, err := h.poService.GetActiveRevision(c.Request.Context(), base)
	if err != nil {
		respondPurchaseOrderError(c, logger, err, "get active revision")
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// respondPurchaseOrderError maps service errors onto HTTP statuses. Specific
// errors are checked before the broad categories they wrap.
func respondPurchaseOrderError(c *gin.Context, logger *slog.Logger, err error, op string) {
	switch {
	case errors.Is(err, apperrors.ErrRateNotFound):
		logger.Warn("No applicable exchange rate", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicateActivePO), errors.Is(err, apperrors.ErrInactiveRevisionTarget), errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflict", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Not found", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.Error("Service error", slog.String("op", op), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op})
	}
}
