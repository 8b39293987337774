package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/dto"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/middleware"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/utils/analytics"
	"github.com/gin-gonic/gin"
)

type creditHandler struct {
	creditService   portssvc.CreditRequestSvcFacade
	approvalService portssvc.ApprovalSvcFacade
	tracker         *analytics.Tracker
}

func registerCreditRoutes(rg *gin.RouterGroup, creditService portssvc.CreditRequestSvcFacade, approvalService portssvc.ApprovalSvcFacade, tracker *analytics.Tracker) {
	h := &creditHandler{creditService: creditService, approvalService: approvalService, tracker: tracker}
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	credits := rg.Group("/credits")
	{
		credits.POST("", h.createCredit)
		credits.GET("", adminOnly, h.listCredits)
		credits.GET("/:creditID", h.getCredit)
		credits.POST("/:creditID/approve", adminOnly, h.approveCredit)
		credits.POST("/:creditID/reject", adminOnly, h.rejectCredit)
	}
}

// createCredit godoc
// @Summary Submit a credit claim
// @Description Values the course and stores the claim as PENDING. Admins may submit on behalf of a student.
// @Tags credits
// @Accept  json
// @Produce  json
// @Param   credit body dto.CreateCreditRequest true "Course details"
// @Success 201 {object} dto.CreditRequestResponse
// @Failure 400 {object} map[string]string "Invalid input or uncreditable duration"
// @Failure 404 {object} map[string]string "Student not registered"
// @Security BearerAuth
// @Router /credits [post]
func (h *creditHandler) createCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCredit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}
	studentID := userID
	if middleware.IsAdmin(c) {
		studentID = strings.TrimSpace(req.StudentID)
		if studentID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "studentID is required when submitting on behalf of a student"})
			return
		}
	}

	created, err := h.creditService.CreateCreditRequest(c.Request.Context(), studentID, req)
	if err != nil {
		respondError(c, err, "Create credit request")
		return
	}

	middleware.TrackEvent(c, h.tracker, "credit_request_submitted", map[string]any{
		"credit_request_id": created.CreditRequestID,
		"credits":           created.Credits,
		"credit_type":       string(created.CreditType),
	})
	c.JSON(http.StatusCreated, dto.ToCreditRequestResponse(created))
}

// listCredits godoc
// @Summary List credit requests
// @Description Newest first, optionally filtered by status
// @Tags credits
// @Produce  json
// @Param   status query string false "PENDING, REQUESTED, APPROVED or REJECTED"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListCreditRequestsResponse
// @Security BearerAuth
// @Router /credits [get]
func (h *creditHandler) listCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var params dto.ListCreditRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListCredits", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.creditService.ListCreditRequests(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "List credit requests")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getCredit godoc
// @Summary Get a credit request
// @Tags credits
// @Produce json
// @Param   creditID path string true "Credit request ID"
// @Success 200 {object} dto.CreditRequestResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /credits/{creditID} [get]
func (h *creditHandler) getCredit(c *gin.Context) {
	creditID := c.Param("creditID")

	req, err := h.creditService.GetCreditRequestFor(c.Request.Context(), creditID, studentFilter(c))
	if err != nil {
		respondError(c, err, "Get credit request")
		return
	}
	c.JSON(http.StatusOK, dto.ToCreditRequestResponse(req))
}

// approveCredit godoc
// @Summary Approve a credit request
// @Description Anchors the request on the ledger and records it in the academic ledger. Safe to retry on 503.
// @Tags credits
// @Produce  json
// @Param   creditID path string true "Credit request ID"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 409 {object} map[string]string "Already decided or being processed"
// @Failure 422 {object} map[string]string "Rejected by the ledger"
// @Failure 503 {object} map[string]any "Ledger unavailable or confirmation timed out; retryable"
// @Security BearerAuth
// @Router /credits/{creditID}/approve [post]
func (h *creditHandler) approveCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	creditID := c.Param("creditID")

	actorID, ok := callerID(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("credit_request_id", creditID))
	logger.Info("Received request to approve credit request")

	result, err := h.approvalService.Approve(c.Request.Context(), creditID, actorID)
	if err != nil {
		respondError(c, err, "Approve credit request")
		return
	}

	middleware.TrackEvent(c, h.tracker, "credit_request_approved", map[string]any{
		"credit_request_id": creditID,
		"credits":           result.Entry.Credits,
		"source_type":       result.Entry.SourceType,
	})
	c.JSON(http.StatusOK, dto.ToApprovalResponse(result))
}

// rejectCredit godoc
// @Summary Reject a credit request
// @Tags credits
// @Accept  json
// @Produce  json
// @Param   creditID path string true "Credit request ID"
// @Param   body body dto.RejectCreditRequest true "Rejection reason"
// @Success 200 {object} dto.CreditRequestResponse
// @Failure 409 {object} map[string]string "Already decided or being processed"
// @Security BearerAuth
// @Router /credits/{creditID}/reject [post]
func (h *creditHandler) rejectCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	creditID := c.Param("creditID")

	var body dto.RejectCreditRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		logger.Warn("Failed to bind JSON for RejectCredit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := callerID(c)
	if !ok {
		return
	}

	rejected, err := h.approvalService.Reject(c.Request.Context(), creditID, body.Reason, actorID)
	if err != nil {
		respondError(c, err, "Reject credit request")
		return
	}

	middleware.TrackEvent(c, h.tracker, "credit_request_rejected", map[string]any{
		"credit_request_id": creditID,
	})
	c.JSON(http.StatusOK, dto.ToCreditRequestResponse(rejected))
}
