package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/dto"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService  portssvc.AcademicLedgerSvcFacade
	studentService portssvc.StudentSvcFacade
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.AcademicLedgerSvcFacade, studentService portssvc.StudentSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService, studentService: studentService}
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("", adminOnly, h.listEntries)
		ledger.GET("/students/:studentID", h.getStudentLedger)
		ledger.GET("/students/:studentID/consistency", adminOnly, h.checkConsistency)
		ledger.GET("/prn/:prn", h.getLedgerByPRN)
	}
}

func (h *ledgerHandler) listEntries(c *gin.Context) {
	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Failed to bind query params for ListLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, err := h.ledgerService.ListAll(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "List ledger entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListLedgerResponse{Entries: dto.ToLedgerEntryResponses(entries)})
}

// getStudentLedger godoc
// @Summary Get a student's academic ledger
// @Tags ledger
// @Produce  json
// @Param   studentID path string true "Student ID"
// @Success 200 {object} dto.StudentLedgerResponse
// @Security BearerAuth
// @Router /ledger/students/{studentID} [get]
func (h *ledgerHandler) getStudentLedger(c *gin.Context) {
	studentID := c.Param("studentID")
	if !canAccessStudent(c, studentID) {
		return
	}

	ledger, err := h.ledgerService.GetStudentLedger(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err, "Get student ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToStudentLedgerResponse(ledger))
}

// getLedgerByPRN returns the entries recorded against a PRN. Students may only
// look up their own.
func (h *ledgerHandler) getLedgerByPRN(c *gin.Context) {
	prn := c.Param("prn")

	if !middleware.IsAdmin(c) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		student, err := h.studentService.GetStudent(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "Get ledger by PRN")
			return
		}
		if student.PRN != prn {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
	}

	ledger, err := h.ledgerService.GetLedgerByPRN(c.Request.Context(), prn)
	if err != nil {
		respondError(c, err, "Get ledger by PRN")
		return
	}
	c.JSON(http.StatusOK, dto.ToStudentLedgerResponse(ledger))
}

func (h *ledgerHandler) checkConsistency(c *gin.Context) {
	check, err := h.ledgerService.CheckConsistency(c.Request.Context(), c.Param("studentID"))
	if err != nil {
		respondError(c, err, "Check ledger consistency")
		return
	}
	c.JSON(http.StatusOK, dto.ToConsistencyResponse(check))
}
