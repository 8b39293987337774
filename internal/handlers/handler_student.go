package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/dto"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/middleware"
	"github.com/gin-gonic/gin"
)

type studentHandler struct {
	studentService portssvc.StudentSvcFacade
	creditService  portssvc.CreditRequestSvcFacade
}

func registerStudentRoutes(rg *gin.RouterGroup, studentService portssvc.StudentSvcFacade, creditService portssvc.CreditRequestSvcFacade) {
	h := &studentHandler{studentService: studentService, creditService: creditService}

	students := rg.Group("/students")
	{
		students.POST("", middleware.RequireRole(middleware.RoleAdmin), h.createStudent)
		students.GET("/:studentID", h.getStudent)
		students.GET("/:studentID/credits", h.listStudentCredits)
	}
}

// createStudent godoc
// @Summary Register a student
// @Description Stores the identity snapshot copied onto the student's credit requests
// @Tags students
// @Accept  json
// @Produce  json
// @Param   student body dto.CreateStudentRequest true "Student details"
// @Success 201 {object} dto.StudentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "PRN, email or ID already registered"
// @Security BearerAuth
// @Router /students [post]
func (h *studentHandler) createStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateStudent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := callerID(c)
	if !ok {
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, err, "Create student")
		return
	}

	logger.Info("Student registered", slog.String("student_id", student.StudentID))
	c.JSON(http.StatusCreated, dto.ToStudentResponse(student))
}

func (h *studentHandler) getStudent(c *gin.Context) {
	studentID := c.Param("studentID")
	if !canAccessStudent(c, studentID) {
		return
	}

	student, err := h.studentService.GetStudent(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err, "Get student")
		return
	}
	c.JSON(http.StatusOK, dto.ToStudentResponse(student))
}

// listStudentCredits godoc
// @Summary List a student's credit requests
// @Tags credits
// @Produce  json
// @Param   studentID path string true "Student ID"
// @Success 200 {array} dto.CreditRequestResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /students/{studentID}/credits [get]
func (h *studentHandler) listStudentCredits(c *gin.Context) {
	studentID := c.Param("studentID")
	if !canAccessStudent(c, studentID) {
		return
	}

	reqs, err := h.creditService.ListCreditRequestsByStudent(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err, "List student credits")
		return
	}
	c.JSON(http.StatusOK, dto.ToCreditRequestResponses(reqs))
}
