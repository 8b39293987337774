package handlers

import (
	"net/http"

	portssvc "github.com/1rushikeshkale/MCAC11BlockchainProject/internal/core/ports/services"
	"github.com/1rushikeshkale/MCAC11BlockchainProject/internal/dto"
	"github.com/gin-gonic/gin"
)

type verifyHandler struct {
	verificationService portssvc.VerificationSvcFacade
}

// registerVerifyRoutes mounts the public verification portal. It needs no token.
func registerVerifyRoutes(rg *gin.RouterGroup, verificationService portssvc.VerificationSvcFacade) {
	h := &verifyHandler{verificationService: verificationService}
	rg.GET("/:token", h.verify)
}

// verify godoc
// @Summary Verify a credential
// @Description Checks the ledger for a credit token and returns the recorded credential. Public.
// @Tags verify
// @Produce  json
// @Param   token path string true "Ledger token printed on the credential"
// @Param   fingerprint query string false "Keccak-256 fingerprint of the evidence to compare"
// @Success 200 {object} dto.VerificationResponse
// @Failure 404 {object} map[string]string "Token unknown or not on the ledger"
// @Failure 503 {object} map[string]any "Ledger unavailable"
// @Router /verify/{token} [get]
func (h *verifyHandler) verify(c *gin.Context) {
	var params dto.VerifyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.verificationService.VerifyToken(c.Request.Context(), c.Param("token"), params.Fingerprint)
	if err != nil {
		respondError(c, err, "Verify credential")
		return
	}
	c.JSON(http.StatusOK, dto.ToVerificationResponse(v))
}
