package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/securevote/app-verify/internal/middleware"
)

// Handlers groups every handler set mounted under /v1
type Handlers struct {
	Health       *HealthHandlers
	Voters       *VoterHandlers
	Verification *VerificationHandlers
	Cases        *CaseHandlers
	Liveness     *LivenessHandlers
	Whitelist    *WhitelistHandlers
}

// RegisterRoutes mounts the API. Admin routes require a token carrying the admin role.
func RegisterRoutes(router gin.IRouter, h Handlers) {
	v1 := router.Group("/v1")
	{
		v1.GET("/health", h.Health.HealthCheck)

		v1.POST("/voters", h.Voters.RegisterVoter)
		v1.GET("/voters/:voterId", h.Voters.GetVoter)

		v1.POST("/verification/verify", h.Verification.VerifyVoter)

		v1.POST("/liveness/sessions", h.Liveness.StartSession)
		v1.GET("/liveness/sessions/:voterId", h.Liveness.GetSession)
		v1.DELETE("/liveness/sessions/:voterId", h.Liveness.EndSession)
		v1.POST("/liveness/observations", h.Liveness.Observe)

		v1.POST("/whitelist/check", h.Whitelist.CheckImage)
	}

	admin := v1.Group("/admin", middleware.AuthMiddleware(), middleware.RequireAdmin())
	{
		admin.GET("/cases", h.Cases.ListCases)
		admin.GET("/cases/:caseId", h.Cases.GetCase)
		admin.POST("/cases/:caseId/approve", h.Cases.ApproveCase)
		admin.POST("/cases/:caseId/reject", h.Cases.RejectCase)
		admin.GET("/statistics", h.Cases.GetStatistics)
		admin.GET("/voters/:voterId/invalid-votes", h.Cases.ListInvalidVotes)
	}
}
