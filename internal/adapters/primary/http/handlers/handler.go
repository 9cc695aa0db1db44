package handlers

import (
	"artefact-registry/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	artifactSvc *services.ArtifactService
	catalogSvc  *services.CatalogService
	exportSvc   *services.ExportService
	authSvc     *services.AuthService
}

func New(
	artifactSvc *services.ArtifactService,
	catalogSvc *services.CatalogService,
	exportSvc *services.ExportService,
	authSvc *services.AuthService,
) *Handler {
	return &Handler{
		artifactSvc: artifactSvc,
		catalogSvc:  catalogSvc,
		exportSvc:   exportSvc,
		authSvc:     authSvc,
	}
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Session
	r.GET("/auth/me", h.Me)

	// Departments
	r.GET("/departments", h.ListDepartments)

	// Listing
	r.GET("/artifacts", h.ListArtifacts)
	r.GET("/artifacts/export", h.ExportArtifacts)
	r.GET("/artifacts/search", h.SearchArtifacts)

	// Artifacts
	r.GET("/artifacts/:id", h.GetArtifact)
	r.GET("/artifacts/:id/download", h.DownloadArtifact)
	r.GET("/artifacts/:id/delete", h.ConfirmDeleteArtifact)
	r.POST("/artifacts", h.CreateArtifact)
	r.PUT("/artifacts/:id", h.UpdateArtifact)
	r.DELETE("/artifacts/:id", h.DeleteArtifact)
}
