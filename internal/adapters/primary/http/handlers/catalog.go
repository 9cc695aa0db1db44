package handlers

import (
	"net/http"

	"artefact-registry/internal/adapters/primary/http/dto"
	"artefact-registry/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) ListDepartments(c *gin.Context) {
	deps := h.catalogSvc.Departments()
	items := make([]dto.DepartmentResponse, 0, len(deps))
	for _, d := range deps {
		items = append(items, dto.ToDepartmentResponse(d))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) ListArtifacts(c *gin.Context) {
	prefix := c.Query("prefix")
	sort := domain.ParseSortKey(c.Query("sort"))

	items, err := h.catalogSvc.ListByPrefix(c.Request.Context(), prefix, sort)
	if err != nil {
		log.WithError(err).Error("list artifacts failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListArtifactsResponse{
		Prefix: prefix,
		Sort:   string(sort),
		Items:  dto.ToArtifactSummaryResponses(items),
		Total:  len(items),
	})
}

func (h *Handler) SearchArtifacts(c *gin.Context) {
	q := c.Query("q")

	items, err := h.catalogSvc.Search(c.Request.Context(), q)
	if err != nil {
		log.WithError(err).Error("search artifacts failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListArtifactsResponse{
		Query: q,
		Items: dto.ToArtifactSummaryResponses(items),
		Total: len(items),
	})
}

func (h *Handler) ExportArtifacts(c *gin.Context) {
	f, filename, err := h.exportSvc.ExportListing(c.Request.Context(), c.Query("prefix"), domain.ParseSortKey(c.Query("sort")))
	if err != nil {
		log.WithError(err).Error("export artifacts failed")
		mapDomainError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		log.WithError(err).Error("write export workbook failed")
	}
}
