package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"artefact-registry/internal/adapters/primary/http/dto"
	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetArtifact(c *gin.Context) {
	id := c.Param("id")

	detail, err := h.artifactSvc.Detail(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	latest, err := h.catalogSvc.Latest(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).WithField("artifact_id", detail.Artifact.ID).Warn("latest version lookup failed")
		latest = nil
	}

	c.JSON(http.StatusOK, dto.ToArtifactDetailResponse(detail, latest))
}

func (h *Handler) DownloadArtifact(c *gin.Context) {
	rc, filename, err := h.artifactSvc.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, domain.ErrArtifactNotFound) {
			log.WithError(err).WithField("artifact_id", c.Param("id")).Error("open artifact file failed")
		}
		mapDomainError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, "application/zip", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	})
}

func (h *Handler) CreateArtifact(c *gin.Context) {
	if !h.limitBody(c) {
		return
	}

	var form dto.CreateArtifactForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}

	upload, closeFile, err := formUpload(c)
	if err != nil {
		bindError(c, err)
		return
	}
	defer closeFile()

	artifact, version, err := h.artifactSvc.Create(c.Request.Context(), principal(c), services.CreateArtifactInput{
		ID:          form.ID,
		Description: form.Description,
		File:        upload,
	})
	if err != nil {
		log.WithError(err).WithField("artifact_id", form.ID).Error("create artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreateArtifactResponse(artifact, version))
}

func (h *Handler) UpdateArtifact(c *gin.Context) {
	if !h.limitBody(c) {
		return
	}

	var form dto.UpdateArtifactForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}

	upload, closeFile, err := formUpload(c)
	if err != nil {
		bindError(c, err)
		return
	}
	defer closeFile()

	res, err := h.artifactSvc.Update(c.Request.Context(), principal(c), c.Param("id"), services.UpdateArtifactInput{
		Description: form.Description,
		File:        upload,
	})
	if err != nil {
		log.WithError(err).WithField("artifact_id", c.Param("id")).Error("update artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUpdateArtifactResponse(res))
}

func (h *Handler) ConfirmDeleteArtifact(c *gin.Context) {
	detail, err := h.artifactSvc.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConfirmDeleteResponse(detail, principal(c).CanWrite()))
}

func (h *Handler) DeleteArtifact(c *gin.Context) {
	res, err := h.artifactSvc.Delete(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		log.WithError(err).WithField("artifact_id", c.Param("id")).Error("delete artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDeleteArtifactResponse(res))
}

// multipartOverhead leaves room for the form fields and part headers around
// the file itself.
const multipartOverhead = 1 << 16

// limitBody caps the request body at the upload limit so an oversized file is
// refused before it is spooled to disk.
func (h *Handler) limitBody(c *gin.Context) bool {
	limit := h.artifactSvc.MaxUploadBytes()
	if limit <= 0 {
		return true
	}
	limit += multipartOverhead
	if c.Request.ContentLength > limit {
		mapDomainError(c, domain.ErrFileTooLarge)
		return false
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	return true
}

func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		mapDomainError(c, domain.ErrFileTooLarge)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// formUpload returns the "file" part of a multipart request, or nil when the
// request carries no file.
func formUpload(c *gin.Context) (*services.Upload, func(), error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return toUpload(fh, f), func() { _ = f.Close() }, nil
}

func toUpload(fh *multipart.FileHeader, f multipart.File) *services.Upload {
	return &services.Upload{Filename: fh.Filename, Size: fh.Size, Content: f}
}
