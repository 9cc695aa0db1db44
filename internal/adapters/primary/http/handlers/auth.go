package handlers

import (
	"errors"
	"net/http"

	"artefact-registry/internal/adapters/primary/http/dto"
	"artefact-registry/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.authSvc.Login(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			log.WithError(err).Error("login failed")
		}
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLoginResponse(session))
}

func (h *Handler) Me(c *gin.Context) {
	p, ok := domain.PrincipalFrom(c.Request.Context())
	if !ok {
		mapDomainError(c, domain.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, dto.ToPrincipalResponse(p))
}

// principal returns the caller set by the auth middleware, or the zero
// Principal which services reject for every mutation.
func principal(c *gin.Context) domain.Principal {
	p, _ := domain.PrincipalFrom(c.Request.Context())
	return p
}
