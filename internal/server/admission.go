package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	consumerdomain "github.com/stackhpc/coral-credits/internal/consumer/domain"
)

func (s *Server) CreateResourceRequest(c *gin.Context) {
	var req consumerdomain.ConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.consumerSvc.Create(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) UpdateResourceRequest(c *gin.Context) {
	var req consumerdomain.ConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.consumerSvc.Update(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) DeleteResourceRequest(c *gin.Context) {
	var req consumerdomain.ConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.consumerSvc.Delete(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) CheckCreateResourceRequest(c *gin.Context) {
	var req consumerdomain.ConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.consumerSvc.CheckCreate(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "admissible"})
}

func (s *Server) CheckUpdateResourceRequest(c *gin.Context) {
	var req consumerdomain.ConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.consumerSvc.CheckUpdate(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "admissible"})
}
