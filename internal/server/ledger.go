package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountdomain "github.com/stackhpc/coral-credits/internal/account/domain"
	allocationdomain "github.com/stackhpc/coral-credits/internal/allocation/domain"
	providerdomain "github.com/stackhpc/coral-credits/internal/provider/domain"
	resourceclassdomain "github.com/stackhpc/coral-credits/internal/resourceclass/domain"
)

// -------- Resource classes --------

type createResourceClassRequest struct {
	Name string `json:"name"`
}

func (s *Server) CreateResourceClass(c *gin.Context) {
	var req createResourceClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	class, err := s.classSvc.Create(c.Request.Context(), resourceclassdomain.CreateRequest{
		Name: strings.TrimSpace(req.Name),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": class})
}

func (s *Server) ListResourceClasses(c *gin.Context) {
	classes, err := s.classSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": classes})
}

// -------- Providers --------

type createProviderRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	InfoURL string `json:"info_url"`
}

func (s *Server) CreateProvider(c *gin.Context) {
	var req createProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	provider, err := s.providerSvc.CreateProvider(c.Request.Context(), providerdomain.CreateProviderRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		InfoURL: strings.TrimSpace(req.InfoURL),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": provider})
}

func (s *Server) ListProviders(c *gin.Context) {
	providers, err := s.providerSvc.ListProviders(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": providers})
}

type createProviderAccountRequest struct {
	AccountID  string `json:"account_id"`
	ProviderID string `json:"provider_id"`
	ProjectID  string `json:"project_id"`
}

func (s *Server) CreateProviderAccount(c *gin.Context) {
	var req createProviderAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	accountID, err := snowflake.ParseString(req.AccountID)
	if err != nil {
		AbortWithError(c, providerdomain.ErrInvalidReference)
		return
	}
	providerID, err := snowflake.ParseString(req.ProviderID)
	if err != nil {
		AbortWithError(c, providerdomain.ErrInvalidReference)
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		AbortWithError(c, providerdomain.ErrInvalidReference)
		return
	}

	account, err := s.providerSvc.CreateProviderAccount(c.Request.Context(), providerdomain.CreateProviderAccountRequest{
		AccountID:  accountID,
		ProviderID: providerID,
		ProjectID:  projectID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": account})
}

func (s *Server) ListProviderAccounts(c *gin.Context) {
	if raw := c.Query("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			AbortWithError(c, providerdomain.ErrInvalidReference)
			return
		}
		account, err := s.providerSvc.ResolveByProject(c.Request.Context(), projectID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": []providerdomain.ResourceProviderAccount{account}})
		return
	}

	accounts, err := s.providerSvc.ListProviderAccounts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

// -------- Accounts --------

type createAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	account, err := s.accountSvc.Create(c.Request.Context(), accountdomain.CreateRequest{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": account})
}

func (s *Server) ListAccounts(c *gin.Context) {
	accounts, err := s.accountSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

func (s *Server) GetAccountSummary(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, accountdomain.ErrNotFound)
		return
	}

	summary, err := s.accountSvc.Summarize(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// -------- Allocations --------

type createAllocationRequest struct {
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

func (s *Server) CreateAllocation(c *gin.Context) {
	var req createAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	accountID, err := snowflake.ParseString(req.AccountID)
	if err != nil {
		AbortWithError(c, allocationdomain.ErrInvalidReference)
		return
	}

	allocation, err := s.allocationSvc.Create(c.Request.Context(), allocationdomain.CreateRequest{
		AccountID: accountID,
		Name:      strings.TrimSpace(req.Name),
		Start:     req.Start,
		End:       req.End,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": allocation})
}

func (s *Server) ListAllocations(c *gin.Context) {
	accountID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, accountdomain.ErrNotFound)
		return
	}

	allocations, err := s.allocationSvc.List(c.Request.Context(), accountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": allocations})
}

type allocateCreditRequest struct {
	Resources map[string]float64 `json:"resources"`
}

func (s *Server) AllocateCredit(c *gin.Context) {
	allocationID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, allocationdomain.ErrInvalidReference)
		return
	}

	var req allocateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rows, err := s.allocationSvc.Allocate(c.Request.Context(), allocationdomain.AllocateRequest{
		AllocationID: allocationID,
		Resources:    req.Resources,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}
