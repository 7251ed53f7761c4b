package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/application/settlement"
	"github.com/pawnshop/backend/internal/interfaces/http/dto"
	"github.com/pawnshop/backend/internal/interfaces/http/middleware"
)

// PledgeHandler handles pledge intake, reads, and settlement quotes
type PledgeHandler struct {
	BaseHandler
	pledges *settlement.PledgeService
	quotes  *settlement.QuoteService
}

// NewPledgeHandler creates a new PledgeHandler
func NewPledgeHandler(pledges *settlement.PledgeService, quotes *settlement.QuoteService) *PledgeHandler {
	return &PledgeHandler{pledges: pledges, quotes: quotes}
}

// RegisterRoutes registers pledge routes
func (h *PledgeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pledges := rg.Group("/pledges")
	{
		pledges.POST("", h.CreatePledge)
		pledges.GET("/:id", h.GetPledge)
		pledges.GET("/:id/payments", h.ListPayments)
		pledges.GET("/:id/settlement-quote", h.GetSettlementQuote)
	}
}

// CreatePledge books a new pledge with its opening voucher
func (h *PledgeHandler) CreatePledge(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	var req CreatePledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatValidationError(err))
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	schemeID, err := uuid.Parse(req.SchemeID)
	if err != nil {
		h.BadRequest(c, "Invalid scheme ID")
		return
	}

	p, err := h.pledges.CreatePledge(c.Request.Context(), settlement.CreatePledgeRequest{
		CompanyID:          companyID,
		CustomerID:         customerID,
		SchemeID:           schemeID,
		LoanAmount:         req.LoanAmount,
		MonthlyRatePct:     req.MonthlyRatePct,
		FirstMonthInterest: req.FirstMonthInterest,
		Charges:            req.Charges,
		PledgeDate:         req.PledgeDate,
		DueDate:            req.DueDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, p)
}

// GetPledge returns a pledge by ID
func (h *PledgeHandler) GetPledge(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid pledge ID")
		return
	}
	pledgeID := uuid.MustParse(req.ID)

	p, err := h.pledges.GetPledge(c.Request.Context(), companyID, pledgeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// ListPayments returns a pledge's payment history, oldest first
func (h *PledgeHandler) ListPayments(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid pledge ID")
		return
	}
	pledgeID := uuid.MustParse(req.ID)

	payments, err := h.pledges.ListPayments(c.Request.Context(), companyID, pledgeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payments)
}

// GetSettlementQuote returns the cost of closing a pledge as of a date.
// The as_of query parameter accepts YYYY-MM-DD and defaults to today.
func (h *PledgeHandler) GetSettlementQuote(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid pledge ID")
		return
	}
	pledgeID := uuid.MustParse(req.ID)

	var asOf time.Time
	if raw := c.Query("as_of"); raw != "" {
		asOf, err = time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid as_of date, expected YYYY-MM-DD")
			return
		}
	}

	quote, err := h.quotes.Quote(c.Request.Context(), companyID, pledgeID, asOf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}
