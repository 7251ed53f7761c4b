package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/application/settlement"
	"github.com/pawnshop/backend/internal/interfaces/http/dto"
)

// LedgerHandler exposes read-only ledger audit views
type LedgerHandler struct {
	BaseHandler
	ledger *settlement.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledger *settlement.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// RegisterRoutes registers ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/ledger")
	{
		group.GET("/accounts", h.ListAccounts)
		group.GET("/vouchers/:id", h.GetVoucher)
	}
}

// ListAccounts returns the company's chart of accounts
func (h *LedgerHandler) ListAccounts(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	accounts, err := h.ledger.ListAccounts(c.Request.Context(), companyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, accounts)
}

// GetVoucher returns a voucher with all its entries
func (h *LedgerHandler) GetVoucher(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}
	voucherID := uuid.MustParse(req.ID)

	voucher, err := h.ledger.GetVoucher(c.Request.Context(), companyID, voucherID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, voucher)
}
