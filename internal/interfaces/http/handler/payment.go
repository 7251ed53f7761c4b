package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pawnshop/backend/internal/application/settlement"
	"github.com/pawnshop/backend/internal/domain/pledge"
	"github.com/pawnshop/backend/internal/interfaces/http/dto"
	"github.com/pawnshop/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment posting, amendment, and reversal
type PaymentHandler struct {
	BaseHandler
	payments *settlement.PaymentService
	multi    *settlement.MultiPaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *settlement.PaymentService, multi *settlement.MultiPaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments, multi: multi}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.CreatePayment)
		payments.POST("/multiple", h.CreateMultiPayment)
		payments.PUT("/:id", h.UpdatePayment)
		payments.DELETE("/:id", h.DeletePayment)
	}
}

func (r PaymentSplitRequest) toSplit() pledge.PaymentSplit {
	return pledge.PaymentSplit{
		Amount:          r.Amount,
		InterestAmount:  r.InterestAmount,
		PrincipalAmount: r.PrincipalAmount,
		PenaltyAmount:   r.PenaltyAmount,
		DiscountAmount:  r.DiscountAmount,
	}
}

// CreatePayment posts a single payment against a pledge
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatValidationError(err))
		return
	}
	pledgeID, err := uuid.Parse(req.PledgeID)
	if err != nil {
		h.BadRequest(c, "Invalid pledge ID")
		return
	}

	result, err := h.payments.CreatePayment(c.Request.Context(), settlement.PaymentRequest{
		CompanyID:          companyID,
		PledgeID:           pledgeID,
		PaymentDate:        req.PaymentDate,
		Type:               pledge.PaymentType(req.PaymentType),
		Split:              req.toSplit(),
		BankReference:      req.BankReference,
		AdjustmentReason:   req.AdjustmentReason,
		AdjustmentApproved: req.AdjustmentApproved,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// CreateMultiPayment settles several pledges from one cash event
func (h *PaymentHandler) CreateMultiPayment(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	var req CreateMultiPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatValidationError(err))
		return
	}

	legs := make([]settlement.PaymentLeg, 0, len(req.Pledges))
	for _, leg := range req.Pledges {
		pledgeID, err := uuid.Parse(leg.PledgeID)
		if err != nil {
			h.BadRequest(c, "Invalid pledge ID in legs")
			return
		}
		legs = append(legs, settlement.PaymentLeg{
			PledgeID:           pledgeID,
			Type:               pledge.PaymentType(leg.PaymentType),
			Split:              leg.toSplit(),
			AdjustmentReason:   leg.AdjustmentReason,
			AdjustmentApproved: leg.AdjustmentApproved,
		})
	}

	var customerID uuid.UUID
	if req.CustomerID != "" {
		customerID, err = uuid.Parse(req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return
		}
	}

	result, err := h.multi.CreateMultiPayment(c.Request.Context(), settlement.MultiPaymentRequest{
		CompanyID:     companyID,
		CustomerID:    customerID,
		PaymentDate:   req.PaymentDate,
		TotalAmount:   req.TotalAmount,
		BankReference: req.BankReference,
		Legs:          legs,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// UpdatePayment amends an existing payment and re-derives the pledge's totals
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}
	paymentID := uuid.MustParse(idReq.ID)

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FormatValidationError(err))
		return
	}

	result, err := h.payments.UpdatePayment(c.Request.Context(), settlement.UpdatePaymentRequest{
		CompanyID:          companyID,
		PaymentID:          paymentID,
		PaymentDate:        req.PaymentDate,
		Type:               pledge.PaymentType(req.PaymentType),
		Split:              req.toSplit(),
		AdjustmentReason:   req.AdjustmentReason,
		AdjustmentApproved: req.AdjustmentApproved,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// DeletePayment reverses a payment; the pledge's status may move backward
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.BadRequest(c, "Invalid company ID")
		return
	}
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}
	paymentID := uuid.MustParse(idReq.ID)

	result, err := h.payments.DeletePayment(c.Request.Context(), companyID, paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}
