package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenloop/wastecoin/internal/domain"
	"github.com/greenloop/wastecoin/internal/service"
)

type WasteHandler struct {
	svc *service.WasteSvc
}

func NewWasteHandler(svc *service.WasteSvc) *WasteHandler {
	return &WasteHandler{svc: svc}
}

func (h *WasteHandler) Submit(c *gin.Context) {
	var in struct {
		WasteType   string  `json:"waste_type"`
		WeightKg    float64 `json:"weight_kg"`
		Description string  `json:"description"`
		ImageURL    string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sub, err := h.svc.Submit(c.Request.Context(), c.GetString("sub"), domain.WasteType(in.WasteType), in.WeightKg, in.Description, in.ImageURL)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission": sub})
}

func (h *WasteHandler) Pending(c *gin.Context) {
	subs, err := h.svc.Pending(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs, "count": len(subs)})
}

// Decide handles both outcomes of a review; approval is the default for
// compatibility with callers that only ever approved.
func (h *WasteHandler) Decide(c *gin.Context) {
	var in struct {
		SubmissionID string  `json:"submission_id"`
		CoinAmount   float64 `json:"coin_amount"`
		Decision     string  `json:"decision"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	reviewer := c.GetString("sub")

	if in.Decision == "reject" {
		if err := h.svc.Reject(c.Request.Context(), reviewer, in.SubmissionID); err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"submission_id": in.SubmissionID, "status": domain.SubmissionRejected})
		return
	}

	receipt, err := h.svc.Approve(c.Request.Context(), reviewer, in.SubmissionID, in.CoinAmount)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"txHash": receipt.TxHash, "coin_amount": in.CoinAmount})
}
