package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenloop/wastecoin/internal/service"
)

type OfficerHandler struct {
	svc *service.OfficerSvc
}

func NewOfficerHandler(svc *service.OfficerSvc) *OfficerHandler {
	return &OfficerHandler{svc: svc}
}

func (h *OfficerHandler) AddCoins(c *gin.Context) {
	var in struct {
		UserID string  `json:"user_id"`
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := h.svc.AddCoins(c.Request.Context(), in.UserID, in.Amount)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": res})
}

func (h *OfficerHandler) Transactions(c *gin.Context) {
	dash, err := h.svc.RecentActivity(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (h *OfficerHandler) Users(c *gin.Context) {
	users, err := h.svc.Roster(c.Request.Context())
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}
