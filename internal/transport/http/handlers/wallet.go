package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenloop/wastecoin/internal/service"
)

type WalletHandler struct {
	wallets *service.WalletSvc
	auth    *service.AuthSvc
}

func NewWalletHandler(wallets *service.WalletSvc, auth *service.AuthSvc) *WalletHandler {
	return &WalletHandler{wallets: wallets, auth: auth}
}

func (h *WalletHandler) Balance(c *gin.Context) {
	view, err := h.wallets.Balance(c.Request.Context(), c.GetString("sub"), c.GetString("wallet"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *WalletHandler) Info(c *gin.Context) {
	info, err := h.wallets.Info(c.Request.Context(), c.GetString("sub"), c.GetString("wallet"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *WalletHandler) Transfer(c *gin.Context) {
	var in struct {
		ToAddress string  `json:"to_address"`
		Amount    float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := h.wallets.Transfer(c.Request.Context(), c.GetString("sub"), in.ToAddress, in.Amount)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *WalletHandler) Export(c *gin.Context) {
	var in struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	address, key, err := h.auth.ExportKey(c.Request.Context(), c.GetString("sub"), in.Password)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"walletAddress": address,
		"privateKey":    key,
		"warning":       "Never share your private key. Anyone with this key can access your funds.",
	})
}

func (h *WalletHandler) History(c *gin.Context) {
	txs, err := h.wallets.History(c.Request.Context(), c.GetString("sub"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs)})
}
