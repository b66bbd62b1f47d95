package http

import (
	"github.com/gin-gonic/gin"

	"github.com/greenloop/wastecoin/internal/domain"
	"github.com/greenloop/wastecoin/internal/service"
	"github.com/greenloop/wastecoin/internal/transport/http/handlers"
	"github.com/greenloop/wastecoin/internal/transport/http/middlewares"
	"github.com/greenloop/wastecoin/pkg/auth"
)

type Services struct {
	Auth    *service.AuthSvc
	Wallet  *service.WalletSvc
	Waste   *service.WasteSvc
	Officer *service.OfficerSvc
}

func NewRouter(svcs Services, tokens *auth.Manager) *gin.Engine {
	r := gin.Default()

	ah := handlers.NewAuthHandler(svcs.Auth)
	wh := handlers.NewWalletHandler(svcs.Wallet, svcs.Auth)
	sh := handlers.NewWasteHandler(svcs.Waste)
	oh := handlers.NewOfficerHandler(svcs.Officer)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", ah.Register)
		v1.POST("/auth/login", ah.Login)

		secured := v1.Group("")
		secured.Use(middlewares.JWTAuth(tokens))
		{
			secured.GET("/wallet/balance", wh.Balance)
			secured.GET("/wallet/info", wh.Info)
			secured.POST("/wallet/transfer", wh.Transfer)
			secured.POST("/wallet/export", wh.Export)
			secured.GET("/transactions/history", wh.History)
			secured.POST("/waste/submit", sh.Submit)

			officer := secured.Group("")
			officer.Use(middlewares.RequireRole(string(domain.RoleOfficer)))
			{
				officer.GET("/waste/pending", sh.Pending)
				officer.POST("/waste/approve", sh.Decide)
				officer.POST("/officer/add-coins", oh.AddCoins)
				officer.GET("/officer/transactions", oh.Transactions)
				officer.GET("/users", oh.Users)
			}
		}
	}
	return r
}
