package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/greenloop/wastecoin/internal/chain"
	"github.com/greenloop/wastecoin/internal/custody"
	"github.com/greenloop/wastecoin/internal/repository"
	"github.com/greenloop/wastecoin/internal/service"
	transport "github.com/greenloop/wastecoin/internal/transport/http"
	"github.com/greenloop/wastecoin/pkg/auth"
	"github.com/greenloop/wastecoin/pkg/config"
	"github.com/greenloop/wastecoin/pkg/db"
	"github.com/greenloop/wastecoin/pkg/mq"
	"github.com/greenloop/wastecoin/pkg/obs"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.OTELEndpoint != "" {
		shutdown := obs.InitTracer("wastecoin-api", cfg.OTELEndpoint)
		defer shutdown(context.Background())
	}

	gdb := db.Open(cfg.PGDSN)

	users := repository.NewUserRepo(gdb)
	wallets := repository.NewWalletRepo(gdb)
	wastes := repository.NewWasteRepo(gdb)
	txs := repository.NewTransactionRepo(gdb)
	for _, m := range []interface{ Migrate() error }{users, wastes, txs} {
		if err := m.Migrate(); err != nil {
			log.Fatal(err)
		}
	}

	vault := custody.NewVault(cfg.EncryptionSecret)
	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpireHr)*time.Hour)

	var gw chain.Gateway
	switch cfg.ChainMode {
	case "ethereum":
		gw, err = chain.NewEthGateway(cfg.RPCURL, cfg.ContractAddress, cfg.OperatorKey, cfg.ChainID, time.Duration(cfg.ChainTimeoutSec)*time.Second)
		if err != nil {
			log.Fatalf("chain gateway: %v", err)
		}
		log.Printf("[api] chain gateway: ethereum (%s)", cfg.ChainName)
	default:
		gw = chain.NewLedgerGateway()
		log.Printf("[api] chain gateway: ledger-only")
	}

	var pub *mq.Publisher
	if cfg.AMQPURL != "" {
		pub, err = mq.NewPublisher(cfg.AMQPURL, cfg.MQExchange)
		if err != nil {
			log.Fatalf("mq publisher: %v", err)
		}
		defer pub.Close()
	}

	meta := service.ChainMeta{Symbol: cfg.TokenSymbol, Network: cfg.ChainName, ChainID: cfg.ChainID}
	svcs := transport.Services{
		Auth:    service.NewAuthSvc(users, wallets, vault, tokens),
		Wallet:  service.NewWalletSvc(wallets, txs, vault, gw, pub, meta),
		Waste:   service.NewWasteSvc(wastes, users, txs, gw, pub),
		Officer: service.NewOfficerSvc(users, txs, pub),
	}

	r := transport.NewRouter(svcs, tokens)
	log.Println("[api] listening on", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
