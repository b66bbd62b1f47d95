package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	PGDSN string `envconfig:"PG_DSN" required:"true"`
	// JWT
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireHr int    `envconfig:"JWT_EXPIRE_HR" default:"168"`
	// Custody
	EncryptionSecret string `envconfig:"ENCRYPTION_SECRET" required:"true"`
	// Chain
	ChainMode       string `envconfig:"CHAIN_MODE" default:"ledger"` // ledger | ethereum
	RPCURL          string `envconfig:"RPC_URL"`
	ContractAddress string `envconfig:"CONTRACT_ADDRESS"`
	OperatorKey     string `envconfig:"OPERATOR_PRIVATE_KEY"`
	ChainID         int64  `envconfig:"CHAIN_ID" default:"11155111"`
	ChainName       string `envconfig:"CHAIN_NAME" default:"sepolia"`
	ChainTimeoutSec int    `envconfig:"CHAIN_TIMEOUT_SEC" default:"90"`
	TokenSymbol     string `envconfig:"TOKEN_SYMBOL" default:"WST"`
	// MQ (optional; reward events are skipped when unset)
	AMQPURL    string `envconfig:"AMQP_URL"`
	MQExchange string `envconfig:"MQ_EXCHANGE" default:"wastecoin.exchange"`
	// Tracing (optional)
	OTELEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
