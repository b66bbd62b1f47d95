package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/joho/godotenv"

	"github.com/greenloop/wastecoin/pkg/config"
	"github.com/greenloop/wastecoin/pkg/mq"
)

// Follows reward lifecycle events and logs notifications. Stands in for a real
// delivery channel (mail, push) without coupling the API to one.
func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the notifier")
	}

	consumer, err := mq.NewConsumer(cfg.AMQPURL, cfg.MQExchange, "wastecoin.notifications",
		[]string{"waste.*", "coins.*"})
	if err != nil {
		log.Fatal(err)
	}
	defer consumer.Close()

	ctx := context.Background()
	deliveries, err := consumer.Deliveries(ctx)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("[notifier] waiting for reward events")
	for d := range deliveries {
		var payload map[string]any
		if err := json.Unmarshal(d.Body, &payload); err != nil {
			log.Printf("[notifier] bad payload on %s: %v", d.RoutingKey, err)
			_ = d.Nack(false, false)
			continue
		}
		log.Printf("[notifier] %s user=%v payload=%v", d.RoutingKey, payload["user_id"], payload)
		_ = d.Ack(false)
	}
}
