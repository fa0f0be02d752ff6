package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/mailmint/inbound/internal/logging"
	"github.com/mailmint/inbound/internal/postmark"
)

var (
	serverToken = flag.String("server-token", os.Getenv("POSTMARK_SERVER_TOKEN"), "Postmark server API token")
	webhookURL  = flag.String("webhook-url", "", "Inbound webhook URL to register (leave empty to only show current config)")
	blockSender = flag.String("block", "", "Email address or domain to block via an inbound rule")
	messageID   = flag.String("message", "", "Inbound message id to fetch details for")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, false)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *serverToken == "" {
		logger.Fatal("Postmark server token is required (flag -server-token or POSTMARK_SERVER_TOKEN)")
	}

	client := postmark.NewClient(*serverToken, "", logger)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *messageID != "" {
		details, err := client.GetInboundMessage(ctx, *messageID)
		if err != nil {
			logger.Fatal("Failed to fetch inbound message", zap.Error(err), zap.String("message_id", *messageID))
		}
		encoded, err := json.MarshalIndent(details, "", "  ")
		if err != nil {
			logger.Fatal("Failed to encode message details", zap.Error(err))
		}
		fmt.Println(string(encoded))
		return
	}

	if *webhookURL != "" {
		if _, err := client.UpdateInboundWebhookURL(ctx, *webhookURL); err != nil {
			logger.Fatal("Failed to update inbound webhook URL", zap.Error(err))
		}
	}

	if *blockSender != "" {
		rule, err := client.BlockSender(ctx, *blockSender)
		if err != nil {
			logger.Fatal("Failed to create blocking rule", zap.Error(err))
		}
		fmt.Printf("Created blocking rule %d: %s\n", rule.ID, rule.Rule)
	}

	info, err := client.GetServer(ctx)
	if err != nil {
		logger.Fatal("Failed to fetch server configuration", zap.Error(err))
	}

	fmt.Printf("Server:           %s (ID %d)\n", info.Name, info.ID)
	fmt.Printf("Inbound address:  %s\n", info.InboundAddress)
	fmt.Printf("Inbound webhook:  %s\n", info.InboundHookURL)
}
