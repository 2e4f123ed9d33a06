package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/chatpulse/digestbot/internal/biz/domain"
	"github.com/chatpulse/digestbot/internal/infra/discord"
)

// send-message posts text to a Discord channel through the bot's REST session,
// split into chunks the same way announcements and summaries are.
func main() {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		fmt.Println("Error: DISCORD_TOKEN must be set")
		os.Exit(1)
	}

	if len(os.Args) < 3 {
		fmt.Println("Usage: send-message <channel_id> <message>")
		os.Exit(1)
	}

	channelID := os.Args[1]
	message := strings.Join(os.Args[2:], " ")

	log := logrus.New()
	client, err := discord.NewClient(token, log)
	if err != nil {
		fmt.Printf("Failed to create client: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	chunks := domain.SplitMessage(message, domain.MaxMessageLength)
	for i, chunk := range chunks {
		if err := client.Send(ctx, channelID, chunk); err != nil {
			fmt.Printf("Failed to send chunk %d/%d: %v\n", i+1, len(chunks), err)
			os.Exit(1)
		}
	}

	fmt.Printf("Message sent in %d chunk(s)\n", len(chunks))
}
