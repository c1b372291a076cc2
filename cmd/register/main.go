// Command register installs the guild slash commands. Run once per guild:
//
//	DISCORD_BOT_TOKEN=... DISCORD_APP_ID=... DISCORD_GUILD_ID=... go run ./cmd/register
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const apiBase = "https://discord.com/api/v10"

type command struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        int    `json:"type"`
}

var commands = []command{
	{Name: "task-daily", Description: "Submit your daily tasks", Type: 1},
	{Name: "complete-task-daily", Description: "Mark completion of your daily tasks", Type: 1},
}

func main() {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_BOT_TOKEN")
	appID := os.Getenv("DISCORD_APP_ID")
	guildID := os.Getenv("DISCORD_GUILD_ID")
	if token == "" || appID == "" || guildID == "" {
		fmt.Fprintln(os.Stderr, "DISCORD_BOT_TOKEN, DISCORD_APP_ID and DISCORD_GUILD_ID are required")
		os.Exit(1)
	}

	body, err := json.Marshal(commands)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	url := fmt.Sprintf("%s/applications/%s/guilds/%s/commands", apiBase, appID, guildID)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	req.Header.Set("Authorization", "Bot "+token)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 400 {
		fmt.Fprintf(os.Stderr, "Discord returned HTTP %d: %s\n", resp.StatusCode, respBody)
		os.Exit(1)
	}

	fmt.Printf("Registered %d commands for guild %s\n", len(commands), guildID)
}
