package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/container"
	"github.com/FACorreiaa/go-trip-planner/internal/tools"
)

var model = flag.String("model", "gemini-2.0-flash", "the model name, e.g. gemini-2.0-flash")

// toolChat runs an interactive Gemini session with the travel lookup tools
// attached, resolving every function call against the live fetchers.
func toolChat(ctx context.Context, registry *tools.Registry) error {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.5),
		Tools:       tools.GenAITools(),
	}
	chat, err := client.Chats.Create(ctx, *model, cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}

	fmt.Println("Ask about places, routes or weather. Ctrl-D to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for fmt.Print("> "); scanner.Scan(); fmt.Print("> ") {
		line := scanner.Text()
		if line == "" {
			continue
		}

		result, err := chat.SendMessage(ctx, genai.Part{Text: line})
		if err != nil {
			return err
		}

		// Keep resolving function calls until the model answers in text.
		for calls := result.FunctionCalls(); len(calls) > 0; calls = result.FunctionCalls() {
			parts := make([]genai.Part, 0, len(calls))
			for _, call := range calls {
				fmt.Printf("[tool] %s(%v)\n", call.Name, call.Args)
				res := registry.Invoke(ctx, call.Name, call.Args)
				parts = append(parts, genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:   call.ID,
					Name: call.Name,
					Response: map[string]any{
						"status": res.Status,
						"data":   res.Data,
						"error":  res.Error,
					},
				}})
			}
			if result, err = chat.SendMessage(ctx, parts...); err != nil {
				return err
			}
		}

		fmt.Println(result.Text())
	}
	return scanner.Err()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}
	flag.Parse()
	ctx := context.Background()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		log.Fatal("failed to build services:", err)
	}
	defer c.Shutdown()

	if err := toolChat(ctx, c.Registry); err != nil {
		log.Fatal(err)
	}
}
