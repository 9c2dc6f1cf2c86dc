// ABOUTME: Terminal host for the embeddable chat widget
// ABOUTME: Provides readline-style input with /open, /close, /new, /quit commands

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/embedchat/embedchat/internal/config"
	"github.com/embedchat/embedchat/internal/surface"
	"github.com/embedchat/embedchat/internal/widget"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	webhookKey := flag.String("webhook-key", "", "Chatbot webhook key")
	apiURL := flag.String("api-url", "", "API base URL")
	title := flag.String("title", "", "Panel title override")
	buttonText := flag.String("button-text", "", "Launcher button text override")
	placeholder := flag.String("placeholder", "", "Input placeholder override")
	primaryColor := flag.String("primary-color", "", "Primary color override (hex)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := resolveConfig(*configPath, config.Config{
		WebhookKey:   *webhookKey,
		APIBaseURL:   *apiURL,
		Title:        *title,
		ButtonText:   *buttonText,
		Placeholder:  *placeholder,
		PrimaryColor: *primaryColor,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	w, err := widget.Init(cfg, surface.NewTerminal(os.Stdout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer widget.Reset()

	fmt.Printf("embedchat-widget connected to %s (key %s)\n", cfg.APIBaseURL, cfg.WebhookKey)
	fmt.Println("Type a message and press Enter. /help for commands. Ctrl+C to quit.")
	fmt.Println()

	w.Open()

	if err := run(ctx, w); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

// resolveConfig layers config sources: file, then flags, then env vars
// when neither provided the required fields.
func resolveConfig(path string, overrides config.Config) (config.Config, error) {
	base := config.Default()

	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		base = base.Merge(loaded)
	}

	cfg := base.Merge(overrides)
	if cfg.WebhookKey != "" {
		return cfg, nil
	}

	if env, ok := config.FromEnv(); ok {
		return cfg.Merge(env), nil
	}
	return cfg, nil
}

func run(ctx context.Context, w *widget.Widget) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		// Read input with context awareness
		inputCh := make(chan string, 1)
		errCh := make(chan error, 1)

		go func() {
			if scanner.Scan() {
				inputCh <- scanner.Text()
			} else {
				if err := scanner.Err(); err != nil {
					errCh <- err
				} else {
					errCh <- io.EOF
				}
			}
		}()

		var input string
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case input = <-inputCh:
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "/quit" || input == "/exit" || input == "/q" {
			return nil
		}

		if input == "/open" {
			w.Open()
			continue
		}

		if input == "/close" {
			w.Close()
			continue
		}

		if input == "/new" {
			session := w.NewSession()
			fmt.Printf("Started new session %s\n\n", session)
			continue
		}

		if input == "/help" {
			printHelp()
			continue
		}

		// Errors are already surfaced as transcript bubbles; nothing
		// more to do here
		w.Send(ctx, input)
	}
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /open   Open the chat panel")
	fmt.Println("  /close  Close the chat panel (launcher stays)")
	fmt.Println("  /new    Start a fresh visitor session")
	fmt.Println("  /quit   Exit")
	fmt.Println("Anything else is sent to the chatbot.")
	fmt.Println()
}
