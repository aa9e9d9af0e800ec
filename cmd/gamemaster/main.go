// Package main is the entry point for the drawing game master.
// It wires the orchestrator and runs a small interactive console for
// driving games; embedders mount service.GameMaster behind whatever
// transport they choose.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gotcha-gamemaster/internal/config"
	"gotcha-gamemaster/internal/gateway"
	"gotcha-gamemaster/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.OpenAI.APIKey == "" {
		log.Fatal().Msg("OPENAI_API_KEY is not set")
	}

	log.Info().Msg("Configuration loaded successfully")

	// The gateway client and the game master are built once and shared.
	gw := gateway.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, cfg.Gateway.Timeout)
	master := service.NewGameMaster(cfg, gw, log.Logger)
	master.StartSweeper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Game master is ready")
		runConsole(ctx, master)
		sigChan <- syscall.SIGTERM
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	cancel()
	master.Stop()
	log.Info().Msg("Game master stopped gracefully")
}

// runConsole reads commands from stdin until EOF or quit.
func runConsole(ctx context.Context, master *service.GameMaster) {
	fmt.Println("commands: new | task <id> | eval <id> <description> | round <id> <description> | end <id> | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "new":
			gameID := master.CreateGame()
			fmt.Printf("game %s created\n", gameID)
			if msg, err := master.Commentator().GameStartMessage(ctx, gameID, []string{"player"}); err == nil {
				fmt.Println(msg)
			}

		case "task":
			if len(fields) < 2 {
				fmt.Println("usage: task <id>")
				continue
			}
			task, err := master.GenerateTask(ctx, fields[1])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("situation: %s\n(answer: %s)\n", task.Situation, task.Keyword)

		case "eval", "round":
			if len(fields) < 3 {
				fmt.Printf("usage: %s <id> <description>\n", fields[0])
				continue
			}
			gameID := fields[1]
			description := strings.Join(fields[2:], " ")
			if fields[0] == "eval" {
				eval, err := master.Evaluate(ctx, gameID, description)
				if err != nil {
					fmt.Println("error:", err)
					continue
				}
				printEvaluation(eval.Score, eval.Feedback)
			} else {
				eval, task, err := master.EvaluateAndAdvance(ctx, gameID, description)
				if err != nil {
					fmt.Println("error:", err)
					continue
				}
				printEvaluation(eval.Score, eval.Feedback)
				fmt.Printf("next situation: %s\n(answer: %s)\n", task.Situation, task.Keyword)
			}

		case "end":
			if len(fields) < 2 {
				fmt.Println("usage: end <id>")
				continue
			}
			master.EndGame(fields[1])
			fmt.Printf("game %s ended\n", fields[1])

		case "quit", "exit":
			return

		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func printEvaluation(score int, feedback string) {
	fmt.Println("score: " + strconv.Itoa(score))
	fmt.Println(feedback)
}
