package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/Forom-ets/discord-forom/internal/command"
	"github.com/Forom-ets/discord-forom/internal/config"
	"github.com/Forom-ets/discord-forom/internal/delivery"
	"github.com/Forom-ets/discord-forom/internal/gateway"
	"github.com/Forom-ets/discord-forom/internal/log"
	"github.com/Forom-ets/discord-forom/internal/registry"
	"github.com/Forom-ets/discord-forom/internal/storage"
	"github.com/Forom-ets/discord-forom/internal/verify"
)

var version = "0.1.0-dev"

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(cliArgs []string) int {
	if len(cliArgs) < 1 {
		printUsage()
		return 1
	}

	cmd := cliArgs[0]
	args := cliArgs[1:]

	switch cmd {
	case "serve", "start":
		return runServe(args)
	case "register":
		return runRegister(args)
	case "version", "--version":
		fmt.Printf("forom %s\n", version)
		return 0
	case "help", "--help", "-h":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `forom - Discord/GitHub webhook relay

Usage:
  forom serve [--config <path>]     Run the gateway server
  forom register [--config <path>]  Register application commands with Discord
  forom version                     Print version

Configuration comes from the YAML file (optional) with environment variable
overrides: APP_ID, PUBLIC_KEY, DISCORD_TOKEN, GUILD_ID, GITHUB_WEBHOOK_SECRET,
PUBLIC_URL, PORT.
`)
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel)
	logger := log.WithComponent("main")

	if cfg.Discord.PublicKey == "" {
		fmt.Fprintln(os.Stderr, "PUBLIC_KEY is required to verify interaction callbacks")
		return 1
	}
	verifier, err := verify.NewInteractionVerifier(cfg.Discord.PublicKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid public key: %v\n", err)
		return 1
	}

	githubPolicy := verify.Disabled()
	if cfg.GitHub.WebhookSecret != "" {
		githubPolicy = verify.Enforced(cfg.GitHub.WebhookSecret)
	} else {
		logger.Warn("GITHUB_WEBHOOK_SECRET not set, webhook signatures will not be verified")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rules registry.Store
	if cfg.State.Path != "" {
		db, err := storage.OpenSQLite(ctx, cfg.State.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Storage error: %v\n", err)
			return 1
		}
		defer db.Close()
		rules = registry.NewSQLiteStore(db)
		logger.Info("routing rules persisted to sqlite", "path", cfg.State.Path)
	} else {
		rules = registry.NewMemoryStore()
		logger.Warn("routing rules are in-memory and will be lost on restart")
	}

	sender, err := delivery.NewDiscordSender(cfg.Discord.BotToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Discord error: %v\n", err)
		return 1
	}
	dispatcher := delivery.NewDispatcher(sender, cfg.Delivery.QueueDepth, cfg.Delivery.Workers)

	server := gateway.New(gateway.Config{
		Listen:    cfg.Listen,
		PublicURL: cfg.PublicURL,
	}, rules, dispatcher, verifier, githubPolicy, log.WithComponent("gateway"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := dispatcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("delivery dispatcher failed", "error", err)
		}
	}()

	err = server.Start(ctx)
	stop()
	wg.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("gateway server failed", "error", err)
		return 1
	}
	logger.Info("shutdown complete")
	return 0
}

func runRegister(args []string) int {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}
	if cfg.Discord.AppID == "" || cfg.Discord.BotToken == "" {
		fmt.Fprintln(os.Stderr, "APP_ID and DISCORD_TOKEN are required to register commands")
		return 1
	}

	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Discord error: %v\n", err)
		return 1
	}

	if err := command.Register(session, cfg.Discord.AppID, cfg.Discord.GuildID); err != nil {
		fmt.Fprintf(os.Stderr, "Registration failed: %v\n", err)
		return 1
	}

	scope := "globally"
	if cfg.Discord.GuildID != "" {
		scope = "for guild " + cfg.Discord.GuildID
	}
	fmt.Printf("Registered %d commands %s\n", len(command.Definitions()), scope)
	return 0
}
