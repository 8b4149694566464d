package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"basic-calculator/internal/config"
	"basic-calculator/internal/engine"
	"basic-calculator/internal/mcptools"
	"basic-calculator/internal/observability"
)

const version = "0.1.0"

func main() {
	portFlag := flag.Int("port", 0, "TCP port to listen on (0 for stdio)")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	// The production logger writes to stderr, which keeps stdio transport clean.
	if err := observability.InitLogger(); err != nil {
		log.Fatal(err)
	}
	defer observability.SyncLogger()

	calc := mcptools.NewCalculator(observability.Logger, engine.WithMaxDisplayLength(cfg.MaxDisplayLength))
	s := mcptools.NewServer("basic-calculator", version, calc)

	if *portFlag == 0 {
		if err := server.ServeStdio(s); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(s)
	observability.Logger.Sugar().Infof("Starting HTTP server on port %d", *portFlag)
	if err := httpServer.Start(fmt.Sprintf(":%d", *portFlag)); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
