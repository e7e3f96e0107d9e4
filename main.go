package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/config"
	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/gql"
	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/mcp"
	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/scrape"
	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/service"
)

func main() {
	// Define command line flags
	stdioMode := flag.Bool("stdio", true, "Run in stdio mode")
	httpAddr := flag.String("http", "", "HTTP server address (e.g., ':8080')")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg := config.FromEnv()
	if !cfg.HasAPIKey() {
		// The scraping tools still work; only API-backed tools will
		// answer with a configuration error.
		log.Println("WARNING: RADIOFRANCE_API_KEY environment variable not set. API functionality will be limited.")
	}

	gateway := gql.NewClient(cfg, http.DefaultClient, logger)
	svc := service.NewService(gateway, logger)
	scraper := scrape.NewScraper(cfg, http.DefaultClient, logger)

	s := mcp.NewServer(logger, svc, scraper)

	if *httpAddr != "" {
		log.Printf("Starting MCP server on HTTP address: %s", *httpAddr)
		httpServer := mcp.NewMcpHTTPSSEServer(logger, s, svc, "/mcp", nil)
		if err := http.ListenAndServe(*httpAddr, httpServer); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}
	// Start the stdio server
	if *stdioMode {
		log.Println("Starting MCP server in stdio mode...")
	} else {
		log.Println("Starting MCP server in stdio mode (default)...")
	}
	if err := server.ServeStdio(s); err != nil {
		log.Fatal(err)
	}
}
