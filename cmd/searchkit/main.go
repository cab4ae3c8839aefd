package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/translatekit/searchkit/api"
	"github.com/translatekit/searchkit/internal/engine"
)

func main() {
	// Define command-line flags
	var (
		help    = flag.Bool("help", false, "Show help message")
		version = flag.Bool("version", false, "Show version information")
		port    = flag.String("port", "8080", "Port to run the server on")
		dbPath  = flag.String("db-path", "./searchkit.db", "Path to the SQLite database file")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("SearchKit - Field-boosted full-text and prefix search over SQLite\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000              # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --db-path /tmp/search.db # Use a custom database file\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("SearchKit v1.0.0\n")
		fmt.Printf("Field-boosted search with prefix matching and fuzzy fallback\n")
		return
	}

	// Initialize the search engine
	log.Printf("Using database: %s", *dbPath)
	eng, err := engine.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open search engine: %v", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			log.Printf("Warning: failed to close search engine: %v", err)
		}
	}()

	// Initialize Gin router
	router := gin.Default()

	// Setup API routes
	api.SetupRoutes(router, eng.FieldIndex, eng.FieldSearch, eng.PrefixIndex, eng.PrefixSearch)

	// Start the server
	log.Printf("Starting server on port %s...", *port)
	if err := router.Run(":" + *port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
