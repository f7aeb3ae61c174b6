package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/codelensd/engine/internal/engine"
	"github.com/codelensd/engine/internal/mcpserver"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("codelensd %s\n", version)
		os.Exit(0)
	}

	// stdout is reserved for the MCP protocol.
	log.SetOutput(os.Stderr)
	log.Printf("codelensd %s starting...", version)

	cacheDir := os.Getenv("CODELENSD_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = mcpserver.DefaultCacheDir
	}

	workers := 4
	if v := os.Getenv("CODELENSD_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workers = n
		}
	}

	generateEmbeddings := os.Getenv("CODELENSD_NO_EMBEDDINGS") == ""

	srv, err := mcpserver.NewServer(engine.Config{
		CacheDir:           cacheDir,
		Workers:            workers,
		GenerateEmbeddings: generateEmbeddings,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("codelensd ready, listening on stdio...")
		errChan <- srv.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("received signal %v, shutting down gracefully...", sig)
		cancel()
		_ = srv.Close()
	case err := <-errChan:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}

	log.Println("server stopped")
}
