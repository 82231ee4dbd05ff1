package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	app := NewApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.startup(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Startup failed:", err)
		os.Exit(1)
	}

	handlers := NewHandlers(app)
	router := handlers.SetupRoutes()

	addr := app.config().ListenAddr
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		app.Log("Listening on " + addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintln(os.Stderr, "Server error:", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Log("HTTP shutdown error: " + err.Error())
	}

	app.shutdown()
}
