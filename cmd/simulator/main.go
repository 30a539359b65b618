package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var (
	port        = flag.Int("port", 5050, "Port to listen on")
	apiKey      = flag.String("api-key", "0123456789abcdef0123456789abcdef", "API key callers must present")
	interactive = flag.Bool("interactive", false, "Enable interactive mode")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// Setup logger
	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create simulator config
	config := &SimulatorConfig{
		Port:   *port,
		APIKey: *apiKey,
	}

	// Create and start simulator
	simulator := NewSimulator(config, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down simulator...")
		simulator.Stop()
		os.Exit(0)
	}()

	simulator.Start()

	if *interactive {
		runInteractiveMode(simulator)
		simulator.Stop()
	} else {
		fmt.Printf("Movie manager simulator started\n")
		fmt.Printf("  Base URL: http://localhost:%d\n", *port)
		fmt.Printf("  API key:  %s\n", *apiKey)
		fmt.Println("\nPress Ctrl+C to stop")

		// Keep running
		select {}
	}
}

func runInteractiveMode(sim *Simulator) {
	fmt.Println("\nMovie Manager Simulator - Interactive Mode")
	fmt.Println("==========================================")
	fmt.Println("Commands:")
	fmt.Println("  list           - Show the library")
	fmt.Println("  done <title>   - Mark a queued movie as downloaded")
	fmt.Println("  quit           - Exit simulator")
	fmt.Println("")

	sim.RunInteractive()
}
