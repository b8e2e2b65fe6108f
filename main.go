package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pstuifzand/prompt-diff/internal/app"
	"github.com/pstuifzand/prompt-diff/internal/config"
	"github.com/pstuifzand/prompt-diff/internal/socket"
)

func main() {
	logFile, err := os.Create("tpdiff.log")
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	debug := flag.Bool("debug", false, "Enable debug mode (shows key events in status, dumps snapshots to the log)")
	configPath := flag.String("config", "", "Config file (default $XDG_CONFIG_HOME/prompt-diff/config.toml)")
	toggle := flag.Bool("toggle", false, "Toggle the diff overlay of a running tpdiff instance")
	enable := flag.Bool("enable", false, "Switch on the diff overlay of a running tpdiff instance")
	disable := flag.Bool("disable", false, "Switch off the diff overlay of a running tpdiff instance")
	status := flag.Bool("status", false, "Show the diff state of a running tpdiff instance")
	flag.Parse()

	if *toggle || *enable || *disable || *status {
		if err := remoteControl(*toggle, *enable, *disable); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var filePath string
	if args := flag.Args(); len(args) > 0 {
		filePath = args[0]
	}
	// filePath will be empty if no argument provided, which shows an empty viewer

	application, err := app.NewApp(filePath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *debug {
		application.SetDebugMode(true)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}

// remoteControl sends one request to the newest running tpdiff instance and
// prints the resulting state
func remoteControl(toggle, enable, disable bool) error {
	socketPath, pid, err := socket.FindRunningInstance()
	if err != nil {
		return fmt.Errorf("no running tpdiff instance found: %w", err)
	}
	log.Printf("Found running instance at PID %d: %s", pid, socketPath)

	client, err := socket.NewClient(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	var response *socket.Response
	switch {
	case toggle:
		response, err = client.Toggle()
	case enable:
		response, err = client.SetEnabled(true)
	case disable:
		response, err = client.SetEnabled(false)
	default:
		response, err = client.Status()
	}
	if err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	if !response.Success {
		return fmt.Errorf("server error: %s", response.Message)
	}

	fmt.Println(response.Message)
	return nil
}
