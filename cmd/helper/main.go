package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// Drives one simulated driver against a running status board, either over the
// driver socket or through the SMS webhook.
func main() {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "url", "http://localhost:5001", "status board base URL")
	flag.StringVar(&cfg.Mode, "mode", "ws", "ingress to use: ws or sms")
	flag.DurationVar(&cfg.CodeInterval, "interval", DefaultCodeInterval, "delay between codes")
	flag.IntVar(&cfg.Rounds, "rounds", 3, "location/busy rounds before going offline")
	flag.StringVar(&cfg.Credentials.Name, "name", "Sim Driver", "driver name")
	flag.StringVar(&cfg.Credentials.Phone, "phone", "", "10 digit driver phone")
	flag.StringVar(&cfg.Credentials.Password, "password", "simdriver", "driver password")
	flag.StringVar(&cfg.Credentials.VehicleType, "vehicle", "Auto", "Auto or Rickshaw")
	flag.StringVar(&cfg.Credentials.VehicleNumber, "plate", "UP78 SIM 1", "vehicle number")
	flag.Parse()

	if cfg.Credentials.Phone == "" {
		log.Fatal("phone is required")
	}
	if cfg.Mode != "ws" && cfg.Mode != "sms" {
		log.Fatalf("unknown mode %q", cfg.Mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := &Logger{}
	if err := NewDriverService(ctx, cfg, logger).Run(); err != nil {
		logger.Error("Simulation failed: %v", err)
		os.Exit(1)
	}
}
