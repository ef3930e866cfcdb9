package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/exam-portal/internal/cli"
	"github.com/yourusername/exam-portal/internal/config"
	"github.com/yourusername/exam-portal/internal/repository/gas"
	"github.com/yourusername/exam-portal/internal/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yaml (optional)")
	endpointFile := flag.String("endpoint", "", "path to data.json with the encoded service endpoint")
	verbose := flag.Bool("v", false, "print service logs to stderr")
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if *endpointFile != "" {
		cfg.Service.EndpointFile = *endpointFile
	}

	endpoint, err := config.LoadEndpoint(cfg.Service.EndpointFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: configuration could not be loaded:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := gas.NewClient(endpoint, &http.Client{Timeout: cfg.Service.Timeout})
	app := cli.NewApp(
		service.NewAuthService(backend, cfg.Exam.AdminUsername),
		service.NewExamService(backend, service.ExamConfig{
			PassThreshold: cfg.Exam.PassThreshold,
			SubmitTimeout: cfg.Service.SubmitTimeout,
		}),
		service.NewResultService(backend, nil, 0),
		os.Stdin,
		os.Stdout,
	)

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
