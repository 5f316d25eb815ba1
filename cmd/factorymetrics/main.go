package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ashleyolson477/fischertechnik-lambda/config"
	"github.com/ashleyolson477/fischertechnik-lambda/handler"
	"github.com/ashleyolson477/fischertechnik-lambda/messaging"
	"github.com/ashleyolson477/fischertechnik-lambda/metrics"
	"github.com/ashleyolson477/fischertechnik-lambda/www"
)

var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "factorymetrics.yaml", "path to config file")
	flag.Parse()

	if *showVersion {
		fmt.Println("factorymetrics", Version)
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("factorymetrics: .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Fatalf("config env: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Messaging client
	var msgClient *messaging.Client
	var publisher metrics.Publisher
	if cfg.Messaging.Backend != "" {
		msgClient = messaging.NewClient(&cfg.Messaging)
		if err := msgClient.Connect(); err != nil {
			log.Printf("factorymetrics: messaging connect failed (%v)", err)
		} else {
			log.Printf("factorymetrics: messaging connected (%s)", cfg.Messaging.Backend)
		}
		defer msgClient.Close()
		publisher = msgClient
	}

	// Metrics backends, shared by every message
	emitter, closeMetrics, err := metrics.Open(ctx, cfg, publisher, log.Default())
	if err != nil {
		log.Fatalf("open metrics: %v", err)
	}
	defer closeMetrics()

	h := handler.New(emitter, log.Default())

	if msgClient != nil {
		consumer := messaging.NewConsumer(msgClient, cfg.Messaging.InboundTopics, h)
		if err := consumer.Start(ctx); err != nil {
			log.Printf("factorymetrics: consumer: %v", err)
		}
	}

	// Web server
	var srv *http.Server
	if cfg.Web.Enabled {
		var bus www.Connectivity
		if msgClient != nil {
			bus = msgClient
		}
		addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
		srv = &http.Server{
			Addr:    addr,
			Handler: www.NewRouter(h, bus),
		}
		go func() {
			log.Printf("factorymetrics: web server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("web server: %v", err)
			}
		}()
	}

	log.Printf("factorymetrics: ready (namespace=%s)", cfg.Metrics.Namespace)

	// Wait for shutdown signal
	<-ctx.Done()

	log.Printf("factorymetrics: shutting down...")
	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}

	log.Printf("factorymetrics: stopped")
}
