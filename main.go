package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/haseeb1-1/final-grocery/handlers"
	"github.com/haseeb1-1/final-grocery/internal/auth"
	"github.com/haseeb1-1/final-grocery/internal/cart"
	"github.com/haseeb1-1/final-grocery/internal/consul"
	"github.com/haseeb1-1/final-grocery/internal/orders"
	"github.com/haseeb1-1/final-grocery/internal/products"
	"github.com/haseeb1-1/final-grocery/internal/stores/kafka"
	"github.com/haseeb1-1/final-grocery/internal/stores/postgres"
	"github.com/haseeb1-1/final-grocery/internal/users"
	"github.com/haseeb1-1/final-grocery/pkg/logkey"
)

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	db, err := postgres.OpenDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return err
	}

	uConf, err := users.NewConf(db)
	if err != nil {
		return err
	}
	pConf, err := products.NewConf(db)
	if err != nil {
		return err
	}
	cConf, err := cart.NewConf(db)
	if err != nil {
		return err
	}
	oConf, err := orders.NewConf(db)
	if err != nil {
		return err
	}

	keys, err := auth.NewKeys(os.Getenv("JWT_SECRET"))
	if err != nil {
		return err
	}

	adminVerifier := auth.EnvVerifier{
		Username:     os.Getenv("ADMIN_USER"),
		PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	// Kafka is optional; without a broker, events are dropped.
	var kConf *kafka.Conf
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kConf, err = kafka.NewConf(strings.Split(brokers, ","))
		if err != nil {
			return err
		}
		defer kConf.Close()
	}

	port := os.Getenv("SERVICE_PORT")
	if port == "" {
		port = "8080"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		return errors.New("invalid SERVICE_PORT")
	}

	// Consul registration is optional as well.
	if addr := os.Getenv("CONSUL_HTTP_ADDR"); addr != "" {
		client, err := consul.NewClient(addr, "grocery-storefront", portInt)
		if err != nil {
			return err
		}
		if err := client.RegisterService(); err != nil {
			return err
		}
		defer func() {
			if err := client.DeregisterService(); err != nil {
				slog.Error("consul deregistration failed", slog.String(logkey.ERROR, err.Error()))
			}
		}()
	}

	engine := handlers.API("/v1", uConf, pConf, cConf, oConf, kConf, keys, adminVerifier)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("storefront listening", slog.String("addr", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdown:
		slog.Info("shutdown started", slog.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return err
		}
	}
	return nil
}
