package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/shopadm/admin-gateway/internal/cart"
	"github.com/shopadm/admin-gateway/internal/checkout"
	"github.com/shopadm/admin-gateway/internal/commerce"
	"github.com/shopadm/admin-gateway/internal/events"
	h "github.com/shopadm/admin-gateway/internal/http"
)

type Config struct {
	HTTPPort         string
	RedisAddr        string
	KafkaBrokers     string
	CommerceEndpoint string
	CommerceToken    string
	RequestTimeout   time.Duration
	CommerceTimeout  time.Duration
	ShutdownTimeout  time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		CommerceEndpoint: getEnv("COMMERCE_API_URL", "http://localhost:4000/admin/api/graphql.json"),
		CommerceToken:    getEnv("COMMERCE_ACCESS_TOKEN", ""),
		RequestTimeout:   30 * time.Second,
		CommerceTimeout:  15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	commerceClient := commerce.NewClient(commerce.Config{
		Endpoint:    cfg.CommerceEndpoint,
		AccessToken: cfg.CommerceToken,
		Timeout:     cfg.CommerceTimeout,
	}, logger)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kp := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kp.Close()
		publisher = kp
	}

	cartService := cart.NewService(cart.NewRedisStore(redisClient), logger)
	sequencer := checkout.NewSequencer(
		commerceClient,
		checkout.NewRedisDraftStore(redisClient),
		publisher,
		logger,
	)

	cartHandler := h.NewCartHandler(cartService, commerceClient, cfg.RequestTimeout, logger)
	checkoutHandler := h.NewCheckoutHandler(sequencer, cartService, cfg.RequestTimeout, logger)
	productHandler := h.NewProductHandler(commerceClient, cfg.RequestTimeout, logger)
	customerHandler := h.NewCustomerHandler(commerceClient, cfg.RequestTimeout, logger)
	ordersHandler := h.NewOrdersHandler(commerceClient, cfg.RequestTimeout, logger)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{variant_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{variant_id}", cartHandler.RemoveItem)
		})
		r.Post("/checkout", checkoutHandler.Submit)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Post("/", productHandler.CreateProduct)
			r.Get("/{product_id}", productHandler.GetProduct)
		})
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", customerHandler.ListCustomers)
			r.Post("/", customerHandler.CreateCustomer)
			r.Get("/{customer_id}", customerHandler.GetCustomer)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/{order_id}", ordersHandler.GetOrder)
			r.Post("/{order_id}/cancel", ordersHandler.CancelOrder)
			r.Delete("/{order_id}", ordersHandler.DeleteOrder)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "admin-gateway"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("admin gateway starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
