package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"github.com/benytrp/e3-ordertst/internal/handlers"
	"github.com/benytrp/e3-ordertst/internal/notify"
	"github.com/benytrp/e3-ordertst/internal/ordernum"
	"github.com/benytrp/e3-ordertst/internal/ratelimit"
	"github.com/benytrp/e3-ordertst/internal/services"
	"github.com/benytrp/e3-ordertst/pkg/mailer"
	"github.com/benytrp/e3-ordertst/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Viper reads everything from environment variables, with defaults
	// for what can safely default. SMTP host and the business address
	// cannot: their absence aborts startup rather than silently no-oping.
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("MAIL_FROM", "orders@e3store.example.com")
	viper.SetDefault("RATE_LIMIT_MAX", 5)
	viper.SetDefault("RATE_LIMIT_WINDOW", "15m")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	smtpHost := viper.GetString("SMTP_HOST")
	businessEmail := viper.GetString("BUSINESS_EMAIL")

	if smtpHost == "" {
		log.Fatalf("SMTP_HOST is required")
	}
	if businessEmail == "" {
		log.Fatalf("BUSINESS_EMAIL is required")
	}

	// --- Initialize SMTP Transport ---
	mailClient, err := mailer.NewClient(mailer.Config{
		Host:     smtpHost,
		Port:     viper.GetInt("SMTP_PORT"),
		Username: viper.GetString("SMTP_USERNAME"),
		Password: viper.GetString("SMTP_PASSWORD"),
	})
	if err != nil {
		log.Fatalf("Failed to initialize SMTP client: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	// Order events are best-effort; without a broker URL the service
	// runs without them.
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, order event publication disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Initialize Rate Gate ---
	gate := newGate(ctx)

	// --- Initialize Services ---
	composer := notify.NewComposer(viper.GetString("MAIL_FROM"), businessEmail)
	dispatcher := notify.NewDispatcher(mailClient)

	var events services.EventPublisher
	if mqClient != nil {
		events = mqClient
	}
	intakeService := services.NewIntakeService(ordernum.New(), composer, dispatcher, events)

	// --- Initialize Fiber App ---
	app := NewApp(intakeService, gate)

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		log.Println("Starting RabbitMQ consumer for order events...")
		messageHandler := func(msg amqp.Delivery) error {
			log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		}
		if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// NewApp assembles the Fiber application with middleware and routes.
func NewApp(intakeService *services.IntakeService, gate ratelimit.Gate) *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")

	orderHandler := handlers.NewOrderHandler(intakeService, gate)
	orderHandler.RegisterRoutes(apiV1)

	app.Get("/health", handlers.Health)

	return app
}

// newGate picks the rate gate backing store: Redis when REDIS_URL is
// configured, otherwise an in-process map with a janitor. Either way the
// policy is the same fixed window.
func newGate(ctx context.Context) ratelimit.Gate {
	limit := viper.GetInt("RATE_LIMIT_MAX")
	window := viper.GetDuration("RATE_LIMIT_WINDOW")

	if redisURL := viper.GetString("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		log.Printf("Rate gate backed by Redis at %s", opts.Addr)
		return ratelimit.NewRedisStore(redis.NewClient(opts), limit, window)
	}

	store := ratelimit.NewMemoryStore(limit, window)
	store.StartJanitor(ctx, window)
	return store
}
