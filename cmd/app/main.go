package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/kafka"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode,
	)
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	publisher, err := kafka.NewEventPublisher([]string{configs.KafkaHost}, configs.KafkaEventsTopic)
	if err != nil {
		log.Fatalf("Error creating event publisher: %v", err)
	}
	defer publisher.Close()

	app, err := cmd.NewCompositionRoot(configs, gormDB, publisher, logger)
	if err != nil {
		log.Fatalf("Error building composition root: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		KafkaHost:        goDotEnvVariable("KAFKA_HOST"),
		KafkaEventsTopic: goDotEnvVariable("KAFKA_EVENTS_TOPIC"),

		CustomerDirectoryURL: goDotEnvVariable("CUSTOMER_DIRECTORY_URL"),

		SMSGatewayURL:      goDotEnvVariable("SMS_GATEWAY_URL"),
		SMSGatewayAPIKey:   goDotEnvVariable("SMS_GATEWAY_API_KEY"),
		EmailGatewayURL:    goDotEnvVariable("EMAIL_GATEWAY_URL"),
		EmailGatewayAPIKey: goDotEnvVariable("EMAIL_GATEWAY_API_KEY"),
		PushGatewayURL:     goDotEnvVariable("PUSH_GATEWAY_URL"),
		PushGatewayAPIKey:  goDotEnvVariable("PUSH_GATEWAY_API_KEY"),

		Teams: strings.Split(goDotEnvVariable("DELIVERY_TEAMS"), ","),

		MaxBackorderAttempts:   intEnvVariable("MAX_BACKORDER_ATTEMPTS"),
		MaxDeliveryAttempts:    intEnvVariable("MAX_DELIVERY_ATTEMPTS"),
		MaxNotificationRetries: intEnvVariable("MAX_NOTIFICATION_RETRIES"),
		NotificationBatchSize:  intEnvVariable("NOTIFICATION_BATCH_SIZE"),
		CostPerKmCents:         intEnvVariable("COST_PER_KM_CENTS"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func intEnvVariable(key string) int {
	value, err := strconv.Atoi(goDotEnvVariable(key))
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	app.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
