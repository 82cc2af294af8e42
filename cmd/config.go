package cmd

// Config carries the process configuration resolved from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost        string
	KafkaEventsTopic string

	CustomerDirectoryURL string

	SMSGatewayURL      string
	SMSGatewayAPIKey   string
	EmailGatewayURL    string
	EmailGatewayAPIKey string
	PushGatewayURL     string
	PushGatewayAPIKey  string

	// Teams planned by the daily route planning job.
	Teams []string

	MaxBackorderAttempts   int
	MaxDeliveryAttempts    int
	MaxNotificationRetries int
	NotificationBatchSize  int
	CostPerKmCents         int
}
