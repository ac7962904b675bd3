package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type (
	Tasks struct {
		OfferExpiryInterval time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware  rate limiter capacity
		RateLimiterBurst int           // middlewarerate limiter burst/refill
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	// Dispatch - настройки движка назначения. Все значения имеют
	// продуктовые дефолты и переопределяются через env.
	Dispatch struct {
		OfferTimeout      time.Duration
		PresenceStaleness time.Duration
		MaxActiveOrders   int
		MaxPendingOffers  int
		CandidatePageSize int
		OfferPageSize     int
		OfferRetention    time.Duration
	}

	Kafka struct {
		PortHealthcheck  string
		Brokers          string
		OrderEventsTopic string
		OfferEventsTopic string
		ConsumerGroup    string
		Sarama           Sarama
		Handlers         KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		Events Events
	}

	Events struct {
		ProcessTimeout time.Duration
	}

	Config struct {
		Tasks    Tasks
		Server   HTTPServer
		Database Database
		Dispatch Dispatch
		Kafka    Kafka
	}
)

const (
	defaultOfferTimeout        = 55 * time.Second
	defaultPresenceStaleness   = 120 * time.Second
	defaultMaxActiveOrders     = 3
	defaultMaxPendingOffers    = 3
	defaultCandidatePageSize   = 200
	defaultOfferPageSize       = 200
	defaultOfferRetention      = 7 * 24 * time.Hour
	defaultOfferExpiryInterval = 60 * time.Second
)

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

func loadFromEnv() (*Config, error) {
	offerExpiryInterval, err := osGetEnvDurationDefault("BACKGROUND_OFFER_EXPIRY_INTERVAL", defaultOfferExpiryInterval)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	offerTimeout, err := osGetEnvDurationDefault("DISPATCH_OFFER_TIMEOUT", defaultOfferTimeout)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	presenceStaleness, err := osGetEnvDurationDefault("DISPATCH_PRESENCE_STALENESS", defaultPresenceStaleness)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	maxActiveOrders, err := osGetIntDefault("DISPATCH_MAX_ACTIVE_ORDERS", defaultMaxActiveOrders)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	maxPendingOffers, err := osGetIntDefault("DISPATCH_MAX_PENDING_OFFERS", defaultMaxPendingOffers)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	candidatePageSize, err := osGetIntDefault("DISPATCH_CANDIDATE_PAGE_SIZE", defaultCandidatePageSize)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	offerPageSize, err := osGetIntDefault("DISPATCH_OFFER_PAGE_SIZE", defaultOfferPageSize)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	offerRetention, err := osGetEnvDurationDefault("DISPATCH_OFFER_RETENTION", defaultOfferRetention)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	eventProcessTimeout, err := osGetEnvDuration("KAFKA_HANDLER_EVENT_PROCESS_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &Config{
		Tasks: Tasks{
			OfferExpiryInterval: offerExpiryInterval,
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Dispatch: Dispatch{
			OfferTimeout:      offerTimeout,
			PresenceStaleness: presenceStaleness,
			MaxActiveOrders:   maxActiveOrders,
			MaxPendingOffers:  maxPendingOffers,
			CandidatePageSize: candidatePageSize,
			OfferPageSize:     offerPageSize,
			OfferRetention:    offerRetention,
		},
		Kafka: Kafka{
			Brokers:          os.Getenv("KAFKA_BROKERS"),
			OrderEventsTopic: os.Getenv("KAFKA_ORDER_EVENTS_TOPIC"),
			OfferEventsTopic: os.Getenv("KAFKA_OFFER_EVENTS_TOPIC"),
			ConsumerGroup:    os.Getenv("KAFKA_CONSUMER_GROUP"),
			PortHealthcheck:  os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				Events: Events{
					ProcessTimeout: eventProcessTimeout,
				},
			},
		},
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if cfg.Database.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if cfg.Database.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if cfg.Database.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if cfg.Database.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}

	if cfg.Tasks.OfferExpiryInterval <= time.Duration(0) {
		return errors.New("BACKGROUND_OFFER_EXPIRY_INTERVAL must be positive")
	}

	if cfg.Dispatch.OfferTimeout <= time.Duration(0) {
		return errors.New("DISPATCH_OFFER_TIMEOUT must be positive")
	}
	if cfg.Dispatch.PresenceStaleness <= time.Duration(0) {
		return errors.New("DISPATCH_PRESENCE_STALENESS must be positive")
	}
	if cfg.Dispatch.MaxActiveOrders <= 0 {
		return errors.New("DISPATCH_MAX_ACTIVE_ORDERS must be positive")
	}
	if cfg.Dispatch.MaxPendingOffers <= 0 {
		return errors.New("DISPATCH_MAX_PENDING_OFFERS must be positive")
	}
	if cfg.Dispatch.CandidatePageSize <= 0 {
		return errors.New("DISPATCH_CANDIDATE_PAGE_SIZE must be positive")
	}
	if cfg.Dispatch.OfferPageSize <= 0 {
		return errors.New("DISPATCH_OFFER_PAGE_SIZE must be positive")
	}
	if cfg.Dispatch.OfferRetention <= time.Duration(0) {
		return errors.New("DISPATCH_OFFER_RETENTION must be positive")
	}

	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.OrderEventsTopic == "" {
		return errors.New("KAFKA_ORDER_EVENTS_TOPIC is required")
	}
	if cfg.Kafka.OfferEventsTopic == "" {
		return errors.New("KAFKA_OFFER_EVENTS_TOPIC is required")
	}
	if cfg.Kafka.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if cfg.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}

	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}

	if cfg.Kafka.Handlers.Events.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_EVENT_PROCESS_TIMEOUT is required")
	}

	return nil
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetIntDefault(s string, def int) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return def, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDurationDefault(s string, def time.Duration) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return def, nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}
