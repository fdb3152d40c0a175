package service

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	AdminToken              string  `envconfig:"ADMIN_TOKEN"`
	Host                    string  `envconfig:"HOST" default:"localhost:3000"`
	Port                    int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit        int     `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit         int     `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit          int     `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus        bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int     `envconfig:"PROMETHEUS_PORT" default:"9092"`
	ProviderBaseUrl         string  `envconfig:"PROVIDER_BASE_URL" required:"true"`
	ProviderKeyId           string  `envconfig:"PROVIDER_KEY_ID" required:"true"`
	ProviderKeySecret       string  `envconfig:"PROVIDER_KEY_SECRET" required:"true"`
	ProviderTimeout         int     `envconfig:"PROVIDER_TIMEOUT" default:"15"` // in seconds
	WebhookSecret           string  `envconfig:"WEBHOOK_SECRET"`
	CallbackBaseUrl         string  `envconfig:"CALLBACK_BASE_URL"`
	MinPaymentAmount        int64   `envconfig:"MIN_PAYMENT_AMOUNT" default:"100"`
	MaxPaymentAmount        int64   `envconfig:"MAX_PAYMENT_AMOUNT" default:"0"` // 0 means the upper bound check is disabled
	DefaultCurrency         string  `envconfig:"DEFAULT_CURRENCY" default:"INR"`
}
