package bootstrap

import (
	"strings"

	"github.com/brightpath/platform/pkg/platformconfig"
)

// ApplicationName identifies this component in logs and as a Kafka client id.
const ApplicationName = "allocation"

// ConsumerName is the fixed idempotency-ledger consumer name for this service (spec §4.2's
// ledger key is (eventId, consumerName)); it must never change once deployed or every existing
// ledger row becomes unreachable and every event replays.
const ConsumerName = "allocation-worker"

// Config is the configuration struct for the allocation service, following the teacher's
// reflection-over-env-tags shape (the teacher's consumer component Config, see DESIGN.md).
type Config struct {
	EnvName  string `env:"ENV_NAME,default=local"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	KafkaBrokers  string `env:"KAFKA_BROKERS,default=localhost:9092"`
	ConsumerGroup string `env:"CONSUMER_GROUP,default=allocation-worker"`

	DBHost     string `env:"DB_HOST"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBPort     string `env:"DB_PORT"`
	DBMaxConns int32  `env:"DB_MAX_CONNS,default=10"`
	DBMinConns int32  `env:"DB_MIN_CONNS,default=2"`

	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`

	RetryMaxAttempts int `env:"RETRY_MAX_ATTEMPTS,default=5"`

	MetricsAddr string `env:"METRICS_ADDR,default=:9090"`
}

func (c Config) kafkaBrokerList() []string {
	var out []string

	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			out = append(out, b)
		}
	}

	return out
}

func (c Config) postgresDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable"
}
