package bootstrap

// ApplicationName identifies this component in logs and as the realtime instance id prefix.
const ApplicationName = "gateway"

// Config is the gateway's environment-sourced configuration, following the teacher's
// reflection-over-env-tags shape (the teacher's consumer component Config, see DESIGN.md).
type Config struct {
	EnvName  string `env:"ENV_NAME,default=local"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	ListenAddr string `env:"LISTEN_ADDR,default=:8080"`
	InstanceID string `env:"INSTANCE_ID"`

	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`

	JWTSecret string `env:"JWT_SECRET"`

	CORSAllowOrigins string `env:"CORS_ORIGIN,default=*"`

	AuthUpstream    string `env:"AUTH_UPSTREAM,default=http://auth:8080"`
	StudentUpstream string `env:"STUDENT_UPSTREAM,default=http://student-service:8080"`
	TrainerUpstream string `env:"TRAINER_UPSTREAM,default=http://trainer-service:8080"`
	AdminUpstream   string `env:"ADMIN_UPSTREAM,default=http://admin-service:8080"`

	JourneyServiceURL string `env:"JOURNEY_SERVICE_URL,default=http://journey-tracking:8080"`

	RateLimitAuthMaxAttempts    int `env:"RATE_LIMIT_AUTH_MAX,default=10"`
	RateLimitAuthWindowSeconds  int `env:"RATE_LIMIT_AUTH_WINDOW_SECONDS,default=60"`
	RateLimitOTPMaxAttempts     int `env:"RATE_LIMIT_OTP_MAX,default=5"`
	RateLimitOTPWindowSeconds   int `env:"RATE_LIMIT_OTP_WINDOW_SECONDS,default=300"`
	RateLimitStudentMaxAttempts int `env:"RATE_LIMIT_STUDENT_MAX,default=120"`
	RateLimitStudentWindowSeconds int `env:"RATE_LIMIT_STUDENT_WINDOW_SECONDS,default=60"`
	RateLimitTrainerMaxAttempts int `env:"RATE_LIMIT_TRAINER_MAX,default=120"`
	RateLimitTrainerWindowSeconds int `env:"RATE_LIMIT_TRAINER_WINDOW_SECONDS,default=60"`
	RateLimitAdminMaxAttempts   int `env:"RATE_LIMIT_ADMIN_MAX,default=240"`
	RateLimitAdminWindowSeconds int `env:"RATE_LIMIT_ADMIN_WINDOW_SECONDS,default=60"`

	MaxConnectionsPerInstance int `env:"WS_MAX_CONNECTIONS_PER_INSTANCE,default=1000"`
}
