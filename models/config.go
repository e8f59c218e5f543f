package models

// Config holds every environment-provided setting the server needs.
// Certificate material arrives base64-encoded so it can travel through
// the deployment platform's secret store as single-line values.
type Config struct {
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"supapass"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// PassKit signing material, each a base64-encoded PEM blob.
	WWDRCert            string `env:"WWDR,required"`
	SignerCert          string `env:"SIGNER_CERT,required"`
	SignerKey           string `env:"SIGNER_KEY,required"`
	SignerKeyPassphrase string `env:"SIGNER_KEY_PASSPHRASE"`

	TeamIdentifier     string `env:"TEAM_IDENTIFIER,required"`
	PassTypeIdentifier string `env:"PASS_TYPE_IDENTIFIER" envDefault:"pass.com.supabase.supapass"`
	WebServiceURL      string `env:"APP_URL,required"`

	GitHubToken   string `env:"GITHUB_PAT,required"`
	SessionSecret string `env:"SESSION_SECRET,required"`

	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
}
