package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del servicio de menú (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Remote RemoteConfig
	Feed   FeedConfig
	Sync   SyncConfig
	Menu   MenuConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL (catálogo local, stock, pedidos y auditoría).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración del token de staff (cozinha, garçom, admin).
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RemoteConfig backend remoto (réplica secundaria del catálogo) y su canal de deltas.
type RemoteConfig struct {
	Enabled     bool
	BaseURL     string
	APIKey      string
	RealtimeURL string // ws(s)://... vacío = sin suscripción en vivo
	Timeout     time.Duration
	Retries     int
	RetryDelay  time.Duration
}

// Configured indica si hay URL y clave suficientes para contactar el backend remoto.
func (c RemoteConfig) Configured() bool {
	return c.Enabled && c.BaseURL != "" && c.APIKey != ""
}

// FeedConfig feed estático de respaldo (<base>/menu_feed.json).
type FeedConfig struct {
	BaseURL  string
	Timeout  time.Duration
	MaxBytes int64 // 0 = feed.DefaultMaxBytes
}

// SyncConfig periodicidad del refresco del snapshot.
type SyncConfig struct {
	RefreshInterval time.Duration
}

// MenuConfig parámetros de presentación que afectan al motor (ordenación por idioma).
type MenuConfig struct {
	Locale string // BCP 47, ej. pt-AO
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, REMOTE_BASE_URL, FEED_BASE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "menu-engine"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "menu_engine"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "menu-engine"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Remote: RemoteConfig{
			Enabled:     getBool(v, "REMOTE_ENABLED", true),
			BaseURL:     strings.TrimRight(getString(v, "REMOTE_BASE_URL", ""), "/"),
			APIKey:      getString(v, "REMOTE_API_KEY", ""),
			RealtimeURL: getString(v, "REMOTE_REALTIME_URL", ""),
			Timeout:     getDuration(v, "REMOTE_TIMEOUT", 8*time.Second),
			Retries:     getInt(v, "REMOTE_RETRIES", 3),
			RetryDelay:  getDuration(v, "REMOTE_RETRY_DELAY", 800*time.Millisecond),
		},
		Feed: FeedConfig{
			BaseURL:  strings.TrimRight(getString(v, "FEED_BASE_URL", ""), "/"),
			Timeout:  getDuration(v, "FEED_TIMEOUT", 5*time.Second),
			MaxBytes: int64(getInt(v, "FEED_MAX_BYTES", 0)),
		},
		Sync: SyncConfig{
			RefreshInterval: getDuration(v, "SYNC_REFRESH_INTERVAL", 5*time.Minute),
		},
		Menu: MenuConfig{
			Locale: getString(v, "MENU_LOCALE", "pt-AO"),
		},
	}

	if cfg.Remote.Retries < 0 {
		return nil, fmt.Errorf("config: REMOTE_RETRIES no puede ser negativo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getDuration acepta "5s", "2m" o un número entero de milisegundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return def
}
