package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del storefront (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Cart    CartConfig
	Session SessionConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// APIConfig backend REST de LaptopHub.
type APIConfig struct {
	BaseURL string        // sin barra final; vacío = rutas relativas /api/...
	Timeout time.Duration // timeout por petición (carga del carrito incluida)
}

// DBConfig configuración de PostgreSQL para el almacén de sesiones.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
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

// JWTConfig configuración del token de sesión.
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

// CartConfig tiempos de la reconciliación del carrito.
type CartConfig struct {
	Debounce         time.Duration // ventana de asentamiento por ítem
	StockReloadDelay time.Duration // espera antes de recargar tras un conflicto de stock
	NoticeDuration   time.Duration // auto-ocultado de avisos (toasts)
}

// SessionConfig selecciona el almacén de sesiones: "postgres" o "memory".
type SessionConfig struct {
	Store       string
	IdleTimeout time.Duration // sesiones en memoria sin uso se liberan (el estado persistido se conserva)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, DB_HOST, JWT_SECRET, etc.
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

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "laptophub-storefront"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getString(v, "API_BASE_URL", "http://localhost:8080"), "/"),
			Timeout: time.Duration(getInt(v, "API_TIMEOUT_MS", 5000)) * time.Millisecond,
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "laptophub_storefront"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 24*60),
			Issuer:     getString(v, "JWT_ISSUER", "laptophub-storefront"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 4200),
		},
		Cart: CartConfig{
			Debounce:         time.Duration(getInt(v, "CART_DEBOUNCE_MS", 300)) * time.Millisecond,
			StockReloadDelay: time.Duration(getInt(v, "CART_STOCK_RELOAD_DELAY_MS", 5000)) * time.Millisecond,
			NoticeDuration:   time.Duration(getInt(v, "CART_NOTICE_MS", 2500)) * time.Millisecond,
		},
		Session: SessionConfig{
			Store:       strings.ToLower(getString(v, "SESSION_STORE", "postgres")),
			IdleTimeout: time.Duration(getInt(v, "SESSION_IDLE_MINUTES", 30)) * time.Minute,
		},
	}

	if cfg.Session.Store != "postgres" && cfg.Session.Store != "memory" {
		return nil, fmt.Errorf("SESSION_STORE inválido %q: use postgres o memory", cfg.Session.Store)
	}
	if cfg.Cart.Debounce <= 0 {
		return nil, fmt.Errorf("CART_DEBOUNCE_MS debe ser mayor que 0")
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
