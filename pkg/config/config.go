package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Redis  RedisConfig
	Ledger LedgerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
// ApplicationName se envía como application_name (visible en pg_stat_activity).
type DBConfig struct {
	DatabaseURL     string
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ApplicationName string
	MigrateOnStart  bool
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

// JWTConfig configuración de JWT (el token lo emite el servicio de identidad externo).
type JWTConfig struct {
	Secret string
	Issuer string
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

// RedisConfig configuración del almacén de idempotencia. Addr vacío = deshabilitado.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

// Enabled indica si hay un Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// LedgerConfig reglas configurables del núcleo contable.
type LedgerConfig struct {
	// InternalDirection decide cómo se trata un documento INTERNAL al conciliar: sale, purchase o reject.
	InternalDirection string
	// TxMaxRetries reintentos ante conflictos de serialización o deadlock.
	TxMaxRetries int
	// MovementKinds sobrescribe la tabla (código, signo) → tipo de movimiento. Formato: "DDT:-1=SALE_SHIPMENT,...".
	MovementKinds []MovementKindOverride
}

// MovementKindOverride una entrada de la tabla de tipos de movimiento.
type MovementKindOverride struct {
	Code string
	Sign int
	Kind string
}

// Valores válidos para LedgerConfig.InternalDirection.
const (
	InternalAsSale     = "sale"
	InternalAsPurchase = "purchase"
	InternalReject     = "reject"
)

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_ADDR, LEDGER_*, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	kinds, err := ParseMovementKinds(getString(v, "LEDGER_MOVEMENT_KINDS", ""))
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "gestionale-ledger"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:     getString(v, "DATABASE_URL", ""),
			Host:            getString(v, "DB_HOST", "localhost"),
			Port:            getInt(v, "DB_PORT", 5432),
			User:            getString(v, "DB_USER", "postgres"),
			Password:        getString(v, "DB_PASSWORD", ""),
			DBName:          getString(v, "DB_NAME", "gestionale"),
			SSLMode:         getString(v, "DB_SSLMODE", "disable"),
			MaxConns:        getInt(v, "DB_MAX_CONNS", 25),
			MinConns:        getInt(v, "DB_MIN_CONNS", 2),
			MaxConnLifetime: time.Duration(getInt(v, "DB_MAX_CONN_LIFETIME_MINUTES", 60)) * time.Minute,
			MaxConnIdleTime: time.Duration(getInt(v, "DB_MAX_CONN_IDLE_MINUTES", 30)) * time.Minute,
			ApplicationName: getString(v, "APP_NAME", "gestionale-ledger"),
			MigrateOnStart:  getBool(v, "DB_MIGRATE_ON_START", true),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "gestionale"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:           getString(v, "REDIS_ADDR", ""),
			Password:       getString(v, "REDIS_PASSWORD", ""),
			DB:             getInt(v, "REDIS_DB", 0),
			IdempotencyTTL: time.Duration(getInt(v, "IDEMPOTENCY_TTL_MINUTES", 24*60)) * time.Minute,
		},
		Ledger: LedgerConfig{
			InternalDirection: strings.ToLower(getString(v, "LEDGER_INTERNAL_DIRECTION", InternalAsSale)),
			TxMaxRetries:      getInt(v, "LEDGER_TX_MAX_RETRIES", 3),
			MovementKinds:     kinds,
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Ledger.InternalDirection {
	case InternalAsSale, InternalAsPurchase, InternalReject:
	default:
		return fmt.Errorf("config: LEDGER_INTERNAL_DIRECTION inválido %q (sale|purchase|reject)", c.Ledger.InternalDirection)
	}
	if c.Ledger.TxMaxRetries < 0 {
		return fmt.Errorf("config: LEDGER_TX_MAX_RETRIES no puede ser negativo")
	}
	if c.DB.MaxConns <= 0 {
		return fmt.Errorf("config: DB_MAX_CONNS debe ser positivo")
	}
	if c.DB.MinConns < 0 || c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("config: DB_MIN_CONNS debe estar entre 0 y DB_MAX_CONNS")
	}
	return nil
}

// ParseMovementKinds interpreta "CODE:+1=KIND,CODE:-1=KIND". La validación de KIND contra el
// catálogo se hace al construir la tabla de movimientos (inventory.NewMovementKindTable).
func ParseMovementKinds(raw string) ([]MovementKindOverride, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out []MovementKindOverride
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, kind, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("config: LEDGER_MOVEMENT_KINDS entrada sin '=': %q", entry)
		}
		code, signStr, ok := strings.Cut(key, ":")
		if !ok {
			return nil, fmt.Errorf("config: LEDGER_MOVEMENT_KINDS entrada sin ':': %q", entry)
		}
		sign, err := strconv.Atoi(strings.TrimSpace(signStr))
		if err != nil {
			return nil, fmt.Errorf("config: LEDGER_MOVEMENT_KINDS signo inválido en %q", entry)
		}
		out = append(out, MovementKindOverride{
			Code: strings.ToUpper(strings.TrimSpace(code)),
			Sign: sign,
			Kind: strings.ToUpper(strings.TrimSpace(kind)),
		})
	}
	return out, nil
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
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
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
