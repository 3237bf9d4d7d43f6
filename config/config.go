package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jinzhu/configor"
	"github.com/joho/godotenv"
)

type Config struct {
	AppConfig       AppConfig       `env:"APPCONFIG"`
	DBConfig        DBConfig        `env:"DBCONFIG"`
	AuthConfig      AuthConfig      `env:"AUTHCONFIG"`
	NutritionConfig NutritionConfig `env:"NUTRITIONCONFIG"`
	LogConfig       LogConfig       `env:"LOGCONFIG"`
}

type AppConfig struct {
	APPName string `default:"vitals"`
	Version string `default:"x.x.x" env:"VERSION"`
	Port    int    `default:"8080" env:"APP_PORT"`
	Env     string `default:"development" env:"APP_ENV"`
}

type DBConfig struct {
	Host         string `default:"localhost" env:"DBHOST"`
	DataBase     string `default:"vitals" env:"DBNAME"`
	User         string `default:"postgres" env:"DBUSERNAME"`
	Password     string `required:"true" env:"DBPASSWORD" default:"mysecretpassword"`
	Port         uint   `default:"5432" env:"DBPORT"`
	SSLMode      string `default:"disable" env:"DBSSL"`
	MaxOpenConns int    `default:"10" env:"DBMAXOPEN"`
	MaxIdleConns int    `default:"5" env:"DBMAXIDLE"`
}

// DSN is the keyword/value form used by the gorm postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.DataBase, c.Port, c.SSLMode)
}

// URL is the postgres:// form expected by golang-migrate.
func (c DBConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DataBase,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

type AuthConfig struct {
	JWTSecret    string        `default:"change-me" env:"JWT_SECRET"`
	SessionTTL   time.Duration `default:"24h" env:"SESSION_TTL"`
	BcryptCost   int           `default:"10" env:"BCRYPT_COST"`
	CookieSecure bool          `default:"false" env:"COOKIE_SECURE"`
}

type NutritionConfig struct {
	BaseURL   string        `default:"https://world.openfoodfacts.org" env:"NUTRITION_BASE_URL"`
	Timeout   time.Duration `default:"15s" env:"NUTRITION_TIMEOUT"`
	UserAgent string        `default:"vitals/1.0 (+https://github.com/MyelinBots/vitals-go)" env:"NUTRITION_USER_AGENT"`
}

type LogConfig struct {
	Level  string `default:"info" env:"LOG_LEVEL"`
	Format string `default:"text" env:"LOG_FORMAT"`
}

func LoadConfigOrPanic() Config {
	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	var config = Config{}
	if err := configor.Load(&config, "config/config.dev.json"); err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}

	return config
}
