package config

import (
	"errors"
	"time"

	"member-heatmap/internal/models"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
	DBSource       string `mapstructure:"DB_SOURCE"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	LogFormat      string `mapstructure:"LOG_FORMAT"`
	MaxUploadBytes int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	MapStyleURL    string `mapstructure:"MAP_STYLE_URL"`

	// PostcodeSource is "file", "postgres" or "none".
	PostcodeSource   string `mapstructure:"POSTCODE_SOURCE"`
	PostcodePath     string `mapstructure:"POSTCODE_PATH"`
	PostcodeEncoding string `mapstructure:"POSTCODE_ENCODING"`

	RosterEncoding     string `mapstructure:"ROSTER_ENCODING"`
	ColumnPostalCode   string `mapstructure:"COLUMN_POSTAL_CODE"`
	ColumnPrefecture   string `mapstructure:"COLUMN_PREFECTURE"`
	ColumnMunicipality string `mapstructure:"COLUMN_MUNICIPALITY"`
	ColumnTown         string `mapstructure:"COLUMN_TOWN"`
	ColumnBlock        string `mapstructure:"COLUMN_BLOCK"`
	ColumnWeight       string `mapstructure:"COLUMN_WEIGHT"`

	GeocoderEndpoint        string        `mapstructure:"GEOCODER_ENDPOINT"`
	GeocoderTimeout         time.Duration `mapstructure:"GEOCODER_TIMEOUT"`
	GeocoderAddressEncoding string        `mapstructure:"GEOCODER_ADDRESS_ENCODING"`
	GeocoderConcurrency     int           `mapstructure:"GEOCODER_CONCURRENCY"`
	GeocoderRateLimit       float64       `mapstructure:"GEOCODER_RATE_LIMIT"`
}

// LoadConfig reads configuration from app.env in path, if present, and from the environment.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	columns := models.DefaultColumns()
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MAX_UPLOAD_BYTES", 32<<20)
	v.SetDefault("MAP_STYLE_URL", "https://tile.openstreetmap.jp/styles/osm-bright-ja/style.json")
	v.SetDefault("POSTCODE_SOURCE", "file")
	v.SetDefault("POSTCODE_PATH", "postcode/KEN_ALL.csv")
	v.SetDefault("POSTCODE_ENCODING", "cp932")
	v.SetDefault("ROSTER_ENCODING", "cp932")
	v.SetDefault("COLUMN_POSTAL_CODE", columns.PostalCode)
	v.SetDefault("COLUMN_PREFECTURE", columns.Prefecture)
	v.SetDefault("COLUMN_MUNICIPALITY", columns.Municipality)
	v.SetDefault("COLUMN_TOWN", columns.Town)
	v.SetDefault("COLUMN_BLOCK", columns.Block)
	v.SetDefault("COLUMN_WEIGHT", "")
	v.SetDefault("GEOCODER_ENDPOINT", "http://geocode.csis.u-tokyo.ac.jp/cgi-bin/simple_geocode.cgi")
	v.SetDefault("GEOCODER_TIMEOUT", 5*time.Second)
	v.SetDefault("GEOCODER_ADDRESS_ENCODING", "raw")
	v.SetDefault("GEOCODER_CONCURRENCY", 1)
	v.SetDefault("GEOCODER_RATE_LIMIT", 0)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
	}

	err = v.Unmarshal(&config)
	return
}

// Columns returns the roster column names configured for the key builder.
func (c Config) Columns() models.Columns {
	return models.Columns{
		PostalCode:   c.ColumnPostalCode,
		Prefecture:   c.ColumnPrefecture,
		Municipality: c.ColumnMunicipality,
		Town:         c.ColumnTown,
		Block:        c.ColumnBlock,
		Weight:       c.ColumnWeight,
	}
}
