package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	ApiURL       string        `yaml:"api_url" validate:"required,url"`
	PollInterval time.Duration `yaml:"poll_interval" validate:"gt=0"`
	Canvas       Canvas        `yaml:"canvas"`
	Log          Log           `yaml:"log"`
	Server       Server        `yaml:"server"`
}

// Canvas holds the interaction constants of the board view.
type Canvas struct {
	BoardSize         float64 `yaml:"board_size" validate:"gt=0"`
	MinZoom           float64 `yaml:"min_zoom" validate:"gt=0"`
	MaxZoom           float64 `yaml:"max_zoom" validate:"gtfield=MinZoom"`
	WheelIntensity    float64 `yaml:"wheel_intensity" validate:"gt=0"`
	MaxAutoWidth      float64 `yaml:"max_auto_width" validate:"gt=0"`
	MaxTextAreaHeight float64 `yaml:"max_textarea_height" validate:"gt=0"`
	MinCardSize       float64 `yaml:"min_card_size" validate:"gt=0"`
	// Rendered footprint of a text card, used to keep it inside the board.
	TextCardWidth     float64 `yaml:"text_card_width" validate:"gt=0"`
	TextCardHeight    float64 `yaml:"text_card_height" validate:"gt=0"`
}

type Log struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
}

// Server configures the reference persistence service.
type Server struct {
	Addr           string        `yaml:"addr" validate:"required"`
	Store          string        `yaml:"store" validate:"oneof=memory postgres"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	TokenTTL       time.Duration `yaml:"token_ttl" validate:"gt=0"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" validate:"gt=0"`
	UploadDir      string        `yaml:"upload_dir" validate:"required"`
	ImageMimeTypes []string      `yaml:"image_mime_types" validate:"min=1"`
	HTTPS          bool          `yaml:"https"`
	AuthRate       RateLimit     `yaml:"auth_rate"`
	UploadRate     RateLimit     `yaml:"upload_rate"`
}

// RateLimit is a token bucket: PerMinute refill with bursts up to Burst.
type RateLimit struct {
	PerMinute float64 `yaml:"per_minute" validate:"gt=0"`
	Burst     float64 `yaml:"burst" validate:"gte=1"`
}

func (r RateLimit) PerSecond() float64 {
	return r.PerMinute / 60
}

type Private struct {
	JwtKey string `yaml:"jwt_key" validate:"required"`
	Pg     Pg     `yaml:"pg"`
}

// Pg holds the connection settings used when server.store is postgres.
type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"omitempty,gt=0,lte=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
}

func (p Pg) Configured() bool {
	return p.Host != "" && p.User != "" && p.Dbname != ""
}

func (s *Config) JwtKey() string {
	return s.private.JwtKey
}

func (s *Config) Pg() Pg {
	return s.private.Pg
}

func (s *Config) TokenTTL() time.Duration {
	return s.Public.Server.TokenTTL
}

// DefaultPublic returns the values used for any key missing from public.yaml.
func DefaultPublic() Public {
	return Public{
		ApiURL:       "http://localhost:8080",
		PollInterval: 5 * time.Second,
		Canvas:       DefaultCanvas(),
		Log:          Log{Level: "info"},
		Server: Server{
			Addr:           ":8080",
			Store:          "memory",
			AllowedOrigins: []string{"http://localhost:5173"},
			TokenTTL:       72 * time.Hour,
			MaxUploadBytes: 10 << 20,
			UploadDir:      "uploads",
			ImageMimeTypes: []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp"},
			AuthRate:       RateLimit{PerMinute: 10, Burst: 5},
			UploadRate:     RateLimit{PerMinute: 30, Burst: 10},
		},
	}
}

func DefaultCanvas() Canvas {
	return Canvas{
		BoardSize:         5000,
		MinZoom:           0.25,
		MaxZoom:           3,
		WheelIntensity:    0.001,
		MaxAutoWidth:      640,
		MaxTextAreaHeight: 260,
		MinCardSize:       20,
		TextCardWidth:     360,
		TextCardHeight:    96,
	}
}

func Validate(v any) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
	if err := Validate(output); err != nil {
		panic(err.Error())
	}
}

func MustLoad(configFolder string) *Config {
	public := DefaultPublic()
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	private := Private{Pg: Pg{Port: 5432, SSLMode: "disable"}}
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}

// MustLoadPublic loads only public.yaml, for clients that hold no secrets.
func MustLoadPublic(configFolder string) Public {
	public := DefaultPublic()
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)
	return public
}
