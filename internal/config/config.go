package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ricky2013dev/smithpjt-verify/pkg/log"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress string

	JWTSecret    string
	DemoUsername string
	DemoPassword string

	EligibilityTokenURL     string
	EligibilityBaseURL      string
	EligibilityClientID     string
	EligibilityClientSecret string

	SpeechEnabled    bool
	ElevenLabsAPIKey string
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug(nil, "no .env file loaded")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "smithpjt-demo-secret"
		log.Warn(nil, "JWT_SECRET not set - using the demo default")
	}

	username := os.Getenv("DEMO_USERNAME")
	if username == "" {
		username = "frontdesk"
	}
	password := os.Getenv("DEMO_PASSWORD")
	if password == "" {
		password = "demo123"
	}

	elevenKey := os.Getenv("ELEVENLABS_API_KEY")
	speechEnabled := os.Getenv("SPEECH_ENABLED") == "true" && elevenKey != ""
	if os.Getenv("SPEECH_ENABLED") == "true" && elevenKey == "" {
		log.Warn(nil, "SPEECH_ENABLED set but ELEVENLABS_API_KEY missing - speech disabled")
	}

	cfg := Config{
		HTTPAddress:             addr,
		JWTSecret:               secret,
		DemoUsername:            username,
		DemoPassword:            password,
		EligibilityTokenURL:     os.Getenv("ELIGIBILITY_TOKEN_URL"),
		EligibilityBaseURL:      os.Getenv("ELIGIBILITY_BASE_URL"),
		EligibilityClientID:     os.Getenv("ELIGIBILITY_CLIENT_ID"),
		EligibilityClientSecret: os.Getenv("ELIGIBILITY_CLIENT_SECRET"),
		SpeechEnabled:           speechEnabled,
		ElevenLabsAPIKey:        elevenKey,
	}
	if cfg.EligibilityBaseURL == "" {
		log.Warn(nil, "ELIGIBILITY_BASE_URL not set - proxy routes will fail upstream")
	}
	log.Info(log.Fields{"addr": addr, "speech": speechEnabled}, "configuration loaded")
	return cfg
}
