package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Mutter0815/ColdMailer/pkg/logx"
)

type APIConfig struct {
	Port         string
	DBDSN        string
	RMQURL       string
	OutcomeQueue string

	MailProvider string
	SMTPAddr     string
	EmailUser    string
	EmailPass    string
	ResendAPIKey string
	MailFrom     string
	ResumePath   string
	PrecheckAuth bool

	Timezone string
}

type RecorderConfig struct {
	DBDSN        string
	RMQURL       string
	OutcomeQueue string
}

var (
	API      APIConfig
	Recorder RecorderConfig
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logx.L().Warnw("config_bad_bool", "key", k, "value", v)
		return def
	}
	return b
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		logx.L().Fatalw("config_missing_env", "key", k)
	}
	return v
}

func LoadAPI() APIConfig {
	c := APIConfig{
		Port:         getenv("PORT", "5000"),
		DBDSN:        os.Getenv("DB_DSN"),
		RMQURL:       os.Getenv("RMQ_URL"),
		OutcomeQueue: getenv("OUTCOME_QUEUE", "email_outcomes"),
		MailProvider: getenv("MAIL_PROVIDER", "smtp"),
		SMTPAddr:     getenv("SMTP_ADDR", "smtp.gmail.com:587"),
		EmailUser:    os.Getenv("EMAIL_USER"),
		EmailPass:    os.Getenv("EMAIL_PASS"),
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		ResumePath:   os.Getenv("RESUME_PATH"),
		PrecheckAuth: getbool("PRECHECK_AUTH", false),
		Timezone:     getenv("TIMEZONE", "Local"),
	}
	c.MailFrom = getenv("MAIL_FROM", c.EmailUser)
	return c
}

// MustLoadAPI loads API and exits when a required key is missing.
func MustLoadAPI() {
	API = LoadAPI()
	if API.DBDSN == "" {
		mustEnv("DB_DSN")
	}
	switch API.MailProvider {
	case "smtp":
		mustEnv("EMAIL_USER")
		mustEnv("EMAIL_PASS")
	case "resend":
		mustEnv("RESEND_API_KEY")
		mustEnv("MAIL_FROM")
	case "log":
	default:
		logx.L().Fatalw("config_unknown_mail_provider", "provider", API.MailProvider)
	}
}

func MustLoadRecorder() {
	Recorder = RecorderConfig{
		DBDSN:        mustEnv("DB_DSN"),
		RMQURL:       mustEnv("RMQ_URL"),
		OutcomeQueue: getenv("OUTCOME_QUEUE", "email_outcomes"),
	}
}

// Location resolves Timezone; business hours are evaluated in it.
func (c APIConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
