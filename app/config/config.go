package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`
	DB     DB     `yaml:"db"`
	Line   Line   `yaml:"line"`
	OpenAI OpenAI `yaml:"openai"`
	Bot    Bot    `yaml:"bot"`
}

type Server struct {
	// Port to listen on for webhook deliveries
	Port int `yaml:"port" example:"8080"`
}

type Line struct {
	// Channel secret used to verify webhook signatures
	ChannelSecret string `yaml:"channel_secret" validate:"required"`
	// Channel access token used to call the reply API
	ChannelAccessToken string `yaml:"channel_access_token" validate:"required"`
	// Mention token that prefixes operator commands
	MentionToken string `yaml:"mention_token" example:"@機器人"`
}

type OpenAI struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"gpt-4.1"`
}

type Bot struct {
	// Number of accumulated user messages that triggers an assistant turn
	Threshold int `yaml:"threshold" example:"3"`
	// Number of most recent messages supplied to the assistant as context
	HistorySize int `yaml:"history_size" example:"20"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type DB struct {
	// Path to the sqlite database file
	Path string `yaml:"path" example:"data/groupexp.db"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	result.applyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Line.MentionToken == "" {
		c.Line.MentionToken = "@機器人"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4.1"
	}
	if c.Bot.Threshold == 0 {
		c.Bot.Threshold = 3
	}
	if c.Bot.HistorySize == 0 {
		c.Bot.HistorySize = 20
	}
	if c.DB.Path == "" {
		c.DB.Path = "data/groupexp.db"
	}
}
