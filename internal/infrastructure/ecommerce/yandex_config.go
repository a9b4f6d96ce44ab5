package ecommerce

import (
	"errors"
	"time"
)

// YandexProductionAPIURL is the production partner API endpoint
const YandexProductionAPIURL = "https://api.partner.market.yandex.ru"

// Errors for Yandex.Market configuration
var (
	ErrYandexConfigMissingCampaignID = errors.New("yandex: campaign ID is required")
	ErrYandexConfigMissingToken      = errors.New("yandex: API token is required")
)

// YandexConfig holds configuration for the Yandex.Market partner API
type YandexConfig struct {
	// CampaignID identifies the shop's campaign on the marketplace
	CampaignID string
	// Token is the Api-Key used to authorize partner API calls
	Token string
	// APIBaseURL is the base URL for the partner API
	APIBaseURL string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
	// MaxResponseBytes caps the response body size read from the platform
	MaxResponseBytes int64
}

// NewYandexConfig creates a new Yandex.Market configuration with defaults
func NewYandexConfig(campaignID, token string) *YandexConfig {
	return &YandexConfig{
		CampaignID:       campaignID,
		Token:            token,
		APIBaseURL:       YandexProductionAPIURL,
		Timeout:          30 * time.Second,
		MaxResponseBytes: 10 << 20,
	}
}

// Validate validates the Yandex.Market configuration and fills defaults
func (c *YandexConfig) Validate() error {
	if c.CampaignID == "" {
		return ErrYandexConfigMissingCampaignID
	}
	if c.Token == "" {
		return ErrYandexConfigMissingToken
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = YandexProductionAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = 10 << 20
	}
	return nil
}
