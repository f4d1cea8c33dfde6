package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/water102/siteclone"
)

// Config holds optional settings loaded from a YAML file.
type Config struct {
	// Cookies are applied to every clone before navigation.
	Cookies []CookieConfig `yaml:"cookies"`

	// NavTimeoutSeconds bounds the whole navigation wait.
	NavTimeoutSeconds int `yaml:"navTimeoutSeconds"`

	// SettleSeconds is the delay after network idle before the final
	// HTML snapshot.
	SettleSeconds int `yaml:"settleSeconds"`

	// BodyConcurrency bounds concurrent response-body reads.
	BodyConcurrency int `yaml:"bodyConcurrency"`
}

// CookieConfig is one cookie entry in the config file.
type CookieConfig struct {
	Name           string  `yaml:"name"`
	Value          string  `yaml:"value"`
	Domain         string  `yaml:"domain"`
	Path           string  `yaml:"path"`
	HTTPOnly       bool    `yaml:"httpOnly"`
	Secure         bool    `yaml:"secure"`
	SameSite       string  `yaml:"sameSite"`
	ExpirationDate float64 `yaml:"expirationDate"`
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// CookieList converts the configured cookies into capture cookies.
func (c *Config) CookieList() []siteclone.Cookie {
	if c == nil {
		return nil
	}
	cookies := make([]siteclone.Cookie, 0, len(c.Cookies))
	for _, cc := range c.Cookies {
		cookies = append(cookies, siteclone.Cookie{
			Name:           cc.Name,
			Value:          cc.Value,
			Domain:         cc.Domain,
			Path:           cc.Path,
			HTTPOnly:       cc.HTTPOnly,
			Secure:         cc.Secure,
			SameSite:       cc.SameSite,
			ExpirationDate: cc.ExpirationDate,
		})
	}
	return cookies
}

// NavTimeout returns the configured navigation timeout, or zero when unset.
func (c *Config) NavTimeout() time.Duration {
	if c == nil {
		return 0
	}
	return time.Duration(c.NavTimeoutSeconds) * time.Second
}

// SettleDelay returns the configured settle delay, or zero when unset.
func (c *Config) SettleDelay() time.Duration {
	if c == nil {
		return 0
	}
	return time.Duration(c.SettleSeconds) * time.Second
}
