package authkit

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "AUTH_"

// ConfigObject is the concrete Config implementation. The signing key and
// every other field are read once at startup and never mutated afterwards;
// concurrent callers share the loaded value without locking.
type ConfigObject struct {
	SigningKey            string   `koanf:"signing_key"`
	SigningMethod         string   `koanf:"signing_method"`
	ContextKey            string   `koanf:"context_key"`
	TokenExpiration       int      `koanf:"token_expiration"`
	ExtendedTokenDuration int      `koanf:"extended_token_duration"`
	AuthScheme            string   `koanf:"auth_scheme"`
	Issuer                string   `koanf:"issuer"`
	Audience              []string `koanf:"audience"`
	RejectedRouteKey      string   `koanf:"rejected_route_key"`
	RejectedRouteDefault  string   `koanf:"rejected_route_default"`
}

// DefaultConfig returns a ConfigObject with working defaults for everything
// except the signing key, which has no safe default.
func DefaultConfig() *ConfigObject {
	return &ConfigObject{
		SigningMethod:         "HS256",
		ContextKey:            "user",
		TokenExpiration:       24,
		ExtendedTokenDuration: 168,
		AuthScheme:            "Bearer",
		Issuer:                "authkit",
		RejectedRouteKey:      "rejected_route",
		RejectedRouteDefault:  "/login",
	}
}

// LoadConfig reads AUTH_-prefixed environment variables over the defaults,
// e.g. AUTH_SIGNING_KEY, AUTH_TOKEN_EXPIRATION, AUTH_AUDIENCE (comma
// separated). It fails when no signing key is configured.
func LoadConfig() (*ConfigObject, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if key == "audience" {
				return key, splitAndTrim(value)
			}
			return key, value
		},
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load environment configuration")
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to unmarshal configuration")
	}

	if strings.TrimSpace(cfg.SigningKey) == "" {
		return nil, errors.New("signing key is required: set AUTH_SIGNING_KEY", errors.CategoryValidation)
	}

	return cfg, nil
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c *ConfigObject) GetSigningKey() string { return c.SigningKey }

func (c *ConfigObject) GetSigningMethod() string { return c.SigningMethod }

func (c *ConfigObject) GetContextKey() string { return c.ContextKey }

func (c *ConfigObject) GetTokenExpiration() int { return c.TokenExpiration }

func (c *ConfigObject) GetExtendedTokenDuration() int { return c.ExtendedTokenDuration }

func (c *ConfigObject) GetAuthScheme() string { return c.AuthScheme }

func (c *ConfigObject) GetIssuer() string { return c.Issuer }

func (c *ConfigObject) GetAudience() []string { return c.Audience }

func (c *ConfigObject) GetRejectedRouteKey() string { return c.RejectedRouteKey }

func (c *ConfigObject) GetRejectedRouteDefault() string { return c.RejectedRouteDefault }

var _ Config = (*ConfigObject)(nil)
