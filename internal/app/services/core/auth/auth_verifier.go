package auth

import (
	"appointment-composite-service/internal/app/config"
	"appointment-composite-service/internal/app/contracts"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/utils"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// NewTokenVerifier builds the verifier selected by cfg.Strategy. cache may be nil.
func NewTokenVerifier(cfg config.Auth, httpClient *http.Client, cache contracts.RedisRepository, logger *zap.Logger) (contracts.TokenVerifier, error) {
	timeout := utils.Seconds(cfg.RequestTimeoutInSeconds, 5*time.Second)
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	baseUrl := strings.TrimRight(cfg.BaseUrl, "/")

	logger.Info("auth.NewTokenVerifier selecting strategy",
		zap.String(constvars.LoggingAuthStrategyKey, cfg.Strategy),
	)

	switch cfg.Strategy {
	case "", constvars.AuthStrategyJWKS:
		return NewJWKSVerifier(JWKSVerifierConfig{
			JWKSUrl:            baseUrl + cfg.JWKSPath,
			Issuer:             cfg.Issuer,
			Audience:           cfg.Audience,
			CacheTTL:           time.Duration(cfg.JWKSCacheTTLInMinutes) * time.Minute,
			MinRefreshInterval: utils.Seconds(cfg.JWKSMinRefreshIntervalInSeconds, 30*time.Second),
			FetchTimeout:       timeout,
		}, httpClient, logger), nil
	case constvars.AuthStrategySession:
		return NewSessionVerifier(
			baseUrl+cfg.SessionPath,
			httpClient,
			cache,
			utils.Seconds(cfg.SessionCacheTTLInSeconds, 0),
			logger,
		), nil
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", cfg.Strategy)
	}
}
