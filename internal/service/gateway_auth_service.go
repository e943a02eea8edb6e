package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/auth"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/config"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// GatewayAuthService exchanges the chat-gateway's shared key plus an actor
// identity for a short-lived JWT. The gateway is the component that already
// authenticated the actor against the chat platform; this service only trusts
// the gateway, never the actor directly.
type GatewayAuthService struct {
	cfg    config.AuthConfig
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewGatewayAuthService constructs the service.
func NewGatewayAuthService(cfg config.AuthConfig, tokens *auth.TokenManager, logger *zap.Logger) *GatewayAuthService {
	return &GatewayAuthService{cfg: cfg, tokens: tokens, logger: logger}
}

// Login verifies the gateway key and issues a token carrying the actor's
// identity and roles.
func (s *GatewayAuthService) Login(gatewayKey string, actor domain.PermissionContext) (string, time.Time, error) {
	if s.cfg.GatewayKeyHash == "" {
		return "", time.Time{}, apperrors.NewUnauthorized("gateway authentication is not configured")
	}
	if err := auth.CompareKey(s.cfg.GatewayKeyHash, gatewayKey); err != nil {
		s.logger.Warn("gateway key rejected", zap.String("guild_id", actor.GuildID))
		return "", time.Time{}, apperrors.NewUnauthorized("invalid gateway key")
	}
	return s.tokens.GenerateToken(actor.GuildID, actor.UserID, actor.UserRoles, actor.IsGuildOwner)
}
