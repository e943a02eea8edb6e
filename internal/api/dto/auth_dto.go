package dto

// GatewayLoginRequest payload. The gateway presents its shared key together
// with the identity of the actor it authenticated.
type GatewayLoginRequest struct {
	GatewayKey   string   `json:"gateway_key"`
	GuildID      string   `json:"guild_id"`
	UserID       string   `json:"user_id"`
	Roles        []string `json:"roles,omitempty"`
	IsGuildOwner bool     `json:"is_guild_owner"`
}

// TokenResponse carries an issued JWT.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}
