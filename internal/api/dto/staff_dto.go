package dto

import (
	"time"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// HireStaffRequest payload.
type HireStaffRequest struct {
	UserID         string `json:"user_id"`
	RobloxUsername string `json:"roblox_username,omitempty"`
	Role           string `json:"role"`
	Reason         string `json:"reason,omitempty"`
}

// RoleChangeRequest payload for promotions and demotions.
type RoleChangeRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Reason string `json:"reason,omitempty"`
}

// FireStaffRequest payload.
type FireStaffRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason,omitempty"`
}

// BypassConfirmRequest payload for owner rule overrides.
type BypassConfirmRequest struct {
	Reason string `json:"reason"`
}

// RoleChangeEntry is one history record in a staff response.
type RoleChangeEntry struct {
	FromRole   string    `json:"from_role"`
	ToRole     string    `json:"to_role"`
	ActionType string    `json:"action_type"`
	ActorID    string    `json:"actor_id"`
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// StaffResponse is the API shape of a staff member.
type StaffResponse struct {
	ID               string            `json:"id"`
	GuildID          string            `json:"guild_id"`
	UserID           string            `json:"user_id"`
	RobloxUsername   string            `json:"roblox_username,omitempty"`
	Role             string            `json:"role"`
	RoleDisplayName  string            `json:"role_display_name"`
	Status           string            `json:"status"`
	HiredAt          time.Time         `json:"hired_at"`
	HiredBy          string            `json:"hired_by"`
	PromotionHistory []RoleChangeEntry `json:"promotion_history,omitempty"`
}

// FromStaff maps the domain aggregate to its API shape.
func FromStaff(staff *domain.Staff) StaffResponse {
	history := make([]RoleChangeEntry, 0, len(staff.PromotionHistory))
	for _, record := range staff.PromotionHistory {
		history = append(history, RoleChangeEntry{
			FromRole:   string(record.FromRole),
			ToRole:     string(record.ToRole),
			ActionType: string(record.ActionType),
			ActorID:    record.ActorID,
			Reason:     record.Reason,
			Timestamp:  record.Timestamp,
		})
	}
	return StaffResponse{
		ID:               staff.ID,
		GuildID:          staff.GuildID,
		UserID:           staff.UserID,
		RobloxUsername:   staff.RobloxUsername,
		Role:             string(staff.Role),
		RoleDisplayName:  staff.Role.DisplayName(),
		Status:           string(staff.Status),
		HiredAt:          staff.HiredAt,
		HiredBy:          staff.HiredBy,
		PromotionHistory: history,
	}
}
