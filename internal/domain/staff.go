package domain

import (
	"fmt"
	"time"

	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// StaffStatus enumerates membership lifecycle states.
type StaffStatus string

const (
	StaffStatusActive     StaffStatus = "active"
	StaffStatusInactive   StaffStatus = "inactive"
	StaffStatusTerminated StaffStatus = "terminated"
)

// RoleChangeAction captures what kind of transition a history record describes.
type RoleChangeAction string

const (
	ActionHire      RoleChangeAction = "hire"
	ActionPromotion RoleChangeAction = "promotion"
	ActionDemotion  RoleChangeAction = "demotion"
	ActionFire      RoleChangeAction = "fire"
)

// RoleChangeRecord is an immutable entry in a staff member's history.
type RoleChangeRecord struct {
	FromRole   StaffRole        `json:"from_role"`
	ToRole     StaffRole        `json:"to_role"`
	ActionType RoleChangeAction `json:"action_type"`
	ActorID    string           `json:"actor_id"`
	Reason     string           `json:"reason,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// Staff models one person's membership in the firm for one guild.
type Staff struct {
	ID               string
	GuildID          string
	UserID           string
	RobloxUsername   string
	Role             StaffRole
	Status           StaffStatus
	HiredAt          time.Time
	HiredBy          string
	PromotionHistory []RoleChangeRecord
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive reports whether the member currently counts against role capacity.
func (s *Staff) IsActive() bool {
	return s.Status == StaffStatusActive
}

// NewStaff constructs a freshly hired, active staff member with its hire record.
func NewStaff(guildID, userID, robloxUsername string, role StaffRole, hiredBy, reason string, now time.Time) *Staff {
	return &Staff{
		GuildID:        guildID,
		UserID:         userID,
		RobloxUsername: robloxUsername,
		Role:           role,
		Status:         StaffStatusActive,
		HiredAt:        now,
		HiredBy:        hiredBy,
		PromotionHistory: []RoleChangeRecord{{
			FromRole:   role,
			ToRole:     role,
			ActionType: ActionHire,
			ActorID:    hiredBy,
			Reason:     reason,
			Timestamp:  now,
		}},
	}
}

// Rehire reactivates a non-active membership at the given role, appending a
// fresh hire record. The earlier history is retained.
func (s *Staff) Rehire(role StaffRole, hiredBy, reason string, now time.Time) error {
	if s.IsActive() {
		return apperrors.NewStateConflict("staff member is already active", map[string]any{"role": s.Role})
	}
	s.appendHistory(RoleChangeRecord{
		FromRole:   role,
		ToRole:     role,
		ActionType: ActionHire,
		ActorID:    hiredBy,
		Reason:     reason,
		Timestamp:  now,
	})
	s.Role = role
	s.Status = StaffStatusActive
	s.HiredAt = now
	s.HiredBy = hiredBy
	return nil
}

func requireSeniorActor(actorRole StaffRole) error {
	if actorRole.Level() < SeniorLevel {
		return apperrors.NewForbidden(fmt.Sprintf("%s cannot change staff roles", actorRole.DisplayName()))
	}
	return nil
}

// Promote moves the member to a strictly higher role and appends a history
// record. The actor must be at or above the senior threshold.
func (s *Staff) Promote(to StaffRole, actorID string, actorRole StaffRole, reason string, now time.Time) error {
	if err := requireSeniorActor(actorRole); err != nil {
		return err
	}
	if !s.IsActive() {
		return apperrors.NewStateConflict("cannot promote non-active staff", map[string]any{"status": s.Status})
	}
	if !to.IsValid() {
		return apperrors.NewValidationError("unknown target role", map[string]any{"role": to})
	}
	if to.Level() <= s.Role.Level() {
		return apperrors.NewStateConflict("promotion must increase role level", map[string]any{
			"from": s.Role, "to": to,
		})
	}
	s.appendHistory(RoleChangeRecord{
		FromRole:   s.Role,
		ToRole:     to,
		ActionType: ActionPromotion,
		ActorID:    actorID,
		Reason:     reason,
		Timestamp:  now,
	})
	s.Role = to
	return nil
}

// Demote moves the member to a strictly lower role.
func (s *Staff) Demote(to StaffRole, actorID string, actorRole StaffRole, reason string, now time.Time) error {
	if err := requireSeniorActor(actorRole); err != nil {
		return err
	}
	if !s.IsActive() {
		return apperrors.NewStateConflict("cannot demote non-active staff", map[string]any{"status": s.Status})
	}
	if !to.IsValid() {
		return apperrors.NewValidationError("unknown target role", map[string]any{"role": to})
	}
	if to.Level() >= s.Role.Level() {
		return apperrors.NewStateConflict("demotion must decrease role level", map[string]any{
			"from": s.Role, "to": to,
		})
	}
	s.appendHistory(RoleChangeRecord{
		FromRole:   s.Role,
		ToRole:     to,
		ActionType: ActionDemotion,
		ActorID:    actorID,
		Reason:     reason,
		Timestamp:  now,
	})
	s.Role = to
	return nil
}

// Terminate ends the membership. The record is retained for audit.
func (s *Staff) Terminate(actorID, reason string, now time.Time) error {
	if s.Status == StaffStatusTerminated {
		return apperrors.NewStateConflict("staff already terminated", nil)
	}
	s.appendHistory(RoleChangeRecord{
		FromRole:   s.Role,
		ToRole:     s.Role,
		ActionType: ActionFire,
		ActorID:    actorID,
		Reason:     reason,
		Timestamp:  now,
	})
	s.Status = StaffStatusTerminated
	return nil
}

func (s *Staff) appendHistory(record RoleChangeRecord) {
	s.PromotionHistory = append(s.PromotionHistory, record)
}
