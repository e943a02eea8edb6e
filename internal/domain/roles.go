package domain

// StaffRole enumerates the firm's role ladder.
type StaffRole string

const (
	RoleManagingPartner StaffRole = "MANAGING_PARTNER"
	RoleSeniorPartner   StaffRole = "SENIOR_PARTNER"
	RoleJuniorPartner   StaffRole = "JUNIOR_PARTNER"
	RoleSeniorAssociate StaffRole = "SENIOR_ASSOCIATE"
	RoleJuniorAssociate StaffRole = "JUNIOR_ASSOCIATE"
	RoleParalegal       StaffRole = "PARALEGAL"
)

// SeniorLevel is the minimum role level allowed to promote or demote others.
const SeniorLevel = 5

type roleInfo struct {
	level    int
	maxCount int
	display  string
}

// hierarchy orders roles bottom-up; capacity limits are per guild.
var hierarchy = map[StaffRole]roleInfo{
	RoleParalegal:       {level: 1, maxCount: 10, display: "Paralegal"},
	RoleJuniorAssociate: {level: 2, maxCount: 10, display: "Junior Associate"},
	RoleSeniorAssociate: {level: 3, maxCount: 10, display: "Senior Associate"},
	RoleJuniorPartner:   {level: 4, maxCount: 5, display: "Junior Partner"},
	RoleSeniorPartner:   {level: 5, maxCount: 3, display: "Senior Partner"},
	RoleManagingPartner: {level: 6, maxCount: 1, display: "Managing Partner"},
}

var rolesByLevel = []StaffRole{
	RoleParalegal,
	RoleJuniorAssociate,
	RoleSeniorAssociate,
	RoleJuniorPartner,
	RoleSeniorPartner,
	RoleManagingPartner,
}

// AllRoles returns every role ordered by ascending level.
func AllRoles() []StaffRole {
	out := make([]StaffRole, len(rolesByLevel))
	copy(out, rolesByLevel)
	return out
}

// IsValid reports whether the role is part of the hierarchy.
func (r StaffRole) IsValid() bool {
	_, ok := hierarchy[r]
	return ok
}

// Level returns the strict numeric ordering of the role (1 = lowest).
func (r StaffRole) Level() int {
	return hierarchy[r].level
}

// MaxCount returns how many active staff may hold the role per guild.
func (r StaffRole) MaxCount() int {
	return hierarchy[r].maxCount
}

// DisplayName returns the human-facing role name.
func (r StaffRole) DisplayName() string {
	if info, ok := hierarchy[r]; ok {
		return info.display
	}
	return string(r)
}

// RoleAfter returns the next role up the ladder. The second return is false at
// the top: promotion from Managing Partner is an invalid transition, not a clamp.
func RoleAfter(r StaffRole) (StaffRole, bool) {
	info, ok := hierarchy[r]
	if !ok || info.level >= len(rolesByLevel) {
		return "", false
	}
	return rolesByLevel[info.level], true
}

// RoleBefore returns the next role down the ladder, false at the bottom.
func RoleBefore(r StaffRole) (StaffRole, bool) {
	info, ok := hierarchy[r]
	if !ok || info.level <= 1 {
		return "", false
	}
	return rolesByLevel[info.level-2], true
}
