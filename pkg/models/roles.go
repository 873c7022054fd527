package models

// Role identifies a staff member's position in the practice.
type Role string

const (
	RoleReceptionist    Role = "Receptionist"
	RoleDentist         Role = "Dentist"
	RoleDentalAssistant Role = "Dental Assistant"
	RoleCleaner         Role = "Cleaner"
	RolePracticeManager Role = "Practice Manager"
	RoleSuperAdmin      Role = "Super Admin"
)

// ValidRoles contains all valid role values.
var ValidRoles = []Role{
	RoleReceptionist,
	RoleDentist,
	RoleDentalAssistant,
	RoleCleaner,
	RolePracticeManager,
	RoleSuperAdmin,
}

// SchedulingGroup partitions schedulable staff for the weekly generator.
type SchedulingGroup string

const (
	GroupDentist   SchedulingGroup = "dentist"
	GroupAssistant SchedulingGroup = "assistant"
	GroupOther     SchedulingGroup = "other"
)

// RoleProfile is the single source of truth for role capabilities.
// The scheduler, the KPI engine, and the auth layer all consult this
// table instead of re-checking role names at each call site.
type RoleProfile struct {
	// Schedulable reports whether the weekly generator assigns shifts
	// to this role. Super Admin is administrative only.
	Schedulable bool

	// Group determines how the scheduler treats the role: dentists get
	// fixed rooms, assistants rotate rooms, everyone else gets none.
	Group SchedulingGroup

	// KPIAlias is the role whose KPI definitions apply when scoring.
	// Empty means the role is not scored at all.
	KPIAlias Role

	// Manager grants approval and scoring privileges.
	Manager bool
}

var roleProfiles = map[Role]RoleProfile{
	RoleReceptionist:    {Schedulable: true, Group: GroupOther, KPIAlias: RoleReceptionist},
	RoleDentist:         {Schedulable: true, Group: GroupDentist, KPIAlias: RoleDentist},
	RoleDentalAssistant: {Schedulable: true, Group: GroupAssistant, KPIAlias: RoleDentalAssistant},
	RoleCleaner:         {Schedulable: true, Group: GroupOther, KPIAlias: RoleCleaner},
	// The practice manager is also a practicing dentist, so they are
	// scored against the dentist KPI set.
	RolePracticeManager: {Schedulable: true, Group: GroupOther, KPIAlias: RoleDentist, Manager: true},
	RoleSuperAdmin:      {Manager: true},
}

// Profile returns the capability profile for a role. The second return
// is false for unknown roles.
func (r Role) Profile() (RoleProfile, bool) {
	p, ok := roleProfiles[r]
	return p, ok
}

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	_, ok := roleProfiles[r]
	return ok
}

// Schedulable reports whether the weekly generator schedules this role.
func (r Role) Schedulable() bool {
	p, ok := roleProfiles[r]
	return ok && p.Schedulable
}

// KPIRole returns the role whose KPI definitions apply to r, applying
// the Practice Manager -> Dentist alias. The second return is false
// when the role is not scored.
func (r Role) KPIRole() (Role, bool) {
	p, ok := roleProfiles[r]
	if !ok || p.KPIAlias == "" {
		return "", false
	}
	return p.KPIAlias, true
}

// IsManager reports whether the role carries approval privileges.
func (r Role) IsManager() bool {
	p, ok := roleProfiles[r]
	return ok && p.Manager
}
