package models

import "time"

type Role string

const (
	RoleParent Role = "PARENT"
	RoleChild  Role = "CHILD"
)

type ActivityType string

const (
	ActivityChore      ActivityType = "CHORE"
	ActivityRedemption ActivityType = "REDEMPTION"
)

type ActivityStatus string

const (
	StatusPending  ActivityStatus = "PENDING"
	StatusApproved ActivityStatus = "APPROVED"
	StatusRejected ActivityStatus = "REJECTED"
)

// Account is an identity-gate credential record. A parent's FamilyMember ID
// equals its account ID.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Family struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type FamilyMember struct {
	ID       string
	FamilyID string
	Name     string
	Role     Role

	// Points and SpecialCode are set for children only. SpecialCode is
	// stored normalized (see services.NormalizeCode).
	Points      *int
	SpecialCode *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance returns the member's point balance, treating an unset balance
// (parents) as zero.
func (member FamilyMember) Balance() int {
	if member.Points == nil {
		return 0
	}
	return *member.Points
}

type Chore struct {
	ID       string
	FamilyID string
	Name     string
	Points   int

	// Optional marks "extra" chores; the rest are required.
	Optional  bool
	Completed bool
	Denied    bool

	AssignedToID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Activity is the audit record behind every balance change. ChoreID is set
// for CHORE-type activities only.
type Activity struct {
	ID        string
	FamilyID  string
	ChildID   string
	ChoreID   *string
	Type      ActivityType
	Status    ActivityStatus
	Points    int
	Name      string
	Timestamp time.Time
}

// MemberPatch carries the updatable child fields; nil means unchanged.
type MemberPatch struct {
	Name   *string
	Points *int
}

// ChorePatch carries the updatable chore fields; nil means unchanged. An
// empty AssignedToID clears the assignment.
type ChorePatch struct {
	Name         *string
	Points       *int
	Optional     *bool
	AssignedToID *string
}
