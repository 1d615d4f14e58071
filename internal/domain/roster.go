package domain

import "time"

// RosterMemberKind tags the employable roster member variants.
type RosterMemberKind string

const (
	KindWrestler RosterMemberKind = "WRESTLER"
	KindManager  RosterMemberKind = "MANAGER"
	KindReferee  RosterMemberKind = "REFEREE"
	KindTagTeam  RosterMemberKind = "TAG_TEAM"
)

// EntityType maps the roster kind onto the span entity discriminator.
func (k RosterMemberKind) EntityType() EntityType {
	return EntityType(k)
}

// Injurable reports whether members of this kind can be injured.
// Managers and tag teams do not carry injury spans; their restrictions come
// from suspension and from member propagation respectively.
func (k RosterMemberKind) Injurable() bool {
	return k == KindWrestler || k == KindReferee
}

// RosterMember is a person or team that goes through the employment lifecycle.
// Status is derived from span history and persisted for query efficiency.
type RosterMember struct {
	ID            string
	Kind          RosterMemberKind
	Name          string
	Hometown      string
	HeightCm      int
	WeightLbs     int
	SignatureMove string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Title is a championship belt with an activation lifecycle.
type Title struct {
	ID        string
	Name      string
	Status    ActivationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Stable is a named faction of wrestlers and tag teams.
type Stable struct {
	ID        string
	Name      string
	Status    ActivationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// MinStableMembers is the member head count (tag teams counting each
// partner) a stable needs before it can be activated.
const MinStableMembers = 3
