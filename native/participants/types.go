package participants

// Role is the closed set of participant roles on the ledger.
type Role uint8

const (
	RoleRecycler Role = iota + 1
	RoleCollector
	RoleManufacturer
)

// Valid reports whether the role is a member of the closed variant.
func (r Role) Valid() bool {
	switch r {
	case RoleRecycler, RoleCollector, RoleManufacturer:
		return true
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RoleRecycler:
		return "recycler"
	case RoleCollector:
		return "collector"
	case RoleManufacturer:
		return "manufacturer"
	}
	return "unknown"
}

// ParseRole resolves a textual role name to the closed variant.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "recycler":
		return RoleRecycler, true
	case "collector":
		return RoleCollector, true
	case "manufacturer":
		return RoleManufacturer, true
	}
	return 0, false
}

// CanManufacture reports whether the role may fund incentives.
func (r Role) CanManufacture() bool { return r == RoleManufacturer }

// CanCollect reports whether the role may take custody of materials as a
// collection hop.
func (r Role) CanCollect() bool { return r == RoleRecycler || r == RoleCollector }

// CanVerify reports whether the role may verify submitted materials in
// deployments that gate verification by role.
func (r Role) CanVerify() bool { return r == RoleRecycler }

// Participant is the identity record for one ledger member. Fields other than
// the role are immutable after registration; participants are never deleted.
type Participant struct {
	Addr         [20]byte
	Role         Role
	Name         string
	Location     string
	RegisteredAt uint64
}
