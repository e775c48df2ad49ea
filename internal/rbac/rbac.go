package rbac

// Role is an organizational role granted through the user_roles table.
// A user may hold several; precedence resolves the effective one.
type Role string

const (
	RoleBoard         Role = "board"
	RoleAdministrator Role = "administrator"
	RoleExecutive     Role = "executive"

	// RoleNone is the zero grant: unknown users, empty role sets and
	// failed lookups all resolve here and never gain access.
	RoleNone Role = ""
)

// precedence is the fixed resolution order. Lower index outranks higher.
var precedence = []Role{RoleBoard, RoleAdministrator, RoleExecutive}

func IsValid(role Role) bool {
	return indexOf(role) != -1
}

// IsAssignable reports whether role may be set as a document's
// role_assignment. Board is the bypass role and is never assigned to
// documents.
func IsAssignable(role Role) bool {
	return role == RoleAdministrator || role == RoleExecutive
}

func indexOf(role Role) int {
	for i, r := range precedence {
		if r == role {
			return i
		}
	}
	return -1
}

// Resolve returns the single highest-precedence role present in rows,
// regardless of their order, or RoleNone when rows is empty or holds no
// recognized role.
func Resolve(rows []Role) Role {
	best := -1
	for _, r := range rows {
		idx := indexOf(r)
		if idx == -1 {
			continue
		}
		if best == -1 || idx < best {
			best = idx
		}
	}
	if best == -1 {
		return RoleNone
	}
	return precedence[best]
}

// HasRole reports whether caller is at least as privileged as target:
// caller's precedence index must be numerically <= target's.
func HasRole(caller, target Role) bool {
	ci, ti := indexOf(caller), indexOf(target)
	return ci != -1 && ti != -1 && ci <= ti
}

// DenialMessage explains a failed document access check. It names both
// sides: the role the document is assigned to and the role the caller
// actually holds.
func DenialMessage(caller Role, roleAssignment *Role) string {
	have := "no role"
	if caller != RoleNone {
		have = "the " + string(caller) + " role"
	}
	if roleAssignment == nil || *roleAssignment == RoleNone {
		return "This document requires a resolved role, but you have " + have
	}
	return "This document is assigned to the " + string(*roleAssignment) + " role, but you have " + have
}

// CanAccessDocument is the guard applied identically to chat access, chat
// send and chat-history deletion: the document's assigned role must match
// the caller's exactly, except the top-precedence role bypasses the check.
// Documents without an assignment are open to any resolved role.
func CanAccessDocument(caller Role, roleAssignment *Role) bool {
	if caller == RoleNone || indexOf(caller) == -1 {
		return false
	}
	if caller == precedence[0] {
		return true
	}
	if roleAssignment == nil || *roleAssignment == RoleNone {
		return true
	}
	return caller == *roleAssignment
}
