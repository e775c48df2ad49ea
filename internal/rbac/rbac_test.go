package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rolePtr(r Role) *Role { return &r }

func TestResolvePrecedence(t *testing.T) {
	testCases := []struct {
		name     string
		rows     []Role
		expected Role
	}{
		{"empty set resolves to none", nil, RoleNone},
		{"single executive", []Role{RoleExecutive}, RoleExecutive},
		{"single administrator", []Role{RoleAdministrator}, RoleAdministrator},
		{"single board", []Role{RoleBoard}, RoleBoard},
		{"board outranks administrator", []Role{RoleAdministrator, RoleBoard}, RoleBoard},
		{"administrator outranks executive", []Role{RoleExecutive, RoleAdministrator}, RoleAdministrator},
		{"order of rows is irrelevant", []Role{RoleBoard, RoleExecutive, RoleAdministrator}, RoleBoard},
		{"reversed order same result", []Role{RoleAdministrator, RoleExecutive, RoleBoard}, RoleBoard},
		{"unknown roles are ignored", []Role{"intern", RoleExecutive}, RoleExecutive},
		{"only unknown roles resolve to none", []Role{"intern", "guest"}, RoleNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Resolve(tc.rows))
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	rows := []Role{RoleExecutive, RoleBoard, RoleAdministrator}
	first := Resolve(rows)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Resolve(rows))
	}
}

func TestCanAccessDocumentGrid(t *testing.T) {
	testCases := []struct {
		caller     Role
		assignment *Role
		allowed    bool
	}{
		{RoleBoard, rolePtr(RoleAdministrator), true},
		{RoleBoard, rolePtr(RoleExecutive), true},
		{RoleBoard, nil, true},
		{RoleAdministrator, rolePtr(RoleAdministrator), true},
		{RoleAdministrator, rolePtr(RoleExecutive), false},
		{RoleAdministrator, nil, true},
		{RoleExecutive, rolePtr(RoleExecutive), true},
		{RoleExecutive, rolePtr(RoleAdministrator), false},
		{RoleExecutive, nil, true},
		{RoleNone, rolePtr(RoleAdministrator), false},
		{RoleNone, rolePtr(RoleExecutive), false},
		{RoleNone, nil, false},
	}

	for _, tc := range testCases {
		name := string(tc.caller)
		if name == "" {
			name = "none"
		}
		if tc.assignment != nil {
			name += "_vs_" + string(*tc.assignment)
		} else {
			name += "_vs_unassigned"
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanAccessDocument(tc.caller, tc.assignment))
		})
	}
}

func TestCanAccessDocumentUnknownCaller(t *testing.T) {
	assert.False(t, CanAccessDocument("intern", rolePtr(RoleExecutive)))
	assert.False(t, CanAccessDocument("intern", nil))
}

func TestCanAccessDocumentEmptyAssignment(t *testing.T) {
	// An empty string assignment behaves like no assignment at all.
	assert.True(t, CanAccessDocument(RoleExecutive, rolePtr(RoleNone)))
}

func TestDenialMessageNamesBothRoles(t *testing.T) {
	msg := DenialMessage(RoleExecutive, rolePtr(RoleAdministrator))
	assert.Contains(t, msg, "administrator")
	assert.Contains(t, msg, "executive")

	msg = DenialMessage(RoleNone, rolePtr(RoleExecutive))
	assert.Contains(t, msg, "executive")
	assert.Contains(t, msg, "no role")

	msg = DenialMessage(RoleNone, nil)
	assert.Contains(t, msg, "no role")
}

func TestHasRole(t *testing.T) {
	assert.True(t, HasRole(RoleBoard, RoleBoard))
	assert.True(t, HasRole(RoleBoard, RoleExecutive))
	assert.True(t, HasRole(RoleAdministrator, RoleExecutive))
	assert.False(t, HasRole(RoleExecutive, RoleAdministrator))
	assert.False(t, HasRole(RoleExecutive, RoleBoard))
	assert.False(t, HasRole(RoleNone, RoleExecutive))
}

func TestIsAssignable(t *testing.T) {
	assert.True(t, IsAssignable(RoleAdministrator))
	assert.True(t, IsAssignable(RoleExecutive))
	assert.False(t, IsAssignable(RoleBoard))
	assert.False(t, IsAssignable(RoleNone))
}
