package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRoster(t *testing.T) {
	entries := DefaultRoster()
	assert.Len(t, entries, 13)

	roles := map[string]Role{}
	for _, e := range entries {
		roles[e.Code] = e.Role
	}
	assert.Len(t, roles, 13, "codes must be unique")
	assert.Equal(t, RoleRequester, roles["FUNC001"])
	assert.Equal(t, RoleRequester, roles["FUNC010"])
	assert.Equal(t, RoleTechnician, roles["TEC001"])
	assert.Equal(t, RoleTechnician, roles["TEC003"])
	assert.NotContains(t, roles, "FUNC011")
	assert.NotContains(t, roles, "TEC004")
}
