package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("GUEST"))
	assert.True(t, IsValidRole("OWNER"))
	assert.True(t, IsValidRole("ADMIN"))
	assert.False(t, IsValidRole("guest"))
	assert.False(t, IsValidRole("USER"))
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Asha", (&User{FirstName: "Asha"}).FullName())
	assert.Equal(t, "Asha Rao", (&User{FirstName: "Asha", LastName: "Rao"}).FullName())
}
