package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountRoleFor(t *testing.T) {
	viewerID := 2
	account := &Account{ID: 1, OwnerUserID: 1, ViewerUserID: &viewerID}

	assert.Equal(t, AccountRoleOwner, account.RoleFor(1))
	assert.Equal(t, AccountRoleViewer, account.RoleFor(2))
	assert.Equal(t, AccountRoleNone, account.RoleFor(3))
}

func TestAccountRoleFor_NoViewer(t *testing.T) {
	account := &Account{ID: 1, OwnerUserID: 1}

	assert.Equal(t, AccountRoleOwner, account.RoleFor(1))
	assert.Equal(t, AccountRoleNone, account.RoleFor(2))
}

func TestUpdateAccountRequestIsEmpty(t *testing.T) {
	assert.True(t, UpdateAccountRequest{}.IsEmpty())

	title := "New title"
	assert.False(t, UpdateAccountRequest{Title: &title}.IsEmpty())

	viewer := ""
	assert.False(t, UpdateAccountRequest{ViewerUsername: &viewer}.IsEmpty())
}
