package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateAddressFirstBecomesDefault(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "asha")

	addr := Address{UserID: user.ID, Label: "Home", AddressLine: "Thamel 12", City: "Kathmandu", Phone: "9800000001"}
	require.NoError(t, CreateAddress(db, &addr))
	assert.True(t, addr.IsDefault)
}

func TestCreateAddressEnforcesCap(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "bikash")

	for i := 0; i < MaxAddressesPerUser; i++ {
		addr := Address{UserID: user.ID, AddressLine: "Street", City: "Pokhara", Phone: "9800000002"}
		require.NoError(t, CreateAddress(db, &addr))
	}

	fourth := Address{UserID: user.ID, AddressLine: "One too many", City: "Pokhara", Phone: "9800000002"}
	err := CreateAddress(db, &fourth)
	assert.ErrorIs(t, err, ErrAddressLimit)

	var count int64
	require.NoError(t, db.Model(&Address{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, MaxAddressesPerUser, count)
}

func TestSetDefaultAddressKeepsSingleDefault(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "chandra")

	first := Address{UserID: user.ID, AddressLine: "A", City: "Lalitpur", Phone: "9800000003"}
	second := Address{UserID: user.ID, AddressLine: "B", City: "Lalitpur", Phone: "9800000003"}
	require.NoError(t, CreateAddress(db, &first))
	require.NoError(t, CreateAddress(db, &second))

	require.NoError(t, SetDefaultAddress(db, user.ID, second.ID))

	var defaults int64
	require.NoError(t, db.Model(&Address{}).
		Where("user_id = ? AND is_default = ?", user.ID, true).Count(&defaults).Error)
	assert.EqualValues(t, 1, defaults)

	current, err := DefaultAddress(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
}

func TestSetDefaultAddressRejectsForeignAddress(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	addr := Address{UserID: owner.ID, AddressLine: "A", City: "Kathmandu", Phone: "9800000004"}
	require.NoError(t, CreateAddress(db, &addr))

	err := SetDefaultAddress(db, other.ID, addr.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteDefaultAddressPromotesMostRecent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "deepa")

	now := time.Now()
	first := Address{UserID: user.ID, AddressLine: "A", City: "Kathmandu", Phone: "9800000005", CreatedAt: now.Add(-2 * time.Hour)}
	second := Address{UserID: user.ID, AddressLine: "B", City: "Kathmandu", Phone: "9800000005", CreatedAt: now.Add(-time.Hour)}
	third := Address{UserID: user.ID, AddressLine: "C", City: "Kathmandu", Phone: "9800000005", CreatedAt: now}
	require.NoError(t, CreateAddress(db, &first))
	require.NoError(t, CreateAddress(db, &second))
	require.NoError(t, CreateAddress(db, &third))

	// first is still the default
	require.NoError(t, DeleteAddress(db, user.ID, first.ID))

	current, err := DefaultAddress(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, third.ID, current.ID)

	var defaults int64
	require.NoError(t, db.Model(&Address{}).
		Where("user_id = ? AND is_default = ?", user.ID, true).Count(&defaults).Error)
	assert.EqualValues(t, 1, defaults)
}

func TestDeleteLastAddressLeavesNoDefault(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ekta")

	addr := Address{UserID: user.ID, AddressLine: "A", City: "Kathmandu", Phone: "9800000006"}
	require.NoError(t, CreateAddress(db, &addr))
	require.NoError(t, DeleteAddress(db, user.ID, addr.ID))

	_, err := DefaultAddress(db, user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
