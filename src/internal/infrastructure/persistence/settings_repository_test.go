package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackyeh168/voucher_ledger/src/internal/domain/voucher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ===========================
// SettingsRepository 整合測試
// ===========================

func TestSettingsRepository_FindCurrent_Empty_ReturnsNotConfigured(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	clock, _ := testClock(t, "2025-06-15T12:00:00Z")
	repo := NewSettingsRepository(db, clock)

	// Act
	settings, err := repo.FindCurrent(context.Background(), nil)

	// Assert
	assert.Nil(t, settings)
	assert.ErrorIs(t, err, voucher.ErrNotConfigured)
	assert.NotErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.False(t, voucher.IsRetryable(err))
}

func TestSettingsRepository_Replace_ThenFindCurrent_RoundTrip(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	clock, _ := testClock(t, "2025-06-15T12:00:00Z")
	repo := NewSettingsRepository(db, clock)
	ctx := context.Background()

	issued := time.Date(2025, 5, 31, 15, 0, 0, 0, time.UTC)
	expire := time.Date(2025, 12, 30, 15, 0, 0, 0, time.UTC)

	// Act
	saved, err := repo.Replace(ctx, nil, voucher.SettingsDraft{
		Balance:  yen(t, 10000),
		IssuedAt: &issued,
		ExpireAt: &expire,
	})
	require.NoError(t, err)
	found, err := repo.FindCurrent(ctx, nil)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(10000), found.Balance().Value())
	assert.True(t, issued.Equal(found.IssuedAt()))
	require.NotNil(t, found.ExpireAt())
	assert.True(t, expire.Equal(*found.ExpireAt()))
	assert.Equal(t, 2025, found.Year())
	assert.Equal(t, int64(1), found.Version())
	assert.Equal(t, saved.Version(), found.Version())
}

func TestSettingsRepository_Replace_WithoutIssuedAt_UsesStoreClock(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	clock, _ := testClock(t, "2025-06-15T12:00:00Z")
	repo := NewSettingsRepository(db, clock)

	// Act
	saved, err := repo.Replace(context.Background(), nil, voucher.SettingsDraft{Balance: yen(t, 3000)})

	// Assert
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC).Equal(saved.IssuedAt()))
	assert.Nil(t, saved.ExpireAt(), "absent expireAt means never expires")
}

func TestSettingsRepository_Replace_Twice_OverwritesAndBumpsVersion(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	clock, _ := testClock(t, "2025-06-15T12:00:00Z")
	repo := NewSettingsRepository(db, clock)
	ctx := context.Background()

	expire := time.Date(2025, 12, 30, 15, 0, 0, 0, time.UTC)
	_, err := repo.Replace(ctx, nil, voucher.SettingsDraft{Balance: yen(t, 10000), ExpireAt: &expire})
	require.NoError(t, err)

	// Act
	saved, err := repo.Replace(ctx, nil, voucher.SettingsDraft{Balance: yen(t, 500)})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(500), saved.Balance().Value())
	assert.Nil(t, saved.ExpireAt(), "replace is a full overwrite")
	assert.Equal(t, int64(2), saved.Version())

	var count int64
	require.NoError(t, db.Model(&SettingsModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "settings is a singleton")
}

func TestSettingsRepository_UpdateBalance_KeepsDates(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	clock, fixed := testClock(t, "2025-06-15T12:00:00Z")
	repo := NewSettingsRepository(db, clock)
	ctx := context.Background()

	issued := time.Date(2025, 5, 31, 15, 0, 0, 0, time.UTC)
	expire := time.Date(2025, 12, 30, 15, 0, 0, 0, time.UTC)
	_, err := repo.Replace(ctx, nil, voucher.SettingsDraft{Balance: yen(t, 1200), IssuedAt: &issued, ExpireAt: &expire})
	require.NoError(t, err)
	fixed.Advance(time.Hour)

	// Act
	err = repo.UpdateBalance(ctx, nil, yen(t, 10000))

	// Assert
	require.NoError(t, err)
	found, err := repo.FindCurrent(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), found.Balance().Value())
	assert.True(t, issued.Equal(found.IssuedAt()))
	assert.True(t, expire.Equal(*found.ExpireAt()))
	assert.True(t, time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC).Equal(found.UpdatedAt()))
	assert.Equal(t, int64(2), found.Version())
}

func TestSettingsRepository_UpdateBalance_NotConfigured(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	clock, _ := testClock(t, "2025-06-15T12:00:00Z")
	repo := NewSettingsRepository(db, clock)

	// Act
	err := repo.UpdateBalance(context.Background(), nil, yen(t, 10000))

	// Assert
	assert.ErrorIs(t, err, voucher.ErrNotConfigured)
}

func TestSettingsRepository_CompareAndSetBalance(t *testing.T) {
	tests := []struct {
		name            string
		expectedBalance int64
		versionOffset   int64
		wantErr         error
		wantBalance     int64
	}{
		{name: "matching balance and version", expectedBalance: 10000, versionOffset: 0, wantBalance: 9500},
		{name: "stale balance", expectedBalance: 9000, versionOffset: 0, wantErr: voucher.ErrConflict, wantBalance: 10000},
		{name: "stale version", expectedBalance: 10000, versionOffset: -1, wantErr: voucher.ErrConflict, wantBalance: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			db := setupTestDB(t)
			clock, _ := testClock(t, "2025-06-15T12:00:00Z")
			repo := NewSettingsRepository(db, clock)
			ctx := context.Background()

			saved, err := repo.Replace(ctx, nil, voucher.SettingsDraft{Balance: yen(t, 10000)})
			require.NoError(t, err)

			// Act
			err = repo.CompareAndSetBalance(ctx, nil,
				yen(t, tt.expectedBalance), saved.Version()+tt.versionOffset, yen(t, 9500))

			// Assert
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, voucher.IsRetryable(err))
			} else {
				assert.NoError(t, err)
			}
			found, err := repo.FindCurrent(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, found.Balance().Value())
		})
	}
}

func TestSettingsRepository_CorruptRow_ReturnsCorruptedRecord(t *testing.T) {
	// Arrange：CHECK 約束擋住負數寫入，直接驗證 mapper
	model := &SettingsModel{ID: voucher.SettingsKey, Balance: -1, IssuedAt: time.Now(), UpdatedAt: time.Now()}

	// Act
	_, err := settingsToDomain(model)

	// Assert
	assert.ErrorIs(t, err, voucher.ErrCorruptedRecord)
}

func TestSettingsRepository_ClosedDB_ReturnsStoreError(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	clock, _ := testClock(t, "2025-06-15T12:00:00Z")
	repo := NewSettingsRepository(db, clock)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// Act
	_, err = repo.FindCurrent(context.Background(), nil)

	// Assert
	assert.ErrorIs(t, err, voucher.ErrStoreError)
	assert.True(t, voucher.IsRetryable(err))
	assert.NotNil(t, errors.Unwrap(err), "store error keeps its cause")
}
