package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoverageEnd(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, start.AddDate(0, 0, 30), CoverageEnd(start, 1))
	assert.Equal(t, start.AddDate(0, 0, 360), CoverageEnd(start, 12))
}

func TestWarrantyEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("active within window", func(t *testing.T) {
		w := Warranty{Status: WarrantyStatusActive, EndDate: now.AddDate(0, 0, 10)}
		assert.Equal(t, WarrantyStatusActive, w.EffectiveStatus(now))
	})

	t.Run("active past end reads expired", func(t *testing.T) {
		w := Warranty{Status: WarrantyStatusActive, EndDate: now.AddDate(0, 0, -1)}
		assert.Equal(t, WarrantyStatusExpired, w.EffectiveStatus(now))
		// Stored status is untouched.
		assert.Equal(t, WarrantyStatusActive, w.Status)
	})

	t.Run("void and claimed stand regardless of window", func(t *testing.T) {
		v := Warranty{Status: WarrantyStatusVoid, EndDate: now.AddDate(0, 0, 10)}
		assert.Equal(t, WarrantyStatusVoid, v.EffectiveStatus(now))

		cl := Warranty{Status: WarrantyStatusClaimed, EndDate: now.AddDate(0, 0, -10)}
		assert.Equal(t, WarrantyStatusClaimed, cl.EffectiveStatus(now))
	})
}

func TestWarrantyDaysRemaining(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	w := Warranty{EndDate: now.AddDate(0, 0, 7)}
	assert.Equal(t, 7, w.DaysRemaining(now))

	lapsed := Warranty{EndDate: now.AddDate(0, 0, -3)}
	assert.Equal(t, 0, lapsed.DaysRemaining(now), "never negative")
}

func TestWarrantyClaimable(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("claimed warranty still accepts claims inside window", func(t *testing.T) {
		w := Warranty{Status: WarrantyStatusClaimed, EndDate: now.AddDate(0, 0, 5)}
		assert.True(t, w.Claimable(now))
	})

	t.Run("void never accepts claims", func(t *testing.T) {
		w := Warranty{Status: WarrantyStatusVoid, EndDate: now.AddDate(0, 0, 5)}
		assert.False(t, w.Claimable(now))
	})

	t.Run("past end rejects claims", func(t *testing.T) {
		w := Warranty{Status: WarrantyStatusActive, EndDate: now.AddDate(0, 0, -1)}
		assert.False(t, w.Claimable(now))
	})
}
