package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func birthday(years int, monthOffset int) *time.Time {
	d := evalNow.AddDate(-years, monthOffset, 0)
	return &d
}

func TestEvaluateAllowsUnrestrictedItem(t *testing.T) {
	d := Evaluate(ViewerContext{Role: RoleStandard}, MediaItem{ID: "m1"}, evalNow)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Reason)
	assert.NoError(t, d.Err())
}

func TestEvaluateReadOnlyIsAbsolute(t *testing.T) {
	// Every other field maximally permissive: admin, VIP, adult.
	viewer := ViewerContext{
		Role:                  RoleAdmin,
		VIP:                   true,
		BirthDate:             birthday(40, 0),
		ReadOnlyImpersonation: true,
	}
	items := []MediaItem{
		{ID: "plain"},
		{ID: "vip", VIPOnly: true},
		{ID: "aged", MinimumAge: 18},
	}
	for _, item := range items {
		d := Evaluate(viewer, item, evalNow)
		assert.False(t, d.Allowed, "item %s", item.ID)
		assert.Equal(t, DenyReadOnly, d.Reason, "item %s", item.ID)
	}
}

func TestEvaluateVIPGate(t *testing.T) {
	item := MediaItem{ID: "vip", VIPOnly: true}

	d := Evaluate(ViewerContext{Role: RoleStandard}, item, evalNow)
	require.False(t, d.Allowed)
	assert.Equal(t, DenyVIPRequired, d.Reason)

	d = Evaluate(ViewerContext{Role: RoleStandard, VIP: true}, item, evalNow)
	assert.True(t, d.Allowed)

	// Administrators reviewing content bypass the VIP gate.
	d = Evaluate(ViewerContext{Role: RoleAdmin}, item, evalNow)
	assert.True(t, d.Allowed)
}

func TestEvaluateAgeGate(t *testing.T) {
	item := MediaItem{ID: "aged", MinimumAge: 12}

	t.Run("unknown birth date", func(t *testing.T) {
		d := Evaluate(ViewerContext{Role: RoleStandard}, item, evalNow)
		require.False(t, d.Allowed)
		assert.Equal(t, DenyAgeUnknown, d.Reason)
	})

	t.Run("too young", func(t *testing.T) {
		d := Evaluate(ViewerContext{Role: RoleStandard, BirthDate: birthday(10, 0)}, item, evalNow)
		require.False(t, d.Allowed)
		assert.Equal(t, DenyAgeRestricted, d.Reason)
	})

	t.Run("old enough", func(t *testing.T) {
		d := Evaluate(ViewerContext{Role: RoleStandard, BirthDate: birthday(12, 0)}, item, evalNow)
		assert.True(t, d.Allowed)
	})

	t.Run("birthday not yet reached this year", func(t *testing.T) {
		// Born 12 years ago but one month in the future: still 11.
		d := Evaluate(ViewerContext{Role: RoleStandard, BirthDate: birthday(12, 1)}, item, evalNow)
		require.False(t, d.Allowed)
		assert.Equal(t, DenyAgeRestricted, d.Reason)
	})
}

func TestEvaluateAgeMonotonicity(t *testing.T) {
	item := MediaItem{ID: "aged", MinimumAge: 16}
	for age := 0; age <= 30; age++ {
		d := Evaluate(ViewerContext{Role: RoleStandard, BirthDate: birthday(age, 0)}, item, evalNow)
		if age >= item.MinimumAge {
			assert.True(t, d.Allowed, "age %d", age)
		} else {
			assert.False(t, d.Allowed, "age %d", age)
			assert.Equal(t, DenyAgeRestricted, d.Reason, "age %d", age)
		}
	}
}

func TestEvaluateRuleOrder(t *testing.T) {
	// VIP gate is checked before the age gate: a non-VIP viewer with no
	// birth date hitting a vip-only age-gated item sees the VIP reason.
	item := MediaItem{ID: "both", VIPOnly: true, MinimumAge: 18}
	d := Evaluate(ViewerContext{Role: RoleStandard}, item, evalNow)
	require.False(t, d.Allowed)
	assert.Equal(t, DenyVIPRequired, d.Reason)
}

func TestEvaluateDeterministic(t *testing.T) {
	viewer := ViewerContext{Role: RoleStandard, VIP: true, BirthDate: birthday(25, 0)}
	item := MediaItem{ID: "m", VIPOnly: true, MinimumAge: 18}
	first := Evaluate(viewer, item, evalNow)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(viewer, item, evalNow))
	}
}

func TestViewerAge(t *testing.T) {
	_, known := ViewerContext{}.Age(evalNow)
	assert.False(t, known)

	b := time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)
	age, known := ViewerContext{BirthDate: &b}.Age(evalNow)
	require.True(t, known)
	assert.Equal(t, 26, age, "birthday today counts the full year")

	b = time.Date(2000, time.June, 16, 0, 0, 0, 0, time.UTC)
	age, _ = ViewerContext{BirthDate: &b}.Age(evalNow)
	assert.Equal(t, 25, age, "birthday tomorrow has not happened yet")
}
