package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/rangelog/internal/analytics"
	"github.com/balkashynov/rangelog/internal/models"
)

func TestParseRoundEntry(t *testing.T) {
	tests := []struct {
		input string
		want  RoundEntry
	}{
		{"+17", RoundEntry{Kind: EntryDelta, Value: 17}},
		{"-5", RoundEntry{Kind: EntryDelta, Value: -5}},
		{" + 3 ", RoundEntry{Kind: EntryDelta, Value: 3}},
		{"120", RoundEntry{Kind: EntryTotal, Value: 120}},
		{"=0", RoundEntry{Kind: EntryTotal, Value: 0}},
		{"mag", RoundEntry{Kind: EntryMagazine, Value: 1}},
		{"+MAG", RoundEntry{Kind: EntryMagazine, Value: 1}},
		{"-mag", RoundEntry{Kind: EntryMagazine, Value: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRoundEntry(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "abc", "+", "1.5", "=-3", "++2"} {
		_, err := ParseRoundEntry(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseMalfunctionKind(t *testing.T) {
	tests := map[string]models.MalfunctionKind{
		"ftf":                  models.MalfunctionFailureToFeed,
		"Failure to feed":      models.MalfunctionFailureToFeed,
		"stovepipe":            models.MalfunctionStovepipe,
		"fte":                  models.MalfunctionFailureToEject,
		"light-strike":         models.MalfunctionLightStrike,
		"DF":                   models.MalfunctionDoubleFeed,
		"failure_to_lock_back": models.MalfunctionFailureToLockBack,
		"other":                models.MalfunctionOther,
	}
	for input, want := range tests {
		got, err := ParseMalfunctionKind(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseMalfunctionKind("squib")
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	tests := map[string]analytics.Range{
		"7d":   analytics.Last7Days,
		"30D":  analytics.Last30Days,
		"90d":  analytics.Last90Days,
		"ytd":  analytics.YearToDate,
		"all":  analytics.AllTime,
		"":     analytics.AllTime,
		"week": analytics.Last7Days,
	}
	for input, want := range tests {
		got, err := ParseRange(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseRange("14d")
	assert.Error(t, err)
}

func TestParseEnums(t *testing.T) {
	bt, err := ParseBulletType("JHP")
	require.NoError(t, err)
	assert.Equal(t, models.BulletJHP, bt)
	bt, err = ParseBulletType("")
	require.NoError(t, err)
	assert.Equal(t, models.BulletFMJ, bt)
	_, err = ParseBulletType("tracer")
	assert.Error(t, err)

	class, err := ParseFirearmClass("pistol")
	require.NoError(t, err)
	assert.Equal(t, models.ClassHandgun, class)
	_, err = ParseFirearmClass("cannon")
	assert.Error(t, err)

	tag, err := ParsePhotoTag("malf")
	require.NoError(t, err)
	assert.Equal(t, models.PhotoMalfunction, tag)
	tag, err = ParsePhotoTag("")
	require.NoError(t, err)
	assert.Equal(t, models.PhotoTarget, tag)

	grain, err := ParseGrain("124 grain")
	require.NoError(t, err)
	assert.Equal(t, 124, grain)
	_, err = ParseGrain("0")
	assert.Error(t, err)
}

func TestParseFirearm(t *testing.T) {
	got := ParseFirearm("Glock 19 Gen5 @9mm #handgun mag:15,17")
	assert.Empty(t, got.Errors)
	assert.Equal(t, "Glock", got.Brand)
	assert.Equal(t, "19 Gen5", got.Model)
	assert.Equal(t, "9mm", got.Caliber)
	assert.Equal(t, models.ClassHandgun, got.Class)
	assert.Equal(t, []int{15, 17}, got.Magazines)

	got = ParseFirearm("Ruger")
	assert.Empty(t, got.Errors)
	assert.Equal(t, "Ruger", got.Brand)
	assert.Equal(t, models.ClassOther, got.Class)

	got = ParseFirearm("@9mm #laser")
	assert.Len(t, got.Errors, 2)
}

func TestParseAmmo(t *testing.T) {
	got := ParseAmmo("Federal American Eagle @9mm 115gr #fmj x50")
	assert.Empty(t, got.Errors)
	assert.Equal(t, "Federal American Eagle", got.Brand)
	assert.Equal(t, "9mm", got.Caliber)
	assert.Equal(t, 115, got.GrainWeight)
	assert.Equal(t, models.BulletFMJ, got.BulletType)
	require.NotNil(t, got.BoxQuantity)
	assert.Equal(t, 50, *got.BoxQuantity)

	got = ParseAmmo("Hornady 124gr")
	assert.Nil(t, got.BoxQuantity)
	assert.Contains(t, got.Errors, "Caliber is required (e.g. @9mm)")
}
