package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "tandem/pkg/domain-errors"
)

func TestAgePreference_Banding(t *testing.T) {
	p := DefaultAgePreference()

	t.Run("preferred up to and including max diff", func(t *testing.T) {
		assert.True(t, p.IsPreferred(0))
		assert.True(t, p.IsPreferred(5))
		assert.False(t, p.IsPreferred(6))
	})

	t.Run("cutoff at and beyond cutoff diff", func(t *testing.T) {
		assert.False(t, p.IsCutoff(5))
		assert.True(t, p.IsCutoff(6))
		assert.True(t, p.IsCutoff(30))
	})

	t.Run("classify", func(t *testing.T) {
		wide := AgePreference{PreferredMaxDiff: 3, CutoffDiff: 8}
		assert.Equal(t, AgeBandPreferred, wide.Classify(3))
		assert.Equal(t, AgeBandAcceptable, wide.Classify(4))
		assert.Equal(t, AgeBandAcceptable, wide.Classify(7))
		assert.Equal(t, AgeBandCutoff, wide.Classify(8))
	})
}

func TestAgePreference_Invariants(t *testing.T) {
	_, err := NewAgePreference(-1, 3, false)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewAgePreference(5, 5, false)
	require.Error(t, err)

	p, err := NewAgePreference(5, 6, true)
	require.NoError(t, err)
	assert.True(t, p.AllowCutoffWhenInsufficient)
}

func TestAgePreference_Range(t *testing.T) {
	p := DefaultAgePreference()

	preferred := p.Range(AgeBandPreferred, 30)
	assert.True(t, preferred.Contains(25))
	assert.True(t, preferred.Contains(35))
	assert.False(t, preferred.Contains(36))

	assert.Nil(t, p.Range(AgeBandAcceptable, 30), "no integer lies strictly between 5 and 6")

	cutoff := p.Range(AgeBandCutoff, 30)
	assert.True(t, cutoff.Contains(36))
	assert.True(t, cutoff.Contains(70))
	assert.False(t, cutoff.Contains(34))
}
