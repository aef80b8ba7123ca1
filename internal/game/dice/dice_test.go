package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource replays a scripted sequence of Intn results.
type fakeSource struct {
	values []int
}

func (f *fakeSource) Intn(n int) int {
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[0]
	f.values = f.values[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func TestParse(t *testing.T) {
	tests := []struct {
		expr string
		want Expression
	}{
		{"d20", Expression{Raw: "d20", Count: 1, Sides: 20}},
		{"2d6", Expression{Raw: "2d6", Count: 2, Sides: 6}},
		{"2d6+3", Expression{Raw: "2d6+3", Count: 2, Sides: 6, Modifier: 3}},
		{"4d8-2", Expression{Raw: "4d8-2", Count: 4, Sides: 8, Modifier: -2}},
		{"3D10+1", Expression{Raw: "3D10+1", Count: 3, Sides: 10, Modifier: 1}},
		{" 1d4 ", Expression{Raw: " 1d4 ", Count: 1, Sides: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	exprs := []string{
		"",
		"20",
		"2x6",
		"0d6",
		"-1d6",
		"2d",
		"2d1",
		"2d6+",
		"2d6+x",
		"ad6",
	}
	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			assert.Error(t, err)
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("3d6+2"))
	assert.False(t, Valid("3d6+"))
}

func TestRoll(t *testing.T) {
	// Intn yields 0-based values; each die adds one.
	r := NewRoller(&fakeSource{values: []int{2, 5, 0}})
	expr, err := Parse("3d6+4")
	require.NoError(t, err)
	assert.Equal(t, 3+6+1+4, r.Roll(expr))
}

func TestRollExpr(t *testing.T) {
	r := NewRoller(&fakeSource{values: []int{9}})
	total, err := r.RollExpr("d20-5")
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	_, err = r.RollExpr("nope")
	assert.Error(t, err)
}

func TestPercentBounds(t *testing.T) {
	r := NewRoller(&fakeSource{})
	assert.False(t, r.Percent(0))
	assert.False(t, r.Percent(-5))
	assert.True(t, r.Percent(100))
	assert.True(t, r.Percent(250))
}

func TestPercentRoll(t *testing.T) {
	// Intn(100) = 49 means a roll of 50.
	assert.True(t, NewRoller(&fakeSource{values: []int{49}}).Percent(50))
	assert.False(t, NewRoller(&fakeSource{values: []int{50}}).Percent(50))
}
