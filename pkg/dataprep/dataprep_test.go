package dataprep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
)

func baseFrame(t *testing.T) *data.Frame {
	t.Helper()
	f := data.NewFrame("id", []string{"1", "2"})
	require.NoError(t, f.SetColumn(data.TimeSpentAlone, []float64{0, 9}))
	require.NoError(t, f.SetColumn(data.StageFear, []float64{0, 1}))
	require.NoError(t, f.SetColumn(data.SocialEventAttendance, []float64{7, 2}))
	require.NoError(t, f.SetColumn(data.GoingOutside, []float64{5, 1}))
	require.NoError(t, f.SetColumn(data.DrainedAfterSocializing, []float64{0, 1}))
	require.NoError(t, f.SetColumn(data.FriendsCircleSize, []float64{12, 3}))
	require.NoError(t, f.SetColumn(data.PostFrequency, []float64{8, 1}))
	return f
}

func TestEngineerFormulas(t *testing.T) {
	f := baseFrame(t)
	out, err := Engineer(f)
	require.NoError(t, err)

	get := func(name string) []float64 {
		c, err := out.Column(name)
		require.NoError(t, err, name)
		return c
	}
	assert.Equal(t, []float64{12, 3}, get("social_activity"))
	assert.Equal(t, []float64{7, 0.2}, get("social_ratio"))
	assert.InDelta(t, 12.0/8, get("friends_per_event")[0], 1e-12)
	assert.Equal(t, []float64{0, 9}, get("alone_x_fear"))
	assert.Equal(t, []float64{32, 7}, get("extrovert_score"))
	assert.Equal(t, []float64{0, 19}, get("introvert_score"))
	assert.Equal(t, []float64{32, -12}, get("social_balance"))
	assert.Equal(t, []float64{0, 81}, get("alone_sq"))
	assert.InDelta(t, math.Log1p(12), get("log_friends")[0], 1e-12)
	assert.Equal(t, []float64{0, 3}, get("alone_bin"))
	assert.Equal(t, []float64{3, 0}, get("friends_bin"))
	assert.Equal(t, []float64{2, 0}, get("social_bin"))

	assert.Len(t, out.Names(), len(f.Names())+len(DerivedNames()))
}

func TestEngineerIsPureAndDeterministic(t *testing.T) {
	f := baseFrame(t)
	before := f.Clone()

	a, err := Engineer(f)
	require.NoError(t, err)
	b, err := Engineer(f)
	require.NoError(t, err)

	assert.Equal(t, before, f, "input must not be mutated")
	assert.Equal(t, a, b)
	assert.Equal(t, before.Names(), f.Names())
}

func TestEngineerSameColumnsForTrainAndTest(t *testing.T) {
	set := data.Synthetic(40, 15, 0.1, 5)
	p, err := Prepare(set.Train, set.Test, data.PersonalitySchema)
	require.NoError(t, err)

	tr, err := Engineer(p.Train)
	require.NoError(t, err)
	te, err := Engineer(p.Test)
	require.NoError(t, err)
	assert.Equal(t, tr.Names(), te.Names())
}

func TestEngineerMissingColumn(t *testing.T) {
	f := baseFrame(t).Drop(data.PostFrequency)
	_, err := Engineer(f)
	assert.ErrorIs(t, err, data.ErrMissingColumn)
}

func TestBin(t *testing.T) {
	edges := []float64{2, 5, 8}
	tests := []struct {
		v    float64
		want float64
	}{
		{-1, 0}, {2, 0}, {2.1, 1}, {5, 1}, {6, 2}, {8, 2}, {8.5, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bin(tt.v, edges), "v=%v", tt.v)
	}
	assert.True(t, math.IsNaN(Bin(math.NaN(), edges)))
}

func TestEncodeBinary(t *testing.T) {
	f := data.NewFrame("id", []string{"1", "2", "3"})
	require.NoError(t, f.SetText("fear", []string{"Yes", "no", ""}))
	out, err := EncodeBinary(f, []string{"fear"})
	require.NoError(t, err)

	col, err := out.Column("fear")
	require.NoError(t, err)
	assert.Equal(t, 1.0, col[0])
	assert.Equal(t, 0.0, col[1])
	assert.True(t, math.IsNaN(col[2]))
	assert.False(t, f.IsNumeric("fear"))

	require.NoError(t, f.SetText("fear", []string{"Maybe", "No", "Yes"}))
	_, err = EncodeBinary(f, []string{"fear"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestPrepareImputesWithTrainMedians(t *testing.T) {
	train := data.NewFrame("id", []string{"1", "2", "3"})
	test := data.NewFrame("id", []string{"4"})
	for _, c := range data.PersonalitySchema.Numeric {
		require.NoError(t, train.SetColumn(c, []float64{1, math.NaN(), 5}))
		require.NoError(t, test.SetColumn(c, []float64{math.NaN()}))
	}
	for _, c := range data.PersonalitySchema.Binary {
		require.NoError(t, train.SetText(c, []string{"Yes", "Yes", ""}))
		require.NoError(t, test.SetText(c, []string{""}))
	}

	p, err := Prepare(train, test, data.PersonalitySchema)
	require.NoError(t, err)

	col, _ := p.Train.Column(data.GoingOutside)
	assert.Equal(t, []float64{1, 3, 5}, col)
	col, _ = p.Test.Column(data.GoingOutside)
	assert.Equal(t, []float64{3}, col)
	col, _ = p.Test.Column(data.StageFear)
	assert.Equal(t, []float64{1}, col)
	assert.Equal(t, 2, p.Missing[data.GoingOutside])
}
