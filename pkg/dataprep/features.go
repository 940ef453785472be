package dataprep

import (
	"math"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
)

type row map[string]float64

type derived struct {
	name string
	fn   func(r row) float64
}

const (
	alone   = data.TimeSpentAlone
	fear    = data.StageFear
	events  = data.SocialEventAttendance
	outside = data.GoingOutside
	drained = data.DrainedAfterSocializing
	friends = data.FriendsCircleSize
	posts   = data.PostFrequency
)

func extrovertScore(r row) float64 { return r[events] + r[outside] + r[friends] + r[posts] }

func introvertScore(r row) float64 { return r[alone] + 5*r[fear] + 5*r[drained] }

var (
	aloneEdges   = []float64{2, 5, 8}
	friendsEdges = []float64{3, 7, 11}
	eventsEdges  = []float64{3, 6}
)

// Denominators add 1 so zero counts do not divide by zero; inputs are
// assumed non-negative.
var derivedFeatures = []derived{
	{"social_activity", func(r row) float64 { return r[events] + r[outside] }},
	{"social_ratio", func(r row) float64 { return r[events] / (r[alone] + 1) }},
	{"outside_ratio", func(r row) float64 { return r[outside] / (r[alone] + 1) }},
	{"friends_per_event", func(r row) float64 { return r[friends] / (r[events] + 1) }},
	{"posts_per_friend", func(r row) float64 { return r[posts] / (r[friends] + 1) }},
	{"alone_x_fear", func(r row) float64 { return r[alone] * r[fear] }},
	{"alone_x_drained", func(r row) float64 { return r[alone] * r[drained] }},
	{"fear_x_drained", func(r row) float64 { return r[fear] * r[drained] }},
	{"introvert_signals", func(r row) float64 { return r[fear] + r[drained] }},
	{"extrovert_score", extrovertScore},
	{"introvert_score", introvertScore},
	{"social_balance", func(r row) float64 { return extrovertScore(r) - introvertScore(r) }},
	{"events_x_friends", func(r row) float64 { return r[events] * r[friends] }},
	{"online_vs_outside", func(r row) float64 { return r[posts] - r[outside] }},
	{"alone_sq", func(r row) float64 { return r[alone] * r[alone] }},
	{"friends_sq", func(r row) float64 { return r[friends] * r[friends] }},
	{"log_alone", func(r row) float64 { return math.Log1p(r[alone]) }},
	{"log_friends", func(r row) float64 { return math.Log1p(r[friends]) }},
	{"log_posts", func(r row) float64 { return math.Log1p(r[posts]) }},
	{"alone_bin", func(r row) float64 { return Bin(r[alone], aloneEdges) }},
	{"friends_bin", func(r row) float64 { return Bin(r[friends], friendsEdges) }},
	{"social_bin", func(r row) float64 { return Bin(r[events], eventsEdges) }},
}

// DerivedNames lists the columns Engineer adds, in order.
func DerivedNames() []string {
	out := make([]string, len(derivedFeatures))
	for i, d := range derivedFeatures {
		out[i] = d.name
	}
	return out
}

// Engineer returns a new frame holding every column of f plus the derived
// personality features. f is not modified.
func Engineer(f *data.Frame) (*data.Frame, error) {
	base := data.PersonalitySchema.Features()
	cols := make(map[string][]float64, len(base))
	for _, c := range base {
		col, err := f.Column(c)
		if err != nil {
			return nil, err
		}
		cols[c] = col
	}

	out := f.Clone()
	values := make([][]float64, len(derivedFeatures))
	for j := range values {
		values[j] = make([]float64, f.Len())
	}
	r := make(row, len(base))
	for i := 0; i < f.Len(); i++ {
		for _, c := range base {
			r[c] = cols[c][i]
		}
		for j, d := range derivedFeatures {
			values[j][i] = d.fn(r)
		}
	}
	for j, d := range derivedFeatures {
		if err := out.SetColumn(d.name, values[j]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Bin returns the ordinal bin of v for right-closed intervals
// (-inf,e0], (e0,e1], ..., (en,+inf). NaN stays NaN.
func Bin(v float64, edges []float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	b := 0
	for _, e := range edges {
		if v > e {
			b++
		}
	}
	return float64(b)
}
