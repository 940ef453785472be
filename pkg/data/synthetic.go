package data

import (
	"math"
	"math/rand"
	"path/filepath"
	"strconv"
)

// SyntheticSet is a generated train/test/sample-submission triplet.
type SyntheticSet struct {
	Train  *Frame
	Test   *Frame
	Sample *Frame
}

// Synthetic generates Personality-shaped data. Time_spent_Alone separates the
// classes perfectly (introverts >= 6, extroverts <= 4); the remaining columns
// are correlated with the class but noisy. missing is the fraction of base
// cells blanked out.
func Synthetic(nTrain, nTest int, missing float64, seed int64) *SyntheticSet {
	rnd := rand.New(rand.NewSource(seed))
	s := PersonalitySchema

	gen := func(n, offset int, withTarget bool) *Frame {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = strconv.Itoa(offset + i)
		}
		f := NewFrame(s.ID, ids)
		cols := map[string][]float64{}
		for _, c := range s.Numeric {
			cols[c] = make([]float64, n)
		}
		fear := make([]string, n)
		drained := make([]string, n)
		target := make([]string, n)

		for i := 0; i < n; i++ {
			intro := rnd.Intn(2) == 1
			if intro {
				cols[TimeSpentAlone][i] = float64(6 + rnd.Intn(6))
				cols[SocialEventAttendance][i] = clamp(rnd.NormFloat64()*1.5+2, 0, 10)
				cols[GoingOutside][i] = clamp(rnd.NormFloat64()*1.2+1.5, 0, 7)
				cols[FriendsCircleSize][i] = clamp(rnd.NormFloat64()*2+4, 0, 15)
				cols[PostFrequency][i] = clamp(rnd.NormFloat64()*1.5+2, 0, 10)
				fear[i] = yesNo(rnd.Float64() < 0.85)
				drained[i] = yesNo(rnd.Float64() < 0.85)
				target[i] = "Introvert"
			} else {
				cols[TimeSpentAlone][i] = float64(rnd.Intn(5))
				cols[SocialEventAttendance][i] = clamp(rnd.NormFloat64()*1.5+6, 0, 10)
				cols[GoingOutside][i] = clamp(rnd.NormFloat64()*1.2+4.5, 0, 7)
				cols[FriendsCircleSize][i] = clamp(rnd.NormFloat64()*2.5+9, 0, 15)
				cols[PostFrequency][i] = clamp(rnd.NormFloat64()*1.5+6, 0, 10)
				fear[i] = yesNo(rnd.Float64() < 0.15)
				drained[i] = yesNo(rnd.Float64() < 0.15)
				target[i] = "Extrovert"
			}
			for _, c := range s.Numeric {
				cols[c][i] = math.Round(cols[c][i])
				// the separating column stays complete
				if c != TimeSpentAlone && rnd.Float64() < missing {
					cols[c][i] = math.NaN()
				}
			}
			if rnd.Float64() < missing {
				fear[i] = ""
			}
			if rnd.Float64() < missing {
				drained[i] = ""
			}
		}

		_ = f.SetColumn(TimeSpentAlone, cols[TimeSpentAlone])
		_ = f.SetText(StageFear, fear)
		for _, c := range s.Numeric[1:] {
			_ = f.SetColumn(c, cols[c])
		}
		_ = f.SetText(DrainedAfterSocializing, drained)
		if withTarget {
			_ = f.SetText(s.Target, target)
		}
		return f
	}

	train := gen(nTrain, 0, true)
	test := gen(nTest, nTrain, false)
	sample := NewFrame(s.ID, test.IDs)
	fill := make([]string, nTest)
	for i := range fill {
		fill[i] = "Extrovert"
	}
	_ = sample.SetText(s.Target, fill)
	return &SyntheticSet{Train: train, Test: test, Sample: sample}
}

// Write stores the triplet as train.csv, test.csv and sample_submission.csv in dir.
func (s *SyntheticSet) Write(dir string) (Paths, error) {
	p := Paths{
		Train:            filepath.Join(dir, "train.csv"),
		Test:             filepath.Join(dir, "test.csv"),
		SampleSubmission: filepath.Join(dir, "sample_submission.csv"),
	}
	if err := WriteCSV(p.Train, s.Train); err != nil {
		return p, err
	}
	if err := WriteCSV(p.Test, s.Test); err != nil {
		return p, err
	}
	return p, WriteCSV(p.SampleSubmission, s.Sample)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
