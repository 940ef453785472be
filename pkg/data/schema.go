package data

// Schema describes the columns of a competition file.
type Schema struct {
	ID      string
	Target  string
	Numeric []string // continuous base features
	Binary  []string // Yes/No base features
}

// Features lists every base feature column.
func (s Schema) Features() []string {
	out := make([]string, 0, len(s.Numeric)+len(s.Binary))
	out = append(out, s.Numeric...)
	return append(out, s.Binary...)
}

const (
	TimeSpentAlone          = "Time_spent_Alone"
	StageFear               = "Stage_fear"
	SocialEventAttendance   = "Social_event_attendance"
	GoingOutside            = "Going_outside"
	DrainedAfterSocializing = "Drained_after_socializing"
	FriendsCircleSize       = "Friends_circle_size"
	PostFrequency           = "Post_frequency"
)

// PersonalitySchema is the layout of the Introvert/Extrovert competition data.
var PersonalitySchema = Schema{
	ID:     "id",
	Target: "Personality",
	Numeric: []string{
		TimeSpentAlone,
		SocialEventAttendance,
		GoingOutside,
		FriendsCircleSize,
		PostFrequency,
	},
	Binary: []string{StageFear, DrainedAfterSocializing},
}
