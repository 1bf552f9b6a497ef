package model

// DiagnosisAnswer is the outcome of one run of the mood questionnaire.
type DiagnosisAnswer struct {
	Energy   Energy   `json:"energy" validate:"required,oneof=low medium high"`
	GoOut    bool     `json:"goOut"`
	Activity Activity `json:"activityType" validate:"required,oneof=passive active"`
}

// MatchResult scores one step-up hobby against the user's top tags.
type MatchResult struct {
	Hobby       StepUpHobby `json:"hobby"`
	MatchScore  int         `json:"matchScore"`
	MatchedTags []string    `json:"matchedTags"`
}
