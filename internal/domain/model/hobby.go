// Package model contains domain models passed between layers.
package model

// Hobby is an entry of the base catalog: a tiny, low-effort activity.
type Hobby struct {
	ID       int      `json:"id" yaml:"id" validate:"required,gt=0"`
	Name     string   `json:"name" yaml:"name" validate:"required"`
	Category Category `json:"category" yaml:"category" validate:"required,oneof=contemplative auditory creative active learning routine-care playful"`
	Minutes  int      `json:"time" yaml:"time" validate:"gte=0"`
	Cost     int      `json:"cost" yaml:"cost" validate:"gte=0"`
	Location Location `json:"location" yaml:"location" validate:"required,oneof=home outside anywhere"`
	Energy   Energy   `json:"energy" yaml:"energy" validate:"required,oneof=low medium high"`
	Indoor   bool     `json:"indoor" yaml:"indoor"`
	TryStep  string   `json:"tryStep" yaml:"tryStep" validate:"required"`
	Icon     string   `json:"emoji" yaml:"emoji"`
	Tags     []string `json:"tags" yaml:"tags" validate:"required,min=1,dive,required"`
}

// IsIndoor reports whether the hobby can be done without leaving a building.
func (h Hobby) IsIndoor() bool { return h.Indoor }

// HasTag reports whether tag is one of the hobby's tags.
func (h Hobby) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// StepUpHobby is a more committed hobby unlocked after enough great attempts.
// MatchTags is the subset used for scoring and may differ from Tags.
type StepUpHobby struct {
	ID          int      `json:"id" yaml:"id" validate:"required,gt=0"`
	Name        string   `json:"name" yaml:"name" validate:"required"`
	Icon        string   `json:"emoji" yaml:"emoji"`
	Tags        []string `json:"tags" yaml:"tags" validate:"dive,required"`
	MatchTags   []string `json:"matchTags" yaml:"matchTags" validate:"required,min=1,unique,dive,required"`
	Description string   `json:"description" yaml:"description" validate:"required"`
	StartCost   string   `json:"startCost" yaml:"startCost"`
	StartGuide  string   `json:"startGuide" yaml:"startGuide"`
	TimeCommit  string   `json:"timeCommit" yaml:"timeCommit"`
	NextSteps   []string `json:"nextSteps" yaml:"nextSteps" validate:"min=2,max=4,dive,required"`
}
