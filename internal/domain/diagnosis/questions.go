package diagnosis

import (
	"errors"
	"fmt"

	"github.com/okian/hobbyseeds/internal/domain/model"
)

// ErrInvalidAnswer reports an answer outside the questionnaire's options.
var ErrInvalidAnswer = errors.New("invalid diagnosis answer")

// Answer keys of the questionnaire.
const (
	KeyEnergy   = "energy"
	KeyGoOut    = "goOut"
	KeyActivity = "activityType"
)

// Option is one selectable answer of a question.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"emoji"`
}

// Question is one step of the mood questionnaire.
type Question struct {
	ID        int      `json:"id"`
	Text      string   `json:"text"`
	Options   []Option `json:"options"`
	AnswerKey string   `json:"answerKey"`
}

var questions = []Question{
	{
		ID:   1,
		Text: "今のエネルギーレベルは？",
		Options: []Option{
			{Value: model.EnergyLow, Label: "のんびり", Icon: "😴"},
			{Value: model.EnergyMedium, Label: "ふつう", Icon: "😊"},
			{Value: model.EnergyHigh, Label: "元気いっぱい", Icon: "🔥"},
		},
		AnswerKey: KeyEnergy,
	},
	{
		ID:   2,
		Text: "外に出たい気分？",
		Options: []Option{
			{Value: true, Label: "外に出たい", Icon: "🚶"},
			{Value: false, Label: "家にいたい", Icon: "🏠"},
		},
		AnswerKey: KeyGoOut,
	},
	{
		ID:   3,
		Text: "何をしたい気分？",
		Options: []Option{
			{Value: model.ActivityActive, Label: "何かを作る・動く", Icon: "✨"},
			{Value: model.ActivityPassive, Label: "ぼんやり眺める・聴く", Icon: "👀"},
		},
		AnswerKey: KeyActivity,
	},
}

// Questions returns the questionnaire in the order it is asked.
func Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Validate checks that every field of answer is one of the offered options.
func Validate(answer model.DiagnosisAnswer) error {
	if !answer.Energy.Valid() {
		return fmt.Errorf("%w: energy %q", ErrInvalidAnswer, answer.Energy)
	}
	if !answer.Activity.Valid() {
		return fmt.Errorf("%w: activityType %q", ErrInvalidAnswer, answer.Activity)
	}
	return nil
}
