package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreatePollRequest struct {
	Question   string     `json:"question" binding:"required"`
	Options    []string   `json:"options" binding:"required"`
	Visibility Visibility `json:"visibility"`
	EndsAt     *time.Time `json:"ends_at"`
}

func (r CreatePollRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Question, validation.Required, validation.Length(1, MaxQuestionLen)),
		validation.Field(&r.Options,
			validation.Required,
			validation.Length(MinOptions, MaxOptions),
			validation.Each(validation.Required, validation.Length(1, MaxOptionLength)),
			validation.By(distinctOptions),
		),
		validation.Field(&r.Visibility, validation.In(visibilitiesAsAny()...).Error("unknown visibility")),
	)
}

type VoteRequest struct {
	Option *int `json:"option" binding:"required"`
}

func (r VoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Option, validation.NotNil, validation.Min(0)),
	)
}

func distinctOptions(value interface{}) error {
	opts, _ := value.([]string)
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		k := strings.ToLower(strings.TrimSpace(o))
		if seen[k] {
			return errors.New("options must be distinct")
		}
		seen[k] = true
	}
	return nil
}

func visibilitiesAsAny() []interface{} {
	out := make([]interface{}, 0, 4)
	for _, v := range AllVisibilities() {
		out = append(out, v)
	}
	return out
}
