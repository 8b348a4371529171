package models

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/go-playground/validator/v10"
)

// MaxDescriptionWords bounds the post description.
const MaxDescriptionWords = 300

// PostDraft is the user input for creating or editing a post.
// Category holds a canonical category value or "other"; in the latter case
// CustomCategory carries the free-text label.
type PostDraft struct {
	AuthorName     string `validate:"required"`
	CompanyName    string `validate:"required"`
	Description    string `validate:"required,maxwords=300"`
	ContactEmail   string `validate:"required,email"`
	ContactPhone   string `validate:"required"`
	Category       string `validate:"required"`
	CustomCategory string `validate:"required_if=Category other"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func draftValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("maxwords", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return WordCount(fl.Field().String()) <= limit
		})
	})
	return validate
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Validate checks the draft at the input boundary. Errors wrap
// common.ErrValidation and name the offending fields.
func (d PostDraft) Validate() error {
	err := draftValidator().Struct(d)
	if err == nil {
		if d.Category == common.OtherCategory && strings.TrimSpace(d.CustomCategory) == "" {
			return fmt.Errorf("%w: CustomCategory is required", common.ErrValidation)
		}
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "maxwords":
		return fmt.Sprintf("%s must have at most %s words", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}
