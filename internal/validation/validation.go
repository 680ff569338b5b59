package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinWordLength = 2
	MaxWordLength = 30
	MaxNameLength = 80
)

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	wordCharsRegex = regexp.MustCompile(`^[a-z-]+$`)
	consonantsOnly = regexp.MustCompile(`^[bcdfghjklmnpqrstvwxz]{4,}$`)
	vowelRegex     = regexp.MustCompile(`[aeiou]`)
	wordSeparators = regexp.MustCompile(`[\s,;]+`)
)

// Rejection reasons reported for invalid words
const (
	ReasonTooShort     = "Too short"
	ReasonTooLong      = "Too long"
	ReasonInvalidChars = "Invalid characters"
	ReasonNotAWord     = "Not a valid word"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidWord is a rejected word with the reason it was rejected
type InvalidWord struct {
	Word   string `json:"word"`
	Reason string `json:"reason"`
}

// ValidateWord normalizes a word to trimmed lowercase and checks it looks
// like a real word. The normalized word is returned even when invalid.
func ValidateWord(word string) (string, error) {
	clean := strings.ToLower(strings.TrimSpace(word))

	if len(clean) < MinWordLength {
		return clean, ValidationError{Field: "word", Message: ReasonTooShort}
	}
	if len(clean) > MaxWordLength {
		return clean, ValidationError{Field: "word", Message: ReasonTooLong}
	}
	if !wordCharsRegex.MatchString(clean) {
		return clean, ValidationError{Field: "word", Message: ReasonInvalidChars}
	}
	if isRepeatedLetter(clean) || consonantsOnly.MatchString(clean) {
		return clean, ValidationError{Field: "word", Message: ReasonNotAWord}
	}
	if !vowelRegex.MatchString(clean) {
		return clean, ValidationError{Field: "word", Message: ReasonNotAWord}
	}
	return clean, nil
}

// isRepeatedLetter reports whether word is one character repeated 3+ times
func isRepeatedLetter(word string) bool {
	if len(word) < 3 {
		return false
	}
	return strings.Count(word, word[:1]) == len(word)
}

// ParseWords splits free text on whitespace, commas and semicolons and
// validates each word. Duplicates are dropped after normalization; output
// keeps first-seen order.
func ParseWords(text string) (valid []string, invalid []InvalidWord) {
	seen := make(map[string]bool)
	for _, raw := range wordSeparators.Split(strings.ToLower(text), -1) {
		word := strings.TrimSpace(raw)
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true

		clean, err := ValidateWord(word)
		var ve ValidationError
		if errors.As(err, &ve) {
			invalid = append(invalid, InvalidWord{Word: clean, Reason: ve.Message})
			continue
		}
		valid = append(valid, clean)
	}
	return valid, invalid
}

// ValidateName checks a display name or list name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", MaxNameLength)}
	}
	return nil
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}
