package validation

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid name", input: "Business Essentials", wantErr: false},
		{name: "single character", input: "A", wantErr: false},
		{name: "surrounding spaces", input: "  Sam  ", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "at limit", input: strings.Repeat("é", MaxNameLength), wantErr: false},
		{name: "over limit", input: strings.Repeat("a", MaxNameLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWord(t *testing.T) {
	tests := []struct {
		name       string
		word       string
		wantClean  string
		wantReason string
	}{
		{name: "simple word", word: "candid", wantClean: "candid"},
		{name: "mixed case and spaces", word: "  Ephemeral ", wantClean: "ephemeral"},
		{name: "hyphenated", word: "well-read", wantClean: "well-read"},
		{name: "two letters", word: "be", wantClean: "be"},
		{name: "one letter", word: "a", wantClean: "a", wantReason: ReasonTooShort},
		{name: "too long", word: strings.Repeat("ab", 16), wantClean: strings.Repeat("ab", 16), wantReason: ReasonTooLong},
		{name: "digits", word: "abc123", wantClean: "abc123", wantReason: ReasonInvalidChars},
		{name: "apostrophe", word: "don't", wantClean: "don't", wantReason: ReasonInvalidChars},
		{name: "repeated letter", word: "aaaa", wantClean: "aaaa", wantReason: ReasonNotAWord},
		{name: "consonant run", word: "bcdf", wantClean: "bcdf", wantReason: ReasonNotAWord},
		{name: "no vowel", word: "rhythm", wantClean: "rhythm", wantReason: ReasonNotAWord},
		{name: "short consonants", word: "hm", wantClean: "hm", wantReason: ReasonNotAWord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, err := ValidateWord(tt.word)
			if clean != tt.wantClean {
				t.Errorf("ValidateWord(%q) clean = %q, want %q", tt.word, clean, tt.wantClean)
			}
			if tt.wantReason == "" {
				if err != nil {
					t.Errorf("ValidateWord(%q) unexpected error: %v", tt.word, err)
				}
				return
			}
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ValidateWord(%q) error = %v, want ValidationError", tt.word, err)
			}
			if ve.Message != tt.wantReason {
				t.Errorf("ValidateWord(%q) reason = %q, want %q", tt.word, ve.Message, tt.wantReason)
			}
		})
	}
}

func TestParseWords(t *testing.T) {
	valid, invalid := ParseWords("Candid, pragmatic;candid\nresilient  x  42 rhythm\tcandid")

	wantValid := []string{"candid", "pragmatic", "resilient"}
	if !reflect.DeepEqual(valid, wantValid) {
		t.Errorf("valid = %v, want %v", valid, wantValid)
	}

	wantInvalid := []InvalidWord{
		{Word: "x", Reason: ReasonTooShort},
		{Word: "42", Reason: ReasonInvalidChars},
		{Word: "rhythm", Reason: ReasonNotAWord},
	}
	if !reflect.DeepEqual(invalid, wantInvalid) {
		t.Errorf("invalid = %+v, want %+v", invalid, wantInvalid)
	}
}

func TestParseWordsEmpty(t *testing.T) {
	valid, invalid := ParseWords("  ,; \n ")
	if len(valid) != 0 || len(invalid) != 0 {
		t.Errorf("ParseWords(blank) = %v, %v; want nothing", valid, invalid)
	}
}
