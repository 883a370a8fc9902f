package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "evergreen_fan", false},
		{"Minimum Length", "ab", false},
		{"Maximum Length", strings.Repeat("a", 30), false},
		{"Too Short", "a", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "holly@example.com", false},
		{"Valid With Plus", "holly+tree@example.co.uk", false},
		{"Missing At", "holly.example.com", true},
		{"Missing Domain", "holly@", true},
		{"Missing TLD", "holly@example", true},
		{"Spaces", "holly @example.com", true},
		{"Too Long", strings.Repeat("a", 250) + "@ex.com", true},
		{"Empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "winterpass12", false},
		{"Exactly Min Length", "abcdefg1", false},
		{"Exactly Max Length", strings.Repeat("a", 127) + "1", false},
		{"Too Short", "abc1", true},
		{"Too Long", strings.Repeat("a", 128) + "1", true},
		{"No Digit", "onlyletters", true},
		{"No Letter", "1234567890", true},
		{"Unicode Letter Counts", "pässword123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTreeName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		treeName string
		wantErr  bool
	}{
		{"Valid", "Family Tree 2026", false},
		{"Maximum Length", strings.Repeat("a", 120), false},
		{"Too Long", strings.Repeat("a", 121), true},
		{"Empty", "", true},
		{"Whitespace Only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTreeName(tt.treeName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNoteMessage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{"Valid", "Happy holidays!", false},
		{"Maximum Length", strings.Repeat("a", 2000), false},
		{"Too Long", strings.Repeat("a", 2001), true},
		{"Empty", "", true},
		{"Whitespace Only", " \t\n ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNoteMessage(tt.message)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCommentContent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"Valid", "Love this note", false},
		{"Maximum Length", strings.Repeat("a", 1000), false},
		{"Too Long", strings.Repeat("a", 1001), true},
		{"Empty", "", true},
		{"Whitespace Only", "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommentContent(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
