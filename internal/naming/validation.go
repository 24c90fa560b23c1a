package naming

import (
	"fmt"
	"unicode/utf8"
)

const (
	volumeNameMaxLength = 128
	aliasMaxLength      = 64
)

func isNameChar(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '.' || r == '-'
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// ValidateVolumeName checks name against the Docker volume name grammar
// [a-zA-Z0-9][a-zA-Z0-9_.-]+.
func ValidateVolumeName(name string) error {
	if len(name) < 2 {
		return fmt.Errorf("volume name %q must be at least 2 characters", name)
	}
	if len(name) > volumeNameMaxLength {
		return fmt.Errorf("volume name exceeds %d characters", volumeNameMaxLength)
	}
	for i, r := range name {
		if i == 0 && !isAlnum(r) {
			return fmt.Errorf("volume name %q must start with a letter or digit", name)
		}
		if !isNameChar(r) {
			return fmt.Errorf("volume name %q contains invalid character %q", name, r)
		}
	}
	return nil
}

// ValidateAlias checks a display name.
func ValidateAlias(alias string) error {
	if alias == "" {
		return fmt.Errorf("alias must not be empty")
	}
	if n := utf8.RuneCountInString(alias); n > aliasMaxLength {
		return fmt.Errorf("alias exceeds %d characters", aliasMaxLength)
	}
	return nil
}
