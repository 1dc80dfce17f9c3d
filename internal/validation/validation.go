package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/avitali/portfolio-dashboard/internal/apperrors"
)

// isinPattern matches the ISO 6166 shape: two letters, nine
// alphanumerics, one check digit. The checksum itself is not verified;
// broker exports occasionally carry synthetic codes for delisted
// products and rejecting those would strand real transactions.
var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// ValidateIsin checks that a string has the ISIN shape.
func ValidateIsin(isin string) error {
	if !isinPattern.MatchString(isin) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidIsin, isin)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD query or body value.
func ParseDate(str string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", str)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, want YYYY-MM-DD", apperrors.ErrInvalidDate, str)
	}
	return t.UTC(), nil
}
