package validation

import (
	"fmt"
	"regexp"

	dErrors "a2admin/pkg/domain-errors"
)

// String element length limits
const (
	// MaxTenantNameLength matches the tenant name invariant.
	MaxTenantNameLength = 128

	// MaxEmailLength is the maximum length of an email address.
	MaxEmailLength = 255

	MaxPhoneLength   = 32
	MaxAddressLength = 512
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckHexColor accepts an empty value or a #RRGGBB color.
func CheckHexColor(fieldName, value string) error {
	if value == "" || hexColor.MatchString(value) {
		return nil
	}
	return dErrors.New(dErrors.CodeValidation, fieldName+" must be a #RRGGBB color")
}
