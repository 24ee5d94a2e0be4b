package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidationError reports a shipping form problem. It is raised before any
// network call, so a draft that fails validation never reaches the order API.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateShipping checks the shipping form: all fields required, Indian
// 10-digit mobile number, 6-digit pincode.
func ValidateShipping(s domain.ShippingDetails) error {
	required := []struct {
		field, value string
	}{
		{"name", s.Name},
		{"email", s.Email},
		{"phone", s.Phone},
		{"address", s.Address},
		{"city", s.City},
		{"state", s.State},
		{"pincode", s.Pincode},
		{"country", s.Country},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}

	if !emailPattern.MatchString(s.Email) {
		return &ValidationError{Field: "email", Message: "is not a valid email address"}
	}
	if !phonePattern.MatchString(s.Phone) {
		return &ValidationError{Field: "phone", Message: "must be a 10-digit mobile number"}
	}
	if !pincodePattern.MatchString(s.Pincode) {
		return &ValidationError{Field: "pincode", Message: "must be a 6-digit postal code"}
	}
	return nil
}
