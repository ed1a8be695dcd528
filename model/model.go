package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// subscriberPattern matches the forms players actually type into the payment
// form: a full 254-prefixed number, a 0-prefixed local number, or a bare
// subscriber number starting with 7 or 1.
var subscriberPattern = regexp.MustCompile(`^(?:254|0)?([17]\d{8})$`)

// GenerateUUIDWithPrefix generates a UUID prefixed with a module name.
// Used to create context-specific identifiers like pay_..., reg_..., trn_...
func GenerateUUIDWithPrefix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// NormalizePhone converts a phone number to the canonical 254XXXXXXXXX form
// the gateway requires. Accepted inputs: 254XXXXXXXXX, 0XXXXXXXXX and
// XXXXXXXXX (subscriber number only), with an optional leading "+".
// Anything else is rejected before a network call is ever made.
func NormalizePhone(phone string) (string, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(phone), "+")
	matches := subscriberPattern.FindStringSubmatch(cleaned)
	if matches == nil {
		return "", fmt.Errorf("invalid phone number %q: expected 254XXXXXXXXX, 0XXXXXXXXX or a 9-digit subscriber number", phone)
	}
	return "254" + matches[1], nil
}
