package outbox

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Platform identifies the messaging channel a notification targets.
type Platform int

const (
	// PlatformUnknown represents an invalid or undefined platform.
	PlatformUnknown Platform = iota

	// PlatformTelegram targets Telegram recipients.
	PlatformTelegram

	// PlatformWhatsApp targets WhatsApp recipients.
	PlatformWhatsApp
)

func getPlatformStrings() map[Platform]string {
	return map[Platform]string{
		PlatformUnknown:  "Unknown",
		PlatformTelegram: "Telegram",
		PlatformWhatsApp: "WhatsApp",
	}
}

// Validate checks if the Platform value is one of the supported channels.
func (p Platform) Validate() error {
	if p != PlatformTelegram && p != PlatformWhatsApp {
		return errs.NewValueIsInvalidErrorWithCause("platform is invalid",
			fmt.Errorf("%d is not a valid platform", p))
	}
	return nil
}

// String returns the human-readable name of the platform.
func (p Platform) String() string {
	if str, ok := getPlatformStrings()[p]; ok {
		return str
	}
	return "Unknown"
}

// PlatformFromString parses a platform name as it appears in configuration
// and inbound webhook requests.
func PlatformFromString(s string) (Platform, error) {
	switch strings.ToLower(s) {
	case "telegram":
		return PlatformTelegram, nil
	case "whatsapp":
		return PlatformWhatsApp, nil
	default:
		return PlatformUnknown, errs.NewValueIsInvalidErrorWithCause("platform is invalid",
			fmt.Errorf("%q is not a valid platform", s))
	}
}
