package parsing

import "fmt"

// Warning messages surfaced on extracted requests. Kept as constants so the
// merger can dedupe them across merged duplicates.
const (
	WarnLowConfidence     = "confiance faible - vérification manuelle requise"
	WarnFreeformDetected  = "format texte libre - confirmation requise"
	WarnLegacyCompactForm = "ancien format compact - champs positionnels approximatifs"
)

// DateError reports a date string ParseFlexibleDate could not read.
// Detectors never let it escape a parse pass; callers that parse dates
// directly can inspect the offending input through it.
type DateError struct {
	Input string
	Cause error
}

func (e *DateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot parse date %q: %v", e.Input, e.Cause)
	}
	return fmt.Sprintf("cannot parse date %q", e.Input)
}

func (e *DateError) Unwrap() error {
	return e.Cause
}
