package order

import (
	"fmt"

	"circulation/internal/pkg/errs"
)

// Variant selects which of the two fixed workflow configurations governs an
// order. The two shapes are enumerable tables, not user-authorable at
// runtime, so the selector is a closed enum with an exhaustive mapping.
type Variant int

const (
	// UnknownVariant represents an invalid or undefined variant.
	// This value (0) helps catch uninitialized Variant values.
	UnknownVariant Variant = iota

	// Standard is a reading-room request: materials are staged at a
	// temporary location for supervised use.
	Standard

	// Reproduction is a digitization/copying request: work is performed on
	// the materials and the result is delivered to the requester.
	Reproduction
)

func getVariantStrings() map[Variant]string {
	return map[Variant]string{
		UnknownVariant: "unknown",
		Standard:       "standard",
		Reproduction:   "reproduction",
	}
}

// VariantFromString parses the wire/database representation of a variant.
func VariantFromString(s string) (Variant, error) {
	switch s {
	case "standard":
		return Standard, nil
	case "reproduction":
		return Reproduction, nil
	default:
		return UnknownVariant, errs.NewValueIsInvalidErrorWithCause("variant",
			fmt.Errorf("%q is not a valid order variant", s))
	}
}

// Validate checks that the Variant is one of the two defined workflow
// shapes.
func (v Variant) Validate() error {
	if v != Standard && v != Reproduction {
		return errs.NewValueIsInvalidErrorWithCause("variant",
			fmt.Errorf("%d is not a valid order variant", v))
	}
	return nil
}

// String returns the lower-case name of the variant.
// Implements fmt.Stringer and is safe on invalid values.
func (v Variant) String() string {
	if s, ok := getVariantStrings()[v]; ok {
		return s
	}
	return "unknown"
}
