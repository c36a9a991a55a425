package validation

import (
	"fmt"

	dErrors "beneficios/pkg/domain-errors"
)

// Profile limits. validator tags cover ranges; these bound the free lists.
const (
	// MaxCurrentBenefits caps beneficiosAtuais.
	MaxCurrentBenefits = 50

	// MaxBenefitIDLength bounds a benefit id in a path or list.
	MaxBenefitIDLength = 100
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, limit int) error {
	if count > limit {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, limit))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, limit int) error {
	if len(value) > limit {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, limit))
	}
	return nil
}

// CheckEachStringLength validates every element of values against limit.
func CheckEachStringLength(fieldName string, values []string, limit int) error {
	for _, v := range values {
		if err := CheckStringLength(fieldName, v, limit); err != nil {
			return err
		}
	}
	return nil
}
