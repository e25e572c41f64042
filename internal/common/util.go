package common

import (
	"math/rand/v2"
	"strconv"
)

// Activation codes are four decimal digits.
const (
	ActivationCodeMin = 1000
	ActivationCodeMax = 9999
)

// GenerateActivationCode returns a uniformly distributed code in
// [ActivationCodeMin, ActivationCodeMax] as a decimal string.
func GenerateActivationCode() string {
	return strconv.Itoa(ActivationCodeMin + rand.IntN(ActivationCodeMax-ActivationCodeMin+1))
}
