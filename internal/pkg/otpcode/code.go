// Package otpcode generates the numeric one-time codes mailed to users.
package otpcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Min is the smallest code Generate can return.
	Min = 100000
	// Max is the largest code Generate can return.
	Max = 999999
	// Length is the number of digits in every code.
	Length = 6
)

var span = big.NewInt(Max - Min + 1)

// Generate returns a uniformly distributed code in [Min, Max] drawn from
// crypto/rand. Codes never carry leading zeros.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+Min), nil
}
