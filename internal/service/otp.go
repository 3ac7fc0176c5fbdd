package service

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// generateOTP draws a 6-digit code uniformly from 100000-999999.
// crypto/rand keeps the 900k-value space honest against guessing; the
// 10-minute expiry bounds exposure either way.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}
