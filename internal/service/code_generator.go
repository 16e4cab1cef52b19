package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeMin = 111111
	codeMax = 999999
)

// CodeGenerator produces fixed-width numeric verification codes.
// Injectable so tests can pin the generated value.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomCodeGenerator draws uniformly from [111111, 999999] using
// crypto/rand.
type RandomCodeGenerator struct{}

func (RandomCodeGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
