package accessgrants

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

// CodeLength es fijo: 6 dígitos ASCII.
const CodeLength = 6

// CodeGenerator produce el código en claro que se envía al paciente.
type CodeGenerator func() (string, error)

// RandomCode genera 6 dígitos con crypto/rand (con ceros a la izquierda).
func RandomCode() (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(CodeLength), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}

// FixedCode siempre devuelve el mismo código. Solo para modo dev/demo.
func FixedCode(code string) CodeGenerator {
	return func() (string, error) {
		if !ValidCodeFormat(code) {
			return "", ErrInvalidCodeFormat
		}
		return code, nil
	}
}

// ValidCodeFormat: exactamente 6 dígitos ASCII, sin trim.
func ValidCodeFormat(c string) bool {
	if len(c) != CodeLength {
		return false
	}
	for i := 0; i < len(c); i++ {
		if c[i] < '0' || c[i] > '9' {
			return false
		}
	}
	return true
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func codeMatches(hash, candidate string) bool {
	if hash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hash), []byte(hashCode(candidate))) == 1
}
