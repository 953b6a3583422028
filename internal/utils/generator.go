package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	DefaultCodeLength = 6
	alphabet          = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateCode возвращает случайный код из 6 символов.
// 62^6 ≈ 5.6×10^10 комбинаций — коллизии маловероятны, но возможны,
// поэтому вызывающий обязан проверять уникальность.
func GenerateCode() (string, error) {
	return GenerateCodeWithLength(DefaultCodeLength)
}

func GenerateCodeWithLength(length int) (string, error) {
	code := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := range code {
		randomIndex, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[randomIndex.Int64()]
	}

	return string(code), nil
}
