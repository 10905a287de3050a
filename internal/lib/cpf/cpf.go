// Package cpf реализует проверку бразильского национального идентификатора CPF.
// Принимаются значения в формате 000.000.000-00 или 11 цифр подряд;
// проверяются контрольные цифры.
package cpf

import (
	"errors"
	"strings"
)

// ErrInvalid возвращается для значения, не являющегося корректным CPF.
var ErrInvalid = errors.New("invalid cpf")

// Normalize убирает разделители и возвращает 11 цифр CPF.
// Возвращает ErrInvalid, если значение не проходит проверку.
func Normalize(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)

	if len(digits) != 11 {
		return "", ErrInvalid
	}

	// Все цифры одинаковые — формально корректная, но запрещённая последовательность.
	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return "", ErrInvalid
	}

	if checkDigit(digits, 9) != int(digits[9]-'0') {
		return "", ErrInvalid
	}
	if checkDigit(digits, 10) != int(digits[10]-'0') {
		return "", ErrInvalid
	}
	return digits, nil
}

func checkDigit(digits string, position int) int {
	sum := 0
	weight := position + 1
	for i := range position {
		sum += int(digits[i]-'0') * (weight - i)
	}
	rest := sum * 10 % 11
	if rest == 10 {
		return 0
	}
	return rest
}
