package validator

import (
	"errors"
	"strings"
)

// Client tax identifiers are either a CPF (11 digits, personal) or a
// CNPJ (14 digits, corporate). Both carry two check digits.

var (
	ErrInvalidTaxID = errors.New("invalid tax identifier")
)

func onlyDigits(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// ValidateTaxID accepts formatted or bare CPF/CNPJ values.
func ValidateTaxID(value string) error {
	digits := onlyDigits(value)

	switch len(digits) {
	case 11:
		if !validCPF(digits) {
			return ErrInvalidTaxID
		}
	case 14:
		if !validCNPJ(digits) {
			return ErrInvalidTaxID
		}
	default:
		return ErrInvalidTaxID
	}
	return nil
}

// IsCorporateTaxID reports whether the value is a CNPJ rather than a CPF.
func IsCorporateTaxID(value string) bool {
	return len(onlyDigits(value)) == 14
}

func validCPF(d string) bool {
	if allSame(d) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(d[i]-'0') * (10 - i)
	}
	if checkDigit(sum) != int(d[9]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(d[i]-'0') * (11 - i)
	}
	return checkDigit(sum) == int(d[10]-'0')
}

var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

func validCNPJ(d string) bool {
	if allSame(d) {
		return false
	}

	sum := 0
	for i := 0; i < 12; i++ {
		sum += int(d[i]-'0') * cnpjWeights[i+1]
	}
	if checkDigit(sum) != int(d[12]-'0') {
		return false
	}

	sum = 0
	for i := 0; i < 13; i++ {
		sum += int(d[i]-'0') * cnpjWeights[i]
	}
	return checkDigit(sum) == int(d[13]-'0')
}

func checkDigit(sum int) int {
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
