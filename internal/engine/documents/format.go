package documents

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var monthNames = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatCurrency renders a value in the Brazilian convention:
// thousands separated by periods, comma decimals, R$ prefix.
func FormatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	cents := int64(math.Round(v * 100))
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("R$ %s%s,%02d", sign, strings.Join(groups, "."), frac)
}

// FormatDate renders dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// DateInWords renders the date the way legal documents are dated,
// e.g. "31 de agosto de 2026".
func DateInWords(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}
