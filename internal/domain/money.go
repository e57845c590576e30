package domain

import (
	"strconv"
	"strings"
)

// FormatRupees groups digits the Indian way: ₹12,34,567.
func FormatRupees(amount int64) string {
	return "₹" + groupIndian(strconv.FormatInt(amount, 10))
}

// FormatRupeesExact is FormatRupees with two decimal places.
func FormatRupeesExact(amount float64) string {
	raw := strconv.FormatFloat(RoundCurrency(amount), 'f', 2, 64)
	whole, fraction, _ := strings.Cut(raw, ".")
	return "₹" + groupIndian(whole) + "." + fraction
}

func groupIndian(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return sign + strings.Join(groups, ",") + "," + tail
}
