package services

import (
	"strings"

	"github.com/samber/lo"
)

var joinCodeCharset = append(append([]rune{}, lo.UpperCaseLettersCharset...), lo.NumbersCharset...)

// GenerateJoinCode returns a random code made of A-Z and 0-9.
func GenerateJoinCode(length int) string {
	return lo.RandomString(length, joinCodeCharset)
}

// NormalizeCode makes user typed codes comparable with stored ones.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
