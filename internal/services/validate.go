package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// requireMin trims value and checks it has at least n characters
func requireMin(field, value string, n int) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) < n {
		return "", invalid(field, "must be at least %d characters", n)
	}
	return value, nil
}

func requireEmail(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return "", invalid(field, "must be a valid email")
	}
	return value, nil
}
