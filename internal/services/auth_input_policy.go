package services

import (
	"errors"
	"net/mail"
	"strings"
)

const MaxAuthorizedEmails = 5

var ErrAuthEmailInvalid = errors.New("auth email invalid")

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

// ParseAuthorizedEmails splits a comma separated allowlist. Entries are
// trimmed, lower-cased and deduplicated in order; only the first five are kept.
func ParseAuthorizedEmails(raw string) []string {
	seen := make(map[string]struct{})
	emails := make([]string, 0, MaxAuthorizedEmails)
	for _, part := range strings.Split(raw, ",") {
		email := strings.ToLower(strings.TrimSpace(part))
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
		if len(emails) == MaxAuthorizedEmails {
			break
		}
	}
	return emails
}

type EmailAllowlist struct {
	emails map[string]struct{}
}

func NewEmailAllowlist(emails []string) EmailAllowlist {
	allowlist := EmailAllowlist{emails: make(map[string]struct{}, len(emails))}
	for _, email := range emails {
		normalized := strings.ToLower(strings.TrimSpace(email))
		if normalized != "" {
			allowlist.emails[normalized] = struct{}{}
		}
	}
	return allowlist
}

func (allowlist EmailAllowlist) Allows(email string) bool {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return false
	}
	_, ok := allowlist.emails[normalized]
	return ok
}

func (allowlist EmailAllowlist) Len() int {
	return len(allowlist.emails)
}
