package service

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field length limits for public form submissions.
const (
	MaxNameLen    = 100
	MaxEmailLen   = 254
	MaxSubjectLen = 200
	MaxMessageLen = 5000
	MaxPlaceLen   = 100
)

// ValidationError maps form fields to messages. It blocks a submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type validator struct {
	fields map[string]string
}

func (v *validator) fail(field, msg string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, ok := v.fields[field]; !ok {
		v.fields[field] = msg
	}
}

func (v *validator) required(field, value string, max int) {
	if value == "" {
		v.fail(field, "is required")
		return
	}
	v.maxLen(field, value, max)
}

func (v *validator) maxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.fail(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (v *validator) email(field, value string) {
	v.required(field, value, MaxEmailLen)
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.fail(field, "must be a valid email address")
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}
