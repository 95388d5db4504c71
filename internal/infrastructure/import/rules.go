package csvimport

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/estate/backend/internal/domain/shared"
)

// FieldRule describes the checks applied to one column of an upload
type FieldRule struct {
	Column    string
	Field     string // request field reported in the row's validation error
	Required  bool
	Email     bool
	MaxLength int
	Custom    func(value string) error
}

// FieldRuleBuilder builds a FieldRule fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for column, reported as field
func Field(column, field string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column, Field: field}}
}

// Required rejects empty values
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Email requires a bare address such as "ali@example.com"
func (b *FieldRuleBuilder) Email() *FieldRuleBuilder {
	b.rule.Email = true
	return b
}

// MaxLength limits the value to n characters
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// Custom adds a check run after the built-in ones
func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.Custom = fn
	return b
}

// Build returns the rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator checks rows against an ordered rule list. A row is reported
// once, for the first rule it breaks.
type FieldValidator struct {
	rules  []FieldRule
	errors *ErrorCollection
}

// NewFieldValidator records failures into errs
func NewFieldValidator(rules []FieldRule, errs *ErrorCollection) *FieldValidator {
	return &FieldValidator{rules: rules, errors: errs}
}

// ValidateRow returns nil when every rule passes. value reads a column of the
// row by its template name.
func (v *FieldValidator) ValidateRow(line int, value func(column string) string) *shared.DomainError {
	for _, rule := range v.rules {
		raw := value(rule.Column)
		code, msg := check(rule, raw)
		if code == "" {
			continue
		}
		v.errors.Add(RowError{Row: line, Column: rule.Column, Code: code, Message: msg, Value: raw})
		return shared.NewValidationError(rule.Field, msg)
	}
	return nil
}

func check(rule FieldRule, value string) (code, message string) {
	if value == "" {
		if rule.Required {
			return ErrCodeImportRequiredField, fmt.Sprintf("%s is required", strings.ToLower(rule.Column))
		}
		return "", ""
	}
	if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
		return ErrCodeImportTooLong, fmt.Sprintf("%s exceeds %d characters", strings.ToLower(rule.Column), rule.MaxLength)
	}
	if rule.Email {
		if addr, err := mail.ParseAddress(value); err != nil || addr.Address != value {
			return ErrCodeImportInvalidFormat, fmt.Sprintf("%q is not an email address", value)
		}
	}
	if rule.Custom != nil {
		if err := rule.Custom(value); err != nil {
			return ErrCodeImportInvalidFormat, err.Error()
		}
	}
	return "", ""
}
