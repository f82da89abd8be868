package formdef

import (
	"fmt"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Named rule identifiers accepted in definition documents. Both password
// strictness levels are listed deliberately; the source app never settled on
// one and unifying them is a product decision, not a loader default.
const (
	RuleExactDigits       = "exactDigits"
	RuleLettersAndSpaces  = "lettersAndSpaces"
	RuleMinLength         = "minLength"
	RuleNumericRange      = "numericRange"
	RuleNonEmptyChoice    = "nonEmptyChoice"
	RuleEmailShape        = "emailShape"
	RulePasswordMinLength = "passwordMinLength"
	RulePasswordStrict    = "passwordStrict"
)

func ruleFor(field FieldDef) (schema.Rule, error) {
	var rule schema.Rule

	switch field.Rule {
	case "":
		return nil, nil
	case RuleExactDigits:
		length, ok := field.Params["length"]
		if !ok {
			return nil, fmt.Errorf("formdef: field %q rule %s needs params.length", field.Key, field.Rule)
		}
		rule = schema.ExactDigits(length)
	case RuleLettersAndSpaces:
		rule = schema.LettersAndSpacesOnly()
	case RuleMinLength:
		n, ok := field.Params["length"]
		if !ok {
			return nil, fmt.Errorf("formdef: field %q rule %s needs params.length", field.Key, field.Rule)
		}
		rule = schema.MinLength(n)
	case RuleNumericRange:
		min, okMin := field.Params["min"]
		max, okMax := field.Params["max"]
		if !okMin || !okMax {
			return nil, fmt.Errorf("formdef: field %q rule %s needs params.min and params.max", field.Key, field.Rule)
		}
		rule = schema.NumericRange(min, max)
	case RuleNonEmptyChoice:
		rule = schema.NonEmptyChoice()
	case RuleEmailShape:
		rule = schema.EmailShape()
	case RulePasswordMinLength:
		rule = schema.PasswordMinLength()
	case RulePasswordStrict:
		rule = schema.PasswordStrict()
	default:
		return nil, fmt.Errorf("formdef: field %q names unknown rule %q", field.Key, field.Rule)
	}

	if !field.Required {
		rule = schema.Optional(rule)
	}
	return rule, nil
}
