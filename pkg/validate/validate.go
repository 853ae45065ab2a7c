// Package validate provides struct-tag validation for request bodies.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	numeric             any number
//	integer             whole number
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gt=N / gte=N        number > N / >= N
//	lt=N / lte=N        number < N / <= N
//	between=min,max     number or string length between min and max (inclusive)
//	in=a,b,c            value must be one of the listed items
//	alpha_dash          letters, digits, hyphens, underscores
//	confirmed           value must equal a sibling field named <field>_confirmation
//
// Example:
//
//	type Input struct {
//	    Title    string `json:"title"    validate:"required,min=2,max=120"`
//	    Quantity int    `json:"quantity" validate:"required,gt=0"`
//	    Payment  string `json:"payment"  validate:"required,in=cash,bank"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	emailRE     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	alphaDashRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		rules := strings.Split(tag, ",")

		// in= and between= carry commas in their params; re-stitch.
		rules = stitchParams(rules)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value, rv); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field string, v reflect.Value, parent reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}

	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s must be a number.", field)
		}

	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s must be an integer.", field)
		}

	case "alpha_dash":
		if !alphaDashRE.MatchString(raw) {
			return fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field)
		}

	case "min":
		limit, _ := strconv.ParseFloat(param, 64)
		if size(v) < limit {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}

	case "max":
		limit, _ := strconv.ParseFloat(param, 64)
		if size(v) > limit {
			return fmt.Sprintf("The %s may not be greater than %s.", field, param)
		}

	case "gt":
		limit, _ := strconv.ParseFloat(param, 64)
		if n, ok := number(v); !ok || n <= limit {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}

	case "gte":
		limit, _ := strconv.ParseFloat(param, 64)
		if n, ok := number(v); !ok || n < limit {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}

	case "lt":
		limit, _ := strconv.ParseFloat(param, 64)
		if n, ok := number(v); !ok || n >= limit {
			return fmt.Sprintf("The %s must be less than %s.", field, param)
		}

	case "lte":
		limit, _ := strconv.ParseFloat(param, 64)
		if n, ok := number(v); !ok || n > limit {
			return fmt.Sprintf("The %s may not be greater than %s.", field, param)
		}

	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return ""
		}
		min, _ := strconv.ParseFloat(lo, 64)
		max, _ := strconv.ParseFloat(hi, 64)
		if s := size(v); s < min || s > max {
			return fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
		}

	case "in":
		for _, item := range strings.Split(param, ",") {
			if raw == item {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)

	case "confirmed":
		sibling := parent.FieldByNameFunc(func(n string) bool {
			return strings.EqualFold(n, confirmationFieldName(field))
		})
		if !sibling.IsValid() || fmt.Sprintf("%v", sibling.Interface()) != raw {
			return fmt.Sprintf("The %s confirmation does not match.", field)
		}
	}

	return ""
}

// size returns the comparable magnitude of a value: numeric value for
// numbers, rune length for strings, element count for slices and maps.
func size(v reflect.Value) float64 {
	if n, ok := number(v); ok {
		return n
	}
	switch v.Kind() {
	case reflect.String:
		return float64(utf8.RuneCountInString(v.String()))
	case reflect.Slice, reflect.Map, reflect.Array:
		return float64(v.Len())
	}
	return 0
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return v.IsZero()
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

func confirmationFieldName(jsonName string) string {
	// "password" → "PasswordConfirmation"
	parts := strings.Split(jsonName+"_confirmation", "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "")
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

// stitchParams re-joins rules whose parameter legitimately contains commas
// (in=a,b,c and between=lo,hi) after the naive comma split.
func stitchParams(rules []string) []string {
	var out []string
	for i := 0; i < len(rules); i++ {
		r := rules[i]
		if strings.HasPrefix(r, "in=") || strings.HasPrefix(r, "between=") {
			j := i + 1
			for j < len(rules) && !isRuleStart(rules[j]) {
				r += "," + rules[j]
				j++
			}
			i = j - 1
		}
		out = append(out, r)
	}
	return out
}

var knownRules = map[string]bool{
	"required": true, "nullable": true, "email": true, "numeric": true,
	"integer": true, "alpha_dash": true, "min": true, "max": true,
	"gt": true, "gte": true, "lt": true, "lte": true, "between": true,
	"in": true, "confirmed": true,
}

func isRuleStart(s string) bool {
	key, _, _ := strings.Cut(s, "=")
	return knownRules[key]
}
