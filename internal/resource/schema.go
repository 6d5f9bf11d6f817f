package resource

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind tells the dialog how to parse operator input for a field.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindInteger
	KindBool
)

// Field describes one editable attribute of a resource.
//
// Rules is a go-playground/validator tag expression evaluated against the
// field value, e.g. "email" or "min=0". Presence is expressed through
// Required rather than a "required" tag: the validator treats legitimate
// zero values (amount 0, an inactive status) as absent, the forms do not.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Rules    string
	Default  any
	Required bool
}

// Schema describes one resource collection: its editable fields, the REST
// paths serving it, and the response-shape quirks of the backend.
type Schema struct {
	// Name is the collection name shown to the operator ("users").
	Name string
	// Singular names one entity ("user").
	Singular string

	ListPath   string
	CreatePath string
	// UpdatePath is a format string with one %s verb for the entity id.
	UpdatePath string

	// ListWrapKeys are object fields the list response may wrap the
	// sequence under, tried in order, in addition to a bare array.
	ListWrapKeys []string
	// CreatedWrapKey names the field the create response wraps the entity
	// under; empty means the response body is the entity itself.
	CreatedWrapKey string

	// StampCreateDate adds a createDate timestamp to create payloads.
	StampCreateDate bool

	// SearchField is the column the list screen's substring filter runs on.
	SearchField string

	Fields []Field
}

// UpdateEndpoint returns the id-scoped update path for one entity.
func (s Schema) UpdateEndpoint(id string) string {
	return fmt.Sprintf(s.UpdatePath, id)
}

// Field looks a field up by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

var ErrUnknownField = errors.New("unknown field")

// ParseValue converts raw operator input to the field's value type.
func ParseValue(f Field, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch f.Kind {
	case KindNumber:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: must be a number", f.Name)
		}
		return v, nil
	case KindInteger:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: must be an integer", f.Name)
		}
		return v, nil
	case KindBool:
		switch strings.ToLower(raw) {
		case "true", "yes", "y", "1", "active":
			return true, nil
		case "false", "no", "n", "0", "cancelled", "inactive":
			return false, nil
		}
		return nil, fmt.Errorf("%s: must be true or false", f.Name)
	default:
		return raw, nil
	}
}

// FieldError reports one field that failed its rules.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + " " + e.Message
}

// ValidationError aggregates all failing fields of one draft.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

var ruleValidator = validator.New()

// Validate evaluates every field's rule tag against the draft record and
// returns a *ValidationError listing all failures, or nil when the draft
// is acceptable. Missing boolean fields validate as their declared default.
func (s Schema) Validate(draft Record) error {
	var failed []FieldError

	for _, f := range s.Fields {
		value, ok := draft[f.Name]
		if !ok && f.Kind == KindBool {
			value = CoerceBool(f.Default)
			ok = true
		}

		missing := !ok || value == nil
		if str, isString := value.(string); isString && str == "" {
			missing = true
		}
		if missing {
			if f.Required {
				failed = append(failed, FieldError{Field: f.Name, Message: "is required"})
			}
			continue
		}

		if f.Rules == "" {
			continue
		}
		if err := ruleValidator.Var(value, f.Rules); err != nil {
			failed = append(failed, FieldError{Field: f.Name, Message: ruleMessage(err)})
		}
	}

	if len(failed) > 0 {
		return &ValidationError{Fields: failed}
	}
	return nil
}

func ruleMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "is invalid"
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	default:
		return "is invalid (" + e.Tag() + ")"
	}
}
