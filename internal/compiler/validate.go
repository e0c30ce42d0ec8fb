package compiler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/promptguide/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// General validation errors (E200)
	ErrUnsupportedType = "E200" // unsupported type for validation

	// Field errors (E201-E209)
	ErrCatalogEmpty    = "E201" // at least one category required
	ErrFieldRequired   = "E202" // text field is missing or blank
	ErrScoreOutOfRange = "E203" // chart score outside [0,10]
	ErrInvalidID       = "E204" // id is not a lowercase slug

	// Integrity errors (E210-E219)
	ErrDuplicateCategory  = "E210" // category id used twice
	ErrDuplicateTechnique = "E211" // technique id used twice, across all categories
	ErrReservedCategoryID = "E212" // category id collides with the favorites view
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so errors read like the catalog source.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
}

// Validate validates a compiled catalog against schema and integrity rules.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch cat := v.(type) {
	case *ir.Catalog:
		return validateCatalog(cat)
	case ir.Catalog:
		return validateCatalog(&cat)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type: %T", v),
			Code:    ErrUnsupportedType,
		}}
	}
}

func validateCatalog(cat *ir.Catalog) []ValidationError {
	var errs []ValidationError

	errs = append(errs, structErrors(cat)...)
	errs = append(errs, blankErrors(cat)...)
	errs = append(errs, integrityErrors(cat)...)

	return errs
}

// structErrors runs the struct-tag rules declared on the ir types.
func structErrors(cat *ir.Catalog) []ValidationError {
	err := validate.Struct(cat)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "catalog", Message: err.Error(), Code: ErrUnsupportedType}}
	}

	errs := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Catalog.")

		switch fe.Tag() {
		case "required":
			if field == "categories" {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: "at least one category is required",
					Code:    ErrCatalogEmpty,
				})
				continue
			}
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fe.Field() + " is required",
				Code:    ErrFieldRequired,
			})
		case "min":
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "at least one category is required",
				Code:    ErrCatalogEmpty,
			})
		case "gte", "lte":
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("score %v must be between 0 and 10", fe.Value()),
				Code:    ErrScoreOutOfRange,
			})
		case "slug":
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("id %q must be lowercase letters, digits and single hyphens", fe.Value()),
				Code:    ErrInvalidID,
			})
		default:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("failed %q rule", fe.Tag()),
				Code:    ErrFieldRequired,
			})
		}
	}
	return errs
}

// blankErrors catches text fields that pass "required" but hold only whitespace.
func blankErrors(cat *ir.Catalog) []ValidationError {
	var errs []ValidationError

	check := func(path, name, value string) {
		if value != "" && strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{
				Field:   path + "." + name,
				Message: name + " must not be blank",
				Code:    ErrFieldRequired,
			})
		}
	}

	for i, c := range cat.Categories {
		path := fmt.Sprintf("categories[%d]", i)
		check(path, "title", c.Title)
		check(path, "icon", c.Icon)
		check(path, "description", c.Description)
		check(path, "insight", c.Insight)

		for j, t := range c.Techniques {
			tpath := fmt.Sprintf("%s.techniques[%d]", path, j)
			check(tpath, "title", t.Title)
			check(tpath, "definition", t.Definition)
			check(tpath, "best_use", t.BestUse)
			check(tpath, "mechanism", t.Mechanism)
			check(tpath, "example_input", t.ExampleInput)
			check(tpath, "example_output", t.ExampleOutput)
			check(tpath, "complexity", t.Complexity)
		}
	}
	return errs
}

// integrityErrors checks cross-record rules: unique ids and the reserved
// favorites id.
func integrityErrors(cat *ir.Catalog) []ValidationError {
	var errs []ValidationError

	seenCategories := make(map[string]int)
	seenTechniques := make(map[ir.TechniqueID]string)

	for i, c := range cat.Categories {
		path := fmt.Sprintf("categories[%d]", i)

		if c.ID == ir.FavoritesCategoryID {
			errs = append(errs, ValidationError{
				Field:   path + ".id",
				Message: fmt.Sprintf("category id %q is reserved", c.ID),
				Code:    ErrReservedCategoryID,
			})
		}

		if first, ok := seenCategories[c.ID]; ok && c.ID != "" {
			errs = append(errs, ValidationError{
				Field:   path + ".id",
				Message: fmt.Sprintf("duplicate category id %q (first at categories[%d])", c.ID, first),
				Code:    ErrDuplicateCategory,
			})
		} else {
			seenCategories[c.ID] = i
		}

		for j, t := range c.Techniques {
			tpath := fmt.Sprintf("%s.techniques[%d]", path, j)
			if owner, ok := seenTechniques[t.ID]; ok && t.ID != "" {
				errs = append(errs, ValidationError{
					Field:   tpath + ".id",
					Message: fmt.Sprintf("duplicate technique id %q (already in category %q)", t.ID, owner),
					Code:    ErrDuplicateTechnique,
				})
				continue
			}
			seenTechniques[t.ID] = c.ID
		}
	}
	return errs
}
