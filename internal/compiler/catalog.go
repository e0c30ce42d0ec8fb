package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/promptguide/internal/ir"
)

// Field names as they appear in catalog CUE sources.
var (
	categoryFields  = []string{"id", "title", "icon", "description", "insight"}
	techniqueFields = []string{"id", "title", "definition", "bestUse", "mechanism", "exampleInput", "exampleOutput", "complexity"}
)

// CompileCatalog parses a CUE value into a Catalog.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the root of a catalog source, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`categories: [{ id: "reasoning", ... }]`)
//	cat, err := CompileCatalog(v)
//
// Every text field is NFC-normalized so that search folding behaves the
// same regardless of how the source was typed. Owner back-references
// (CategoryID, CategoryIcon) are filled in on every technique.
//
// CompileCatalog checks shape only; call Validate for integrity rules
// (unique ids, score ranges).
func CompileCatalog(v cue.Value) (*ir.Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}

	catsVal := v.LookupPath(cue.ParsePath("categories"))
	if !catsVal.Exists() {
		return nil, &CompileError{
			Field:   "categories",
			Message: "categories is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := catsVal.List()
	if err != nil {
		return nil, formatCUEError("categories", err)
	}

	cat := &ir.Catalog{}
	for i := 0; iter.Next(); i++ {
		category, err := compileCategory(iter.Value(), fmt.Sprintf("categories[%d]", i))
		if err != nil {
			return nil, err
		}
		cat.Categories = append(cat.Categories, *category)
	}

	return cat, nil
}

func compileCategory(v cue.Value, path string) (*ir.Category, error) {
	fields, err := requireStrings(v, path, categoryFields)
	if err != nil {
		return nil, err
	}

	category := &ir.Category{
		ID:          fields["id"],
		Title:       fields["title"],
		Icon:        fields["icon"],
		Description: fields["description"],
		Insight:     fields["insight"],
	}

	category.ChartData, err = compileScores(v, path+".chartData")
	if err != nil {
		return nil, err
	}

	techVal := v.LookupPath(cue.ParsePath("techniques"))
	if !techVal.Exists() {
		// A category with no techniques is legal; it renders an empty grid.
		return category, nil
	}

	iter, err := techVal.List()
	if err != nil {
		return nil, formatCUEError(path+".techniques", err)
	}

	for i := 0; iter.Next(); i++ {
		tech, err := compileTechnique(iter.Value(), fmt.Sprintf("%s.techniques[%d]", path, i))
		if err != nil {
			return nil, err
		}
		tech.CategoryID = category.ID
		tech.CategoryIcon = category.Icon
		category.Techniques = append(category.Techniques, *tech)
	}

	return category, nil
}

func compileTechnique(v cue.Value, path string) (*ir.Technique, error) {
	fields, err := requireStrings(v, path, techniqueFields)
	if err != nil {
		return nil, err
	}

	return &ir.Technique{
		ID:            ir.TechniqueID(fields["id"]),
		Title:         fields["title"],
		Definition:    fields["definition"],
		BestUse:       fields["bestUse"],
		Mechanism:     fields["mechanism"],
		ExampleInput:  fields["exampleInput"],
		ExampleOutput: fields["exampleOutput"],
		Complexity:    fields["complexity"],
	}, nil
}

// compileScores reads chartData, which must hold exactly len(ir.Axes) numbers.
// Range checks are left to Validate so that all offending scores are reported.
func compileScores(v cue.Value, path string) (ir.Scores, error) {
	var scores ir.Scores

	val := v.LookupPath(cue.ParsePath("chartData"))
	if !val.Exists() {
		return scores, &CompileError{
			Field:   path,
			Message: "chartData is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := val.List()
	if err != nil {
		return scores, formatCUEError(path, err)
	}

	n := 0
	for iter.Next() {
		if n >= len(scores) {
			return scores, &CompileError{
				Field:   path,
				Message: fmt.Sprintf("chartData must have exactly %d scores", len(ir.Axes)),
				Pos:     val.Pos(),
			}
		}
		f, err := iter.Value().Float64()
		if err != nil {
			return scores, formatCUEError(fmt.Sprintf("%s[%d]", path, n), err)
		}
		scores[n] = f
		n++
	}

	if n != len(scores) {
		return scores, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("chartData must have exactly %d scores, got %d", len(ir.Axes), n),
			Pos:     val.Pos(),
		}
	}

	return scores, nil
}

// requireStrings looks up each named field, which must exist and be a
// concrete string. Values are returned NFC-normalized.
func requireStrings(v cue.Value, path string, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		field := path + "." + name

		fv := v.LookupPath(cue.ParsePath(name))
		if !fv.Exists() {
			return nil, &CompileError{
				Field:   field,
				Message: name + " is required",
				Pos:     v.Pos(),
			}
		}

		s, err := fv.String()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		out[name] = norm.NFC.String(s)
	}
	return out, nil
}
