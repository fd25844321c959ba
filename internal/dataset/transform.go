package dataset

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Transformations accepted by LoadOptions.Transformations. They run on raw
// cell text before type inference, in the order given.
const (
	TransformTrimStrings    = "trimStrings"
	TransformLowercase      = "convertToLowercase"
	TransformUppercase      = "convertToUppercase"
	TransformNormalizeNames = "normalizeNames"
)

type cellTransform func(header, cell string) string

func lookupTransform(name string) (cellTransform, error) {
	switch name {
	case TransformTrimStrings:
		return trimStrings, nil
	case TransformLowercase:
		return convertToLowercase, nil
	case TransformUppercase:
		return convertToUppercase, nil
	case TransformNormalizeNames:
		return normalizeNames, nil
	default:
		return nil, &UnknownTransformError{Name: name}
	}
}

// applyTransformations rewrites records in place
func applyTransformations(headers []string, records [][]string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	fns := make([]cellTransform, len(names))
	for i, name := range names {
		fn, err := lookupTransform(name)
		if err != nil {
			return err
		}
		fns[i] = fn
	}

	for _, rec := range records {
		for c := range rec {
			if c >= len(headers) {
				break
			}
			for _, fn := range fns {
				rec[c] = fn(headers[c], rec[c])
			}
		}
	}
	return nil
}

func trimStrings(_, cell string) string { return strings.TrimSpace(cell) }

func convertToLowercase(_, cell string) string { return strings.ToLower(cell) }

func convertToUppercase(_, cell string) string { return strings.ToUpper(cell) }

// normalizeNames title-cases cells of name-like columns
func normalizeNames(header, cell string) string {
	if !isNameLikeField(strings.ToLower(header)) {
		return cell
	}
	return cases.Title(language.Und).String(strings.ToLower(cell))
}

// isNameLikeField checks if a column name suggests it holds names or labels
func isNameLikeField(fieldName string) bool {
	namePatterns := []string{
		"name", "title", "label", "country", "location", "city", "state",
		"region", "category", "type", "status", "company", "organization",
		"department", "team", "product", "segment",
	}

	for _, pattern := range namePatterns {
		if strings.Contains(fieldName, pattern) {
			return true
		}
	}
	return false
}
