package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Normalize backfills identifying fields on a material library document:
// missing uids get a fresh UUID, missing codes are derived (ducts get a slug
// built from name/nominal and standard, other items fall back to their name,
// then to a uid prefix), and missing display names are filled from the best
// available field. Duplicate codes within the same library are warned about
// but kept; cross-library duplicates are the merge step's concern.
//
// Returns true when any field was backfilled, so callers can persist the
// normalized document if they own it.
func Normalize(doc *Document, warnings *[]string, source string) bool {
	if doc == nil || doc.Kind != KindMaterialLibrary {
		return false
	}

	changed := false

	usedCodes := map[string]bool{}
	for i := range doc.Conductors {
		c := &doc.Conductors[i]
		changed = ensureIdentity(&c.UID, &c.Code, &c.Name, "", c.Name, "conductors", usedCodes, warnings, source) || changed
	}

	usedCodes = map[string]bool{}
	for i := range doc.Ducts {
		d := &doc.Ducts[i]
		slugBase := ductCodeBase(d)
		changed = ensureIdentity(&d.UID, &d.Code, &d.Name, slugBase, d.Nominal, "ducts", usedCodes, warnings, source) || changed
	}

	usedCodes = map[string]bool{}
	for i := range doc.EPC {
		t := &doc.EPC[i]
		changed = ensureIdentity(&t.UID, &t.Code, &t.Name, "", t.Name, "epc", usedCodes, warnings, source) || changed
	}

	usedCodes = map[string]bool{}
	for i := range doc.BPC {
		t := &doc.BPC[i]
		changed = ensureIdentity(&t.UID, &t.Code, &t.Name, "", t.Name, "bpc", usedCodes, warnings, source) || changed
	}

	return changed
}

// ensureIdentity backfills uid, code, and name on one item.
// slugBase, when non-empty, is slugged into the derived code; nameFallback
// fills a missing display name after code derivation.
func ensureIdentity(uid, code, name *string, slugBase, nameFallback, scope string, usedCodes map[string]bool, warnings *[]string, source string) bool {
	changed := false

	if strings.TrimSpace(*uid) == "" {
		*uid = uuid.NewString()
		changed = true
	}

	if strings.TrimSpace(*code) == "" {
		derived := ""
		if slugBase != "" {
			derived = Slug(slugBase)
		}
		if derived == "" {
			derived = strings.TrimSpace(*name)
		}
		if derived == "" {
			derived = strings.SplitN(*uid, "-", 2)[0]
		}
		*code = derived
		changed = true
	}

	if strings.TrimSpace(*name) == "" {
		if fb := firstNonEmpty(nameFallback, *code, *uid); fb != "" {
			*name = fb
			changed = true
		}
	}

	norm := NormalizeCode(*code)
	if norm != "" {
		if usedCodes[norm] && warnings != nil {
			*warnings = append(*warnings, fmt.Sprintf("[%s] %s: duplicate code %q within library", scope, source, *code))
		}
		usedCodes[norm] = true
	}

	return changed
}

// ductCodeBase builds the text a duct code slug derives from:
// name or nominal, suffixed with the standard when declared.
func ductCodeBase(d *Duct) string {
	base := firstNonEmpty(d.Name, d.Nominal)
	standard := strings.TrimSpace(d.Standard)
	switch {
	case base != "" && standard != "":
		return base + "_" + standard
	case standard != "":
		return standard
	default:
		return base
	}
}

// Slug converts free text into an upper-case code slug: alphanumerics are
// kept, separators collapse to single underscores, everything else drops.
func Slug(text string) string {
	var b strings.Builder
	for _, ch := range text {
		switch {
		case ch >= 'a' && ch <= 'z':
			b.WriteRune(ch - ('a' - 'A'))
		case (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9'):
			b.WriteRune(ch)
		case ch == ' ' || ch == '-' || ch == '_' || ch == '.':
			b.WriteRune('_')
		}
	}
	slug := strings.Trim(b.String(), "_")
	for strings.Contains(slug, "__") {
		slug = strings.ReplaceAll(slug, "__", "_")
	}
	return slug
}
