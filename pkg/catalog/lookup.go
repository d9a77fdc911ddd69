package catalog

import "sort"

// Lookup methods on the Effective Catalog. All lookups are read-only and
// return copies; "not found" is an ok=false return, never an error, because
// a missing material downgrades the affected segment or circuit to a
// warning rather than aborting a pass.

// ConductorByUID returns the conductor with the given uid.
func (e *Effective) ConductorByUID(uid string) (Conductor, bool) {
	if i, ok := e.conductorByUID[uid]; ok {
		return e.Conductors[i], true
	}
	return Conductor{}, false
}

// ConductorByCode finds a conductor by code or display name,
// case-insensitive.
func (e *Effective) ConductorByCode(code string) (Conductor, bool) {
	norm := NormalizeCode(code)
	if norm == "" {
		return Conductor{}, false
	}
	if i, ok := e.conductorByCode[norm]; ok {
		return e.Conductors[i], true
	}
	for _, c := range e.Conductors {
		if NormalizeCode(c.Name) == norm {
			return c, true
		}
	}
	return Conductor{}, false
}

// ResolveConductor finds a conductor by uid, then by code/name.
func (e *Effective) ResolveConductor(ref string) (Conductor, bool) {
	if c, ok := e.ConductorByUID(ref); ok {
		return c, true
	}
	return e.ConductorByCode(ref)
}

// DuctByUID returns the duct with the given uid.
func (e *Effective) DuctByUID(uid string) (Duct, bool) {
	if i, ok := e.ductByUID[uid]; ok {
		return e.Ducts[i], true
	}
	return Duct{}, false
}

// DuctByCode returns the duct with the given normalized code.
func (e *Effective) DuctByCode(code string) (Duct, bool) {
	if i, ok := e.ductByCode[NormalizeCode(code)]; ok {
		return e.Ducts[i], true
	}
	return Duct{}, false
}

// DuctByNominal finds a duct whose nominal matches the given size in any of
// the supported notations (text, inches, mm).
func (e *Effective) DuctByNominal(nominal string) (Duct, bool) {
	if NormalizeNominal(nominal) == "" {
		return Duct{}, false
	}
	for _, d := range e.Ducts {
		if NominalMatches(nominal, d.Nominal) {
			return d, true
		}
	}
	return Duct{}, false
}

// ResolveDuct finds a duct by uid, then code, then nominal.
func (e *Effective) ResolveDuct(ref string) (Duct, bool) {
	if d, ok := e.DuctByUID(ref); ok {
		return d, true
	}
	if d, ok := e.DuctByCode(ref); ok {
		return d, true
	}
	return e.DuctByNominal(ref)
}

// TrayByUID returns the tray profile of the given family with the given uid.
func (e *Effective) TrayByUID(kind ContainmentKind, uid string) (TrayProfile, bool) {
	items, byUID, _ := e.trayIndex(kind)
	if i, ok := byUID[uid]; ok {
		return items[i], true
	}
	return TrayProfile{}, false
}

// TrayByCode returns the tray profile with the given normalized code.
func (e *Effective) TrayByCode(kind ContainmentKind, code string) (TrayProfile, bool) {
	items, _, byCode := e.trayIndex(kind)
	if i, ok := byCode[NormalizeCode(code)]; ok {
		return items[i], true
	}
	return TrayProfile{}, false
}

// TrayBySize finds a tray profile whose inner dimensions match a "WxH" size
// string within tolerance, in either orientation.
func (e *Effective) TrayBySize(kind ContainmentKind, size string) (TrayProfile, bool) {
	w, h, ok := ParseRectSizeMM(size)
	if !ok {
		return TrayProfile{}, false
	}
	items, _, _ := e.trayIndex(kind)
	for _, t := range items {
		if RectMatches(t.InnerWidthMM, t.InnerHeightMM, w, h) {
			return t, true
		}
	}
	return TrayProfile{}, false
}

// ResolveTray finds a tray profile by uid, then code, then size.
func (e *Effective) ResolveTray(kind ContainmentKind, ref string) (TrayProfile, bool) {
	if t, ok := e.TrayByUID(kind, ref); ok {
		return t, true
	}
	if t, ok := e.TrayByCode(kind, ref); ok {
		return t, true
	}
	return e.TrayBySize(kind, ref)
}

// ListDuctNominals returns the sorted distinct nominals of all ducts.
func (e *Effective) ListDuctNominals() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range e.Ducts {
		n := firstNonEmpty(d.Nominal)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ListRectSizes returns the sorted distinct "WxH" sizes of one tray family.
func (e *Effective) ListRectSizes(kind ContainmentKind) []string {
	items, _, _ := e.trayIndex(kind)
	seen := map[string]bool{}
	var out []string
	for _, t := range items {
		if t.InnerWidthMM <= 0 || t.InnerHeightMM <= 0 {
			continue
		}
		s := FormatRectSize(t.InnerWidthMM, t.InnerHeightMM)
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (e *Effective) trayIndex(kind ContainmentKind) ([]TrayProfile, map[string]int, map[string]int) {
	if NormalizeKind(string(kind)) == KindBPC {
		return e.BPC, e.bpcByUID, e.bpcByCode
	}
	return e.EPC, e.epcByUID, e.epcByCode
}
