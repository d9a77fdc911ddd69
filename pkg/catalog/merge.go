package catalog

import "fmt"

// Source pairs a library document with the label used in warnings.
// Sources are ordered lowest to highest priority; later sources win
// conflicts.
type Source struct {
	Label string
	Doc   *Document
}

// Effective is the merged, priority-resolved view of all enabled libraries.
// It is read-only after Merge returns: rebuilt whenever library membership,
// priority, or enabled flags change, never partially updated.
type Effective struct {
	Conductors []Conductor
	Ducts      []Duct
	EPC        []TrayProfile
	BPC        []TrayProfile
	Rules      Rules

	Profiles           []EquipmentItem
	EquipmentTemplates []EquipmentItem
	ProposalRules      map[string]any
	EquipmentItems     []EquipmentItem

	// Warnings accumulated during the merge: duplicates, dropped items.
	Warnings []string

	conductorByUID  map[string]int
	conductorByCode map[string]int
	ductByUID       map[string]int
	ductByCode      map[string]int
	epcByUID        map[string]int
	epcByCode       map[string]int
	bpcByUID        map[string]int
	bpcByCode       map[string]int
}

// Merge builds the Effective Catalog from sources ordered lowest to highest
// priority. Per category, items are indexed by uid and by normalized code;
// when the same key appears from two different sources the later entry wins
// and a warning names both sources. Items lacking both uid and code are
// dropped with a warning. Merge never fails: structural validation happened
// at load time.
func Merge(sources []Source) *Effective {
	eff := &Effective{ProposalRules: map[string]any{}}
	eff.Rules.Defaults = map[string]ServiceDefaults{}

	var conductors []sourced[Conductor]
	var ducts []sourced[Duct]
	var epc, bpc []sourced[TrayProfile]
	var equipment, profiles, templates []sourced[EquipmentItem]

	for _, src := range sources {
		doc := src.Doc
		if doc == nil {
			continue
		}
		switch doc.Kind {
		case KindMaterialLibrary:
			conductors = appendSourced(conductors, src.Label, doc.Conductors)
			ducts = appendSourced(ducts, src.Label, doc.Ducts)
			epc = appendSourced(epc, src.Label, doc.EPC)
			bpc = appendSourced(bpc, src.Label, doc.BPC)
			eff.Rules.Separation = append(eff.Rules.Separation, doc.Rules.Separation...)
			for service, def := range doc.Rules.Defaults {
				eff.Rules.Defaults[service] = def
			}
		case KindTemplateLibrary:
			profiles = appendSourced(profiles, src.Label, doc.Profiles)
			templates = appendSourced(templates, src.Label, doc.EquipmentTemplates)
			for k, v := range doc.ProposalRules {
				eff.ProposalRules[k] = v
			}
		case KindEquipmentLibrary:
			equipment = appendSourced(equipment, src.Label, doc.EquipmentItems)
		}
	}

	eff.Conductors, eff.conductorByUID, eff.conductorByCode = mergeItems(conductors, "conductors", &eff.Warnings)
	eff.Ducts, eff.ductByUID, eff.ductByCode = mergeItems(ducts, "ducts", &eff.Warnings)
	eff.EPC, eff.epcByUID, eff.epcByCode = mergeItems(epc, "epc", &eff.Warnings)
	eff.BPC, eff.bpcByUID, eff.bpcByCode = mergeItems(bpc, "bpc", &eff.Warnings)
	eff.EquipmentItems, _, _ = mergeItems(equipment, "equipment_items", &eff.Warnings)
	eff.Profiles, _, _ = mergeItems(profiles, "profiles", &eff.Warnings)
	eff.EquipmentTemplates, _, _ = mergeItems(templates, "equipment_templates", &eff.Warnings)

	return eff
}

// material is the identity contract shared by all catalog item types.
type material interface {
	Identity() (uid, code string)
	DisplayLabel() string
}

type sourced[T material] struct {
	src  string
	item T
}

func appendSourced[T material](dst []sourced[T], src string, items []T) []sourced[T] {
	for _, it := range items {
		dst = append(dst, sourced[T]{src: src, item: it})
	}
	return dst
}

// mergeItems deduplicates one category. A later item with a colliding uid or
// code replaces the earlier one in place, keeping first-seen order stable so
// two runs over the same input produce identical output.
func mergeItems[T material](entries []sourced[T], scope string, warnings *[]string) ([]T, map[string]int, map[string]int) {
	items := make([]T, 0, len(entries))
	srcs := make([]string, 0, len(entries))
	byUID := map[string]int{}
	byCode := map[string]int{}

	for _, e := range entries {
		uid, code := e.item.Identity()
		if uid == "" && code == "" {
			*warnings = append(*warnings, fmt.Sprintf("[%s] %s: item without identifier ignored", scope, e.src))
			continue
		}

		idx := -1
		key, keyKind := "", ""
		if uid != "" {
			if j, ok := byUID[uid]; ok {
				idx, key, keyKind = j, uid, "uid"
			}
		}
		if idx < 0 && code != "" {
			if j, ok := byCode[code]; ok {
				idx, key, keyKind = j, code, "code"
			}
		}

		if idx >= 0 {
			if srcs[idx] != e.src {
				*warnings = append(*warnings, fmt.Sprintf(
					"[%s] duplicate %s %q (%s): %s overrides %s",
					scope, keyKind, key, e.item.DisplayLabel(), e.src, srcs[idx]))
			}
			items[idx] = e.item
			srcs[idx] = e.src
		} else {
			items = append(items, e.item)
			srcs = append(srcs, e.src)
			idx = len(items) - 1
		}

		if uid != "" {
			byUID[uid] = idx
		}
		if code != "" {
			byCode[code] = idx
		}
	}

	return items, byUID, byCode
}
