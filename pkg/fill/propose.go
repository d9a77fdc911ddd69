package fill

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ifuentes/raceway/pkg/catalog"
)

// MaxParallelRuns caps how many parallel containments a proposal may
// suggest for one service group.
const MaxParallelRuns = 6

// Proposal banding thresholds, relative to the proposed capacity.
const (
	proposalWarnPct = 85.0
)

// ProposalStatus classifies a proposal.
type ProposalStatus string

// ProposalStatus values. StatusNone marks an edge with no load.
const (
	StatusOK    ProposalStatus = "ok"
	StatusWarn  ProposalStatus = "warn"
	StatusError ProposalStatus = "error"
	StatusNone  ProposalStatus = "none"
)

// GroupProposal is the suggested material for one service group on an edge.
type GroupProposal struct {
	Services      []string       `json:"services" bson:"services"`
	MaterialUID   string         `json:"material_uid,omitempty" bson:"material_uid,omitempty"`
	MaterialLabel string         `json:"material_label,omitempty" bson:"material_label,omitempty"`
	Parallel      int            `json:"parallel" bson:"parallel"`
	FillPct       float64        `json:"fill_pct" bson:"fill_pct"`
	Status        ProposalStatus `json:"status" bson:"status"`
}

// Proposal is the suggested containment sizing for one edge: the smallest
// catalog material (optionally multiplied into parallel runs) that carries
// the edge's aggregated load, per service group.
type Proposal struct {
	EdgeID string          `json:"edge_id" bson:"edge_id"`
	Groups []GroupProposal `json:"groups,omitempty" bson:"groups,omitempty"`
	Status ProposalStatus  `json:"status" bson:"status"`
	Notes  []string        `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Summary renders the proposal as a short human-readable line.
func (p Proposal) Summary() string {
	var parts []string
	for _, g := range p.Groups {
		parts = append(parts, fmt.Sprintf("%dx %s (%s)", g.Parallel, g.MaterialLabel, strings.Join(g.Services, "/")))
	}
	return strings.Join(parts, " + ")
}

// Propose suggests the smallest containment material for an edge given its
// per-service aggregated areas. Services the library rules require to be
// separated land in distinct groups, each sized independently. Candidates
// are tried smallest-first; when a single run cannot carry the group, the
// proposal multiplies the same material into parallel runs up to
// MaxParallelRuns before moving to a larger size.
func Propose(edgeID string, kind catalog.ContainmentKind, serviceAreas map[string]float64, eff *catalog.Effective) Proposal {
	p := Proposal{EdgeID: edgeID, Status: StatusNone}
	if len(serviceAreas) == 0 {
		return p
	}
	p.Status = StatusOK

	groups := groupServices(serviceAreas, eff)
	candidates := proposalCandidates(kind, eff)
	if len(candidates) == 0 {
		p.Status = StatusError
		p.Notes = append(p.Notes, fmt.Sprintf("no %s catalog available in the enabled libraries", kind))
		return p
	}

	for _, services := range groups {
		var areaSum float64
		for _, svc := range services {
			areaSum += serviceAreas[svc]
		}
		maxFill := groupMaxFill(services, eff)

		gp := GroupProposal{Services: services, Parallel: 1, Status: StatusError}
		for _, cand := range candidates {
			cap := cand.usable * maxFill / 100
			if cap <= 0 {
				continue
			}
			if areaSum <= cap {
				gp.MaterialUID, gp.MaterialLabel = cand.uid, cand.label
				gp.Parallel = 1
				gp.FillPct = areaSum / cap * 100
				break
			}
			if need := int(math.Ceil(areaSum / cap)); need <= MaxParallelRuns {
				gp.MaterialUID, gp.MaterialLabel = cand.uid, cand.label
				gp.Parallel = need
				gp.FillPct = areaSum / (cap * float64(need)) * 100
				break
			}
		}

		if gp.MaterialUID == "" {
			p.Status = StatusError
			p.Notes = append(p.Notes, fmt.Sprintf("load %.0f mm² does not fit any %s material within %d parallel runs (services %s)",
				areaSum, kind, MaxParallelRuns, strings.Join(services, "/")))
			p.Groups = append(p.Groups, gp)
			continue
		}

		switch {
		case gp.FillPct > 100+Epsilon:
			gp.Status = StatusError
			p.Status = StatusError
		case gp.FillPct > proposalWarnPct:
			gp.Status = StatusWarn
			if p.Status != StatusError {
				p.Status = StatusWarn
			}
		default:
			gp.Status = StatusOK
		}
		p.Groups = append(p.Groups, gp)
	}
	return p
}

// groupServices partitions services into containment groups honoring the
// separation rules, greedily placing each service into the first compatible
// group. Service iteration is sorted for determinism.
func groupServices(serviceAreas map[string]float64, eff *catalog.Effective) [][]string {
	services := make([]string, 0, len(serviceAreas))
	for svc := range serviceAreas {
		services = append(services, svc)
	}
	sort.Strings(services)

	var groups [][]string
	for _, svc := range services {
		placed := false
		for i, g := range groups {
			compatible := true
			for _, other := range g {
				if eff != nil && eff.Rules.RequiresSeparation(svc, other) {
					compatible = false
					break
				}
			}
			if compatible {
				groups[i] = append(groups[i], svc)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []string{svc})
		}
	}
	return groups
}

// proposalDefaultFillPct is the per-service limit assumed when a service
// declares no default of its own.
const proposalDefaultFillPct = 40.0

// groupMaxFill takes the most conservative limit across the group's
// services. A service without a positive declared default contributes the
// 40% floor to the minimum, so mixing in an undeclared service can only
// tighten the group's limit, never relax it.
func groupMaxFill(services []string, eff *catalog.Effective) float64 {
	maxFill := proposalDefaultFillPct
	for i, svc := range services {
		pct := proposalDefaultFillPct
		if eff != nil {
			if def, ok := eff.Rules.Defaults[svc]; ok && def.MaxFillPercent > 0 {
				pct = def.MaxFillPercent
			}
		}
		if i == 0 || pct < maxFill {
			maxFill = pct
		}
	}
	return maxFill
}

// proposalCandidate is one catalog material viewed by its usable area.
type proposalCandidate struct {
	uid    string
	label  string
	usable float64
}

// proposalCandidates lists the catalog materials for the containment kind,
// sorted smallest usable area first.
func proposalCandidates(kind catalog.ContainmentKind, eff *catalog.Effective) []proposalCandidate {
	if eff == nil {
		return nil
	}
	var cands []proposalCandidate
	switch kind {
	case catalog.KindEPC:
		for _, t := range eff.EPC {
			cands = append(cands, proposalCandidate{uid: t.UID, label: t.DisplayLabel(), usable: t.UsableArea()})
		}
	case catalog.KindBPC:
		for _, t := range eff.BPC {
			cands = append(cands, proposalCandidate{uid: t.UID, label: t.DisplayLabel(), usable: t.UsableArea()})
		}
	default:
		for _, d := range eff.Ducts {
			cands = append(cands, proposalCandidate{uid: d.UID, label: d.DisplayLabel(), usable: d.UsableArea()})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].usable < cands[j].usable })
	return cands
}
