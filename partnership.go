package waterfall

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrConfiguration is returned for any invalid deal setup: bad partner
// shares, missing promote, non-monotonic tiers. It always surfaces at
// construction/validation time, never mid-calculation.
var ErrConfiguration = errors.New("invalid deal configuration")

// PartnerKind identifies the role of a partner in the deal.
type PartnerKind string

const (
	GeneralPartner PartnerKind = "GP"
	LimitedPartner PartnerKind = "LP"
)

// ParsePartnerKind parses a partner kind from a string.
func ParsePartnerKind(s string) (PartnerKind, error) {
	switch PartnerKind(s) {
	case GeneralPartner, LimitedPartner:
		return PartnerKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown partner kind %q", ErrConfiguration, s)
	}
}

// Partner is an immutable deal participant.
type Partner struct {
	Name  string      `json:"name"`
	Kind  PartnerKind `json:"kind"`
	Share Rate        `json:"share"` // ownership fraction in [0,1]
}

// share returns the ownership fraction as a decimal for exact bookkeeping.
func (p Partner) share() decimal.Decimal { return decimal.NewFromFloat(float64(p.Share)) }

// DistributionMethod selects how distributable cash is split.
type DistributionMethod string

const (
	PariPassu DistributionMethod = "pari_passu"
	Waterfall DistributionMethod = "waterfall"
)

// ParseDistributionMethod parses a distribution method from a string.
func ParseDistributionMethod(s string) (DistributionMethod, error) {
	switch DistributionMethod(s) {
	case PariPassu, Waterfall:
		return DistributionMethod(s), nil
	default:
		return "", fmt.Errorf("%w: unknown distribution method %q", ErrConfiguration, s)
	}
}

// Tier is one IRR-hurdle band of a promote waterfall. While the deal IRR sits
// below Hurdle, the GP side earns Promote off the top of tier cash.
type Tier struct {
	Hurdle  Rate `json:"hurdle"`
	Promote Rate `json:"promote"`
}

// Promote holds the promote terms of a waterfall structure.
//
// Tiers are the bounded IRR bands in ascending hurdle order; Final is the
// uncapped promote rate above the highest hurdle. A simple carry is the
// degenerate promote with no bounded tiers: everything above the preferred
// return pays the Final rate.
type Promote struct {
	Pref  Rate   `json:"pref"`  // preferred return hurdle, annual compounding
	Tiers []Tier `json:"tiers,omitempty"`
	Final Rate   `json:"final"` // promote rate above the highest tier hurdle
}

// NewCarry returns a single-hurdle promote: pro rata below the preferred
// return, a flat carry above.
func NewCarry(pref, carry Rate) *Promote {
	return &Promote{Pref: pref, Final: carry}
}

// NewTieredPromote returns a graduated promote with bounded IRR tiers and an
// uncapped final rate.
func NewTieredPromote(pref Rate, tiers []Tier, final Rate) *Promote {
	return &Promote{Pref: pref, Tiers: tiers, Final: final}
}

// Validate checks the promote terms.
func (p *Promote) Validate() error {
	if !p.Pref.isFraction() {
		return fmt.Errorf("%w: preferred return %v out of range", ErrConfiguration, p.Pref)
	}
	if !p.Final.isFraction() {
		return fmt.Errorf("%w: final promote rate %v out of range", ErrConfiguration, p.Final)
	}
	prev := p.Pref
	for i, t := range p.Tiers {
		if !t.Promote.isFraction() {
			return fmt.Errorf("%w: tier %d promote rate %v out of range", ErrConfiguration, i+1, t.Promote)
		}
		if t.Hurdle <= prev {
			return fmt.Errorf("%w: tier hurdles must be strictly increasing, tier %d hurdle %v <= %v", ErrConfiguration, i+1, t.Hurdle, prev)
		}
		prev = t.Hurdle
	}
	return nil
}

// PartnershipStructure is the immutable description of the deal equity:
// an ordered partner list, the distribution method, and the promote terms
// when the method is a waterfall.
type PartnershipStructure struct {
	Partners []Partner          `json:"partners"`
	Method   DistributionMethod `json:"method"`
	Promote  *Promote           `json:"promote,omitempty"`
}

// NewPariPassu returns a structure distributing strictly pro rata by share.
func NewPariPassu(partners ...Partner) (*PartnershipStructure, error) {
	s := &PartnershipStructure{Partners: partners, Method: PariPassu}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWaterfall returns a structure distributing through the given promote.
func NewWaterfall(promote *Promote, partners ...Partner) (*PartnershipStructure, error) {
	s := &PartnershipStructure{Partners: partners, Method: Waterfall, Promote: promote}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewGPLP is a convenience factory for the common two-partner deal. The LP
// holds the remaining share.
func NewGPLP(gpName string, gpShare Rate, lpName string) []Partner {
	return []Partner{
		{Name: gpName, Kind: GeneralPartner, Share: gpShare},
		{Name: lpName, Kind: LimitedPartner, Share: 1 - gpShare},
	}
}

// Validate checks the whole structure: share sum, name uniqueness, promote
// presence and tier monotonicity. It never fixes anything silently.
func (s *PartnershipStructure) Validate() error {
	if len(s.Partners) == 0 {
		return fmt.Errorf("%w: a partnership needs at least one partner", ErrConfiguration)
	}
	names := make(map[string]bool, len(s.Partners))
	var sum float64
	var hasGP bool
	for _, p := range s.Partners {
		if p.Name == "" {
			return fmt.Errorf("%w: partner name is missing", ErrConfiguration)
		}
		if names[p.Name] {
			return fmt.Errorf("%w: duplicate partner name %q", ErrConfiguration, p.Name)
		}
		names[p.Name] = true
		if _, err := ParsePartnerKind(string(p.Kind)); err != nil {
			return err
		}
		if !p.Share.isFraction() {
			return fmt.Errorf("%w: partner %q share %v out of range", ErrConfiguration, p.Name, p.Share)
		}
		sum += float64(p.Share)
		if p.Kind == GeneralPartner {
			hasGP = true
		}
	}
	if diff := sum - 1; diff > 1e-6 || diff < -1e-6 {
		return fmt.Errorf("%w: partner shares sum to %v, want 1", ErrConfiguration, sum)
	}

	switch s.Method {
	case PariPassu:
		// promote terms are ignored for pari passu
	case Waterfall:
		if s.Promote == nil {
			return fmt.Errorf("%w: waterfall method requires promote terms", ErrConfiguration)
		}
		if err := s.Promote.Validate(); err != nil {
			return err
		}
		if !hasGP {
			return fmt.Errorf("%w: waterfall method requires a general partner to earn the promote", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown distribution method %q", ErrConfiguration, s.Method)
	}
	return nil
}

// Partner returns the partner with the given name, or nil.
func (s *PartnershipStructure) Partner(name string) *Partner {
	for i := range s.Partners {
		if s.Partners[i].Name == name {
			return &s.Partners[i]
		}
	}
	return nil
}

// GPShare returns the aggregate ownership share of general partners.
func (s *PartnershipStructure) GPShare() Rate {
	var share Rate
	for _, p := range s.Partners {
		if p.Kind == GeneralPartner {
			share += p.Share
		}
	}
	return share
}

// Summary counts partners and aggregates shares by kind.
type PartnershipSummary struct {
	Count map[PartnerKind]int  `json:"count"`
	Share map[PartnerKind]Rate `json:"share"`
}

// Summary returns partner counts and aggregate shares by kind.
func (s *PartnershipStructure) Summary() PartnershipSummary {
	sum := PartnershipSummary{
		Count: make(map[PartnerKind]int),
		Share: make(map[PartnerKind]Rate),
	}
	for _, p := range s.Partners {
		sum.Count[p.Kind]++
		sum.Share[p.Kind] += p.Share
	}
	return sum
}
