package model

import (
	"github.com/shopspring/decimal"
)

type RiskTier string

const (
	RiskTierConservative RiskTier = "Conservative"
	RiskTierModerate     RiskTier = "Moderate"
	RiskTierAggressive   RiskTier = "Aggressive"
)

// Valid reports whether t is one of the known tiers.
func (t RiskTier) Valid() bool {
	switch t {
	case RiskTierConservative, RiskTierModerate, RiskTierAggressive:
		return true
	}
	return false
}

// Nationwide is the geographic-scope sentinel meaning every known region is eligible.
const Nationwide = "Pan India"

// Product categories used by the built-in catalog.
const (
	ProductPersonal  = "Personal Loan"
	ProductBusiness  = "Business Loan"
	ProductVehicle   = "Vehicle Loan"
	ProductHome      = "Home Loan"
	ProductGold      = "Gold Loan"
	ProductCorporate = "Corporate Loan"
)

// ProductWeight is one entry of a profile's product mix.
type ProductWeight struct {
	Product string  `yaml:"product" json:"product"`
	Weight  float64 `yaml:"weight" json:"weight"`
}

// PortfolioProfile describes one AUM size bucket. Profiles are built once at startup
// and never mutated; ProductMix order is the tie-break order for weighted sampling.
type PortfolioProfile struct {
	Key                 string          `json:"key"`
	SizeBucketLabel     string          `json:"aumBucket"`
	SizeBucketRange     string          `json:"aumRange"`
	AvgLoanSize         decimal.Decimal `json:"avgLoanSize"`
	TotalLoanCount      int             `json:"totalLoans"`
	TotalPortfolioValue decimal.Decimal `json:"portfolioValue"`
	RiskTier            RiskTier        `json:"riskProfile"`
	GeographicScope     []string        `json:"geographicFocus"`
	ProductMix          []ProductWeight `json:"productMix"`
}

// IsNationwide reports whether the scope is the nationwide sentinel.
func (p PortfolioProfile) IsNationwide() bool {
	for _, region := range p.GeographicScope {
		if region == Nationwide {
			return true
		}
	}
	return false
}

// ProductMixTotal returns the sum of all product weights.
func (p PortfolioProfile) ProductMixTotal() float64 {
	var total float64
	for _, pw := range p.ProductMix {
		total += pw.Weight
	}
	return total
}
