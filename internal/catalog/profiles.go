// Package catalog holds the static lookup tables the generator draws from: the
// portfolio profiles per AUM bucket and the region-to-city geography.
package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/wealthpath/loantape/internal/apperror"
	"github.com/wealthpath/loantape/internal/model"
)

// MixTolerance is the allowed deviation of a product mix total from 1.
const MixTolerance = 1e-6

//go:embed profiles.yaml
var defaultProfiles []byte

type profileFile struct {
	Profiles []profileEntry `yaml:"profiles"`
}

type profileEntry struct {
	Key             string                `yaml:"key"`
	AUMBucket       string                `yaml:"aum_bucket"`
	AUMRange        string                `yaml:"aum_range"`
	AvgLoanSize     int64                 `yaml:"avg_loan_size"`
	TotalLoans      int                   `yaml:"total_loans"`
	PortfolioValue  int64                 `yaml:"portfolio_value"`
	RiskProfile     string                `yaml:"risk_profile"`
	GeographicFocus []string              `yaml:"geographic_focus"`
	ProductMix      []model.ProductWeight `yaml:"product_mix"`
}

func (e profileEntry) toProfile() model.PortfolioProfile {
	return model.PortfolioProfile{
		Key:                 e.Key,
		SizeBucketLabel:     e.AUMBucket,
		SizeBucketRange:     e.AUMRange,
		AvgLoanSize:         decimal.NewFromInt(e.AvgLoanSize),
		TotalLoanCount:      e.TotalLoans,
		TotalPortfolioValue: decimal.NewFromInt(e.PortfolioValue),
		RiskTier:            model.RiskTier(e.RiskProfile),
		GeographicScope:     e.GeographicFocus,
		ProductMix:          e.ProductMix,
	}
}

// ProfileCatalog is an immutable, validated, ordered set of portfolio profiles.
type ProfileCatalog struct {
	profiles []model.PortfolioProfile
	byKey    map[string]int
}

// Entry pairs a profile with its catalog key.
type Entry struct {
	Key     string
	Profile model.PortfolioProfile
}

// NewProfileCatalog validates the profiles and returns a catalog preserving their order.
func NewProfileCatalog(profiles []model.PortfolioProfile) (*ProfileCatalog, error) {
	if len(profiles) == 0 {
		return nil, apperror.Configuration("profiles", "catalog must contain at least one profile")
	}

	c := &ProfileCatalog{
		profiles: make([]model.PortfolioProfile, 0, len(profiles)),
		byKey:    make(map[string]int, len(profiles)),
	}

	for _, p := range profiles {
		if err := validateProfile(p); err != nil {
			return nil, err
		}
		if _, dup := c.byKey[p.Key]; dup {
			return nil, apperror.Configuration("profiles."+p.Key, "duplicate profile key")
		}
		c.byKey[p.Key] = len(c.profiles)
		c.profiles = append(c.profiles, p)
	}

	return c, nil
}

func validateProfile(p model.PortfolioProfile) error {
	field := "profiles." + p.Key

	switch {
	case p.Key == "":
		return apperror.Configuration("profiles", "profile key is required")
	case p.SizeBucketLabel == "":
		return apperror.Configuration(field+".aum_bucket", "size bucket label is required")
	case !p.AvgLoanSize.IsPositive():
		return apperror.Configuration(field+".avg_loan_size", "must be positive")
	case p.TotalLoanCount <= 0:
		return apperror.Configuration(field+".total_loans", "must be positive")
	case !p.RiskTier.Valid():
		return apperror.Configuration(field+".risk_profile", fmt.Sprintf("unknown risk tier %q", p.RiskTier))
	case len(p.GeographicScope) == 0:
		return apperror.Configuration(field+".geographic_focus", "must not be empty")
	case len(p.ProductMix) == 0:
		return apperror.Configuration(field+".product_mix", "must not be empty")
	}

	seen := make(map[string]bool, len(p.ProductMix))
	for _, pw := range p.ProductMix {
		if pw.Product == "" {
			return apperror.Configuration(field+".product_mix", "product name is required")
		}
		if seen[pw.Product] {
			return apperror.Configuration(field+".product_mix", fmt.Sprintf("duplicate product %q", pw.Product))
		}
		seen[pw.Product] = true
		if pw.Weight <= 0 || pw.Weight > 1 {
			return apperror.Configuration(field+".product_mix", fmt.Sprintf("weight of %q must be in (0, 1]", pw.Product))
		}
	}

	if total := p.ProductMixTotal(); math.Abs(total-1) > MixTolerance {
		return apperror.Configuration(field+".product_mix", fmt.Sprintf("weights sum to %g, want 1", total))
	}

	return nil
}

// Default returns the built-in four-bucket catalog.
func Default() (*ProfileCatalog, error) {
	return Parse(defaultProfiles)
}

// MustDefault is Default for package initialization and tests; the embedded
// catalog is always valid.
func MustDefault() *ProfileCatalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog override from a YAML file. An empty path returns the default catalog.
func Load(path string) (*ProfileCatalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*ProfileCatalog, error) {
	var doc profileFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperror.Configuration("profiles", fmt.Sprintf("decoding catalog: %v", err))
	}

	profiles := make([]model.PortfolioProfile, 0, len(doc.Profiles))
	for _, e := range doc.Profiles {
		profiles = append(profiles, e.toProfile())
	}
	return NewProfileCatalog(profiles)
}

// List returns every profile in catalog order.
func (c *ProfileCatalog) List() []Entry {
	out := make([]Entry, 0, len(c.profiles))
	for _, p := range c.profiles {
		out = append(out, Entry{Key: p.Key, Profile: p})
	}
	return out
}

// Keys returns the profile keys in catalog order.
func (c *ProfileCatalog) Keys() []string {
	keys := make([]string, 0, len(c.profiles))
	for _, p := range c.profiles {
		keys = append(keys, p.Key)
	}
	return keys
}

// Get looks up a profile by key.
func (c *ProfileCatalog) Get(key string) (model.PortfolioProfile, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return model.PortfolioProfile{}, false
	}
	return c.profiles[i], true
}

// Len returns the number of profiles.
func (c *ProfileCatalog) Len() int {
	return len(c.profiles)
}
