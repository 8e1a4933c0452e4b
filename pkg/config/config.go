package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/constrainedrandom/pkg/domain"
	"github.com/dshills/constrainedrandom/pkg/problem"
	"github.com/dshills/constrainedrandom/pkg/randvar"
	"github.com/dshills/constrainedrandom/pkg/rng"
)

// Config is the declarative description of a randomization problem: its
// seed, tuning knobs, variable domains, and structural constraints.
type Config struct {
	// Seed is the master seed for the problem's shared random source.
	Seed uint64 `yaml:"seed" json:"seed"`

	// MaxIterations overrides problem.DefaultMaxIterations when > 0.
	MaxIterations int `yaml:"maxIterations,omitempty" json:"maxIterations,omitempty"`

	// MaxDomainSize overrides problem.DefaultMaxDomainSize when > 0.
	MaxDomainSize int64 `yaml:"maxDomainSize,omitempty" json:"maxDomainSize,omitempty"`

	// Flags independently enables/disables each solver strategy. Unset
	// fields default to enabled (see FlagsCfg.apply).
	Flags FlagsCfg `yaml:"flags,omitempty" json:"flags,omitempty"`

	// Variables lists every bit-width, enum, or weighted variable in
	// declaration order — the order Build adds them in, and so the
	// order randomize() draws them in absent explicit Order hints.
	Variables []VariableCfg `yaml:"variables" json:"variables"`

	// Constraints lists structural multi-variable constraints resolved
	// against the built-in registry (see constraints.go).
	Constraints []ConstraintCfg `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// FlagsCfg toggles solver strategies. A nil pointer means "use the
// default" (enabled); an explicit false disables that strategy.
type FlagsCfg struct {
	Naive    *bool `yaml:"naive,omitempty" json:"naive,omitempty"`
	Sparse   *bool `yaml:"sparse,omitempty" json:"sparse,omitempty"`
	Thorough *bool `yaml:"thorough,omitempty" json:"thorough,omitempty"`
}

func (f FlagsCfg) apply() problem.SolverFlags {
	flags := problem.SolverFlags{Naive: true, Sparse: true, Thorough: true}
	if f.Naive != nil {
		flags.Naive = *f.Naive
	}
	if f.Sparse != nil {
		flags.Sparse = *f.Sparse
	}
	if f.Thorough != nil {
		flags.Thorough = *f.Thorough
	}
	return flags
}

// VariableCfg describes one randvar.RandVar.
type VariableCfg struct {
	// Name must be unique within the config.
	Name string `yaml:"name" json:"name"`

	// Kind is one of "bitwidth", "enum", "weighted".
	Kind string `yaml:"kind" json:"kind"`

	// Bits is used by Kind == "bitwidth".
	Bits int `yaml:"bits,omitempty" json:"bits,omitempty"`

	// Values is used by Kind == "enum": a finite ordered sequence.
	Values []any `yaml:"values,omitempty" json:"values,omitempty"`

	// Entries is used by Kind == "weighted".
	Entries []WeightedEntryCfg `yaml:"entries,omitempty" json:"entries,omitempty"`

	// Length, when > 0, makes this a list variable of Length elements
	// over the declared scalar domain.
	Length int `yaml:"length,omitempty" json:"length,omitempty"`

	// Order is the sparse-strategy group hint; defaults to 0.
	Order int `yaml:"order,omitempty" json:"order,omitempty"`

	// Unique, when true and Length > 0, requires every element distinct.
	Unique bool `yaml:"unique,omitempty" json:"unique,omitempty"`

	// SumAtLeast, when set and Length > 0, requires the element sum >= value.
	SumAtLeast *int64 `yaml:"sumAtLeast,omitempty" json:"sumAtLeast,omitempty"`

	// SumEquals, when set and Length > 0, requires the element sum == value.
	SumEquals *int64 `yaml:"sumEquals,omitempty" json:"sumEquals,omitempty"`
}

// WeightedEntryCfg is one entry of a weighted domain: either a single
// Value, or an inclusive [Low, High] integer range — never both.
type WeightedEntryCfg struct {
	Value  *int64 `yaml:"value,omitempty" json:"value,omitempty"`
	Low    *int64 `yaml:"low,omitempty" json:"low,omitempty"`
	High   *int64 `yaml:"high,omitempty" json:"high,omitempty"`
	Weight int64  `yaml:"weight" json:"weight"`
}

// ConstraintCfg names one structural multi-variable constraint and the
// variables it reads, resolved against the registry in constraints.go.
type ConstraintCfg struct {
	Kind   string             `yaml:"kind" json:"kind"`
	Vars   []string           `yaml:"vars" json:"vars"`
	Params map[string]float64 `yaml:"params,omitempty" json:"params,omitempty"`
}

// LoadConfig reads and validates a YAML problem definition file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses and validates a YAML problem definition from
// a byte slice.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks every structural invariant Build relies on: unique
// variable names, well-formed domains per Kind, and constraints that
// only reference declared variables and known kinds.
func (c *Config) Validate() error {
	if len(c.Variables) == 0 {
		return errors.New("at least one variable must be declared")
	}

	seen := make(map[string]bool, len(c.Variables))
	for i, v := range c.Variables {
		if v.Name == "" {
			return fmt.Errorf("variables[%d]: name must not be empty", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("variables[%d]: duplicate name %q", i, v.Name)
		}
		seen[v.Name] = true
		if err := v.validate(); err != nil {
			return fmt.Errorf("variables[%d] (%s): %w", i, v.Name, err)
		}
	}

	for i, c := range c.Constraints {
		if _, ok := constraintRegistry[c.Kind]; !ok {
			return fmt.Errorf("constraints[%d]: unknown constraint kind %q", i, c.Kind)
		}
		for _, name := range c.Vars {
			if !seen[name] {
				return fmt.Errorf("constraints[%d]: references unknown variable %q", i, name)
			}
		}
	}

	return nil
}

func (v *VariableCfg) validate() error {
	if v.Length < 0 {
		return fmt.Errorf("length must be >= 0")
	}
	switch v.Kind {
	case "bitwidth":
		if v.Bits < 0 {
			return fmt.Errorf("bits must be >= 0")
		}
	case "enum":
		if len(v.Values) == 0 {
			return fmt.Errorf("enum variable must declare at least one value")
		}
	case "weighted":
		if len(v.Entries) == 0 {
			return fmt.Errorf("weighted variable must declare at least one entry")
		}
		for i, e := range v.Entries {
			if e.Weight <= 0 {
				return fmt.Errorf("entries[%d]: weight must be positive", i)
			}
			hasValue := e.Value != nil
			hasRange := e.Low != nil && e.High != nil
			if hasValue == hasRange {
				return fmt.Errorf("entries[%d]: exactly one of value or low/high must be set", i)
			}
			if hasRange && *e.Low > *e.High {
				return fmt.Errorf("entries[%d]: low must be <= high", i)
			}
		}
	default:
		return fmt.Errorf("unknown kind %q (want bitwidth, enum, or weighted)", v.Kind)
	}
	return nil
}

// Build constructs a *problem.MultiVarProblem from the config: a
// freshly-seeded RNG, every declared variable, and every registry
// constraint. Function-domain variables and bespoke predicates are not
// produced here; add them to the returned problem before the first Solve.
func (c *Config) Build() (*problem.MultiVarProblem, error) {
	p := problem.New(rng.NewRNG(c.Seed))
	if c.MaxIterations > 0 {
		p.MaxIterations = c.MaxIterations
	}
	if c.MaxDomainSize > 0 {
		p.MaxDomainSize = c.MaxDomainSize
	}
	p.Flags = c.Flags.apply()

	for _, vc := range c.Variables {
		v, err := vc.build()
		if err != nil {
			return nil, fmt.Errorf("config: building variable %q: %w", vc.Name, err)
		}
		if err := p.AddVar(v); err != nil {
			return nil, err
		}
	}

	for i, cc := range c.Constraints {
		factory, ok := constraintRegistry[cc.Kind]
		if !ok {
			return nil, fmt.Errorf("config: constraints[%d]: unknown kind %q", i, cc.Kind)
		}
		pred, err := factory(cc)
		if err != nil {
			return nil, fmt.Errorf("config: constraints[%d]: %w", i, err)
		}
		if err := p.AddConstraint(pred, cc.Vars...); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (vc *VariableCfg) build() (*randvar.RandVar, error) {
	d, err := vc.domain()
	if err != nil {
		return nil, err
	}

	var v *randvar.RandVar
	if vc.Length > 0 {
		v = randvar.NewList(vc.Name, d, vc.Length)
		if vc.Unique {
			v.ListConstraints = append(v.ListConstraints, listUnique)
		}
		if vc.SumAtLeast != nil {
			min := *vc.SumAtLeast
			v.ListConstraints = append(v.ListConstraints, listSumAtLeast(min))
		}
		if vc.SumEquals != nil {
			target := *vc.SumEquals
			v.ListConstraints = append(v.ListConstraints, listSumEquals(target))
		}
	} else {
		v = randvar.New(vc.Name, d)
	}
	v.Order = vc.Order
	return v, nil
}

func listUnique(values []any) bool {
	seen := make(map[any]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func listSumAtLeast(min int64) randvar.ListPredicate {
	return func(values []any) bool {
		var sum int64
		for _, v := range values {
			n, ok := toInt64(v)
			if !ok {
				return false
			}
			sum += n
		}
		return sum >= min
	}
}

func listSumEquals(target int64) randvar.ListPredicate {
	return func(values []any) bool {
		var sum int64
		for _, v := range values {
			n, ok := toInt64(v)
			if !ok {
				return false
			}
			sum += n
		}
		return sum == target
	}
}

func (vc *VariableCfg) domain() (domain.Domain, error) {
	switch vc.Kind {
	case "bitwidth":
		return domain.NewBitWidth(vc.Bits), nil
	case "enum":
		return domain.NewEnum(vc.Values), nil
	case "weighted":
		entries := make([]domain.WeightedEntry, len(vc.Entries))
		for i, e := range vc.Entries {
			if e.Value != nil {
				entries[i] = domain.WeightedEntry{Value: int(*e.Value), Weight: e.Weight}
				continue
			}
			entries[i] = domain.WeightedEntry{IsRange: true, Lo: *e.Low, Hi: *e.High, Weight: e.Weight}
		}
		return domain.NewWeighted(entries), nil
	default:
		return domain.Domain{}, fmt.Errorf("unknown kind %q", vc.Kind)
	}
}

// ToYAML serializes the config back to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes a deterministic hash of the configuration, suitable as
// the configHash argument to rng.NewDerivedRNG when fanning one config
// out into several independent solve calls.
func (c *Config) Hash() ([]byte, error) {
	data, err := c.ToYAML()
	if err != nil {
		return nil, fmt.Errorf("config: hashing: %w", err)
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}
