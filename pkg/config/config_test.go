package config

import (
	"testing"

	"github.com/dshills/constrainedrandom/pkg/solver"
)

func TestLoadConfigFromBytes_ValidConfig(t *testing.T) {
	yamlSrc := `
seed: 12345
maxIterations: 500
variables:
  - name: a
    kind: bitwidth
    bits: 4
  - name: b
    kind: bitwidth
    bits: 4
constraints:
  - kind: ne
    vars: [a, b]
`

	cfg, err := LoadConfigFromBytes([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() failed: %v", err)
	}

	if cfg.Seed != 12345 {
		t.Errorf("Seed = %d, want 12345", cfg.Seed)
	}
	if cfg.MaxIterations != 500 {
		t.Errorf("MaxIterations = %d, want 500", cfg.MaxIterations)
	}
	if len(cfg.Variables) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(cfg.Variables))
	}
	if len(cfg.Constraints) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(cfg.Constraints))
	}
}

func TestLoadConfigFromBytes_UnknownConstraintKind(t *testing.T) {
	yamlSrc := `
seed: 1
variables:
  - name: a
    kind: bitwidth
    bits: 4
constraints:
  - kind: not_a_real_kind
    vars: [a]
`
	_, err := LoadConfigFromBytes([]byte(yamlSrc))
	if err == nil {
		t.Fatal("expected error for unknown constraint kind, got nil")
	}
}

func TestLoadConfigFromBytes_DuplicateVariableName(t *testing.T) {
	yamlSrc := `
seed: 1
variables:
  - name: a
    kind: bitwidth
    bits: 4
  - name: a
    kind: bitwidth
    bits: 2
`
	_, err := LoadConfigFromBytes([]byte(yamlSrc))
	if err == nil {
		t.Fatal("expected error for duplicate variable name, got nil")
	}
}

func TestLoadConfigFromBytes_NoVariables(t *testing.T) {
	_, err := LoadConfigFromBytes([]byte("seed: 1\n"))
	if err == nil {
		t.Fatal("expected error for empty variable list, got nil")
	}
}

func TestVariableCfg_WeightedRequiresValueXorRange(t *testing.T) {
	yamlSrc := `
seed: 1
variables:
  - name: v
    kind: weighted
    entries:
      - weight: 1
`
	_, err := LoadConfigFromBytes([]byte(yamlSrc))
	if err == nil {
		t.Fatal("expected error for entry with neither value nor range set, got nil")
	}
}

func TestBuild_SolvesSimpleProblem(t *testing.T) {
	yamlSrc := `
seed: 7
variables:
  - name: a
    kind: enum
    values: [0, 1, 2, 3, 4, 5, 6, 7, 8, 9]
  - name: b
    kind: enum
    values: [0, 1, 2, 3, 4, 5, 6, 7, 8, 9]
constraints:
  - kind: sum_at_least
    vars: [a, b]
    params:
      min: 10
`
	cfg, err := LoadConfigFromBytes([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes: %v", err)
	}

	p, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	assignment, err := solver.Solve(p, solver.RandomizeOptions{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if assignment["a"].(int)+assignment["b"].(int) < 10 {
		t.Fatalf("constraint violated: %v", assignment)
	}
}

func TestBuild_ListVariableWithUniqueAndSum(t *testing.T) {
	yamlSrc := `
seed: 3
variables:
  - name: xs
    kind: enum
    values: [0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19]
    length: 5
    unique: true
    sumAtLeast: 20
`
	cfg, err := LoadConfigFromBytes([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes: %v", err)
	}

	p, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	assignment, err := solver.Solve(p, solver.RandomizeOptions{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	values := assignment["xs"].([]any)
	if len(values) != 5 {
		t.Fatalf("expected 5 elements, got %d", len(values))
	}
	seen := make(map[any]bool)
	var sum int
	for _, v := range values {
		if seen[v] {
			t.Fatalf("list not unique: %v", values)
		}
		seen[v] = true
		sum += v.(int)
	}
	if sum < 20 {
		t.Fatalf("sum %d < 20: %v", sum, values)
	}
}

func TestConfig_HashDeterministic(t *testing.T) {
	cfg := &Config{Seed: 1, Variables: []VariableCfg{{Name: "a", Kind: "bitwidth", Bits: 4}}}
	h1, err := cfg.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := cfg.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if string(h1) != string(h2) {
		t.Fatal("Hash is not deterministic across calls")
	}
}
