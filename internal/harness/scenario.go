package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/simpledb/internal/status"
)

// Scenario is a scripted sequence of engine calls with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// GUID is the identifier every guid step returns. Defaults to the
	// all-zero UUID.
	GUID string `yaml:"guid,omitempty"`

	// Steps run in order against one engine.
	Steps []Step `yaml:"steps"`

	// Assertions inspect the database after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one engine call or clock movement.
type Step struct {
	// Op selects the call; see the Op* constants.
	Op string `yaml:"op"`

	Table string         `yaml:"table,omitempty"`
	Key   string         `yaml:"key,omitempty"`
	Value string         `yaml:"value,omitempty"`
	Dict  map[string]any `yaml:"dict,omitempty"`
	Field string         `yaml:"field,omitempty"`

	// ExpiresIn sets the expiry of set and set_dict relative to the
	// scenario clock, as a Go duration ("90s", "-1m").
	ExpiresIn string `yaml:"expires_in,omitempty"`

	// Duration is how far an advance step moves the clock.
	Duration string `yaml:"duration,omitempty"`

	// OrderBy, Reverse and Where shape a keys step.
	OrderBy string            `yaml:"order_by,omitempty"`
	Reverse bool              `yaml:"reverse,omitempty"`
	Where   map[string]string `yaml:"where,omitempty"`

	// Expect is checked against the call's outcome. Optional.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the outcome a step must produce. Unset fields are not
// checked.
type Expect struct {
	// Status is the status name, e.g. "KeyDeleted".
	Status string `yaml:"status,omitempty"`

	// Value is the exact string a get step returns.
	Value *string `yaml:"value,omitempty"`

	// Field is the decoded value a field step returns, or the object a
	// dict step returns. Compared by canonical JSON.
	Field any `yaml:"field,omitempty"`

	// Keys is the list a keys or tables step returns, in order.
	Keys []string `yaml:"keys,omitempty"`

	// Has is the answer of a has step.
	Has *bool `yaml:"has,omitempty"`

	// Count is the number of records a sweep step transitions.
	Count *int `yaml:"count,omitempty"`
}

// Assertion inspects the database after the last step.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Table and Keys are used by live_keys; Key and Value by value.
	Table string   `yaml:"table,omitempty"`
	Key   string   `yaml:"key,omitempty"`
	Value string   `yaml:"value,omitempty"`
	Keys  []string `yaml:"keys,omitempty"`

	// Tables is used by tables.
	Tables []string `yaml:"tables,omitempty"`

	// Status and Count are used by status_count.
	Status string `yaml:"status,omitempty"`
	Count  int    `yaml:"count,omitempty"`
}

// Step operations.
const (
	OpSet     = "set"
	OpSetDict = "set_dict"
	OpGet     = "get"
	OpDict    = "dict"
	OpField   = "field"
	OpHas     = "has"
	OpDelete  = "delete"
	OpKeys    = "keys"
	OpTables  = "tables"
	OpDrop    = "drop"
	OpDropAll = "drop_all"
	OpSweep   = "sweep"
	OpGUID    = "guid"
	OpAdvance = "advance"
)

// Assertion types.
const (
	AssertLiveKeys    = "live_keys"
	AssertTables      = "tables"
	AssertValue       = "value"
	AssertStatusCount = "status_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "step:" vs "steps:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, st *Step) error {
	needsTable := func() error {
		if st.Table == "" {
			return fmt.Errorf("steps[%d]: table is required for %s", index, st.Op)
		}
		return nil
	}
	needsKey := func() error {
		if err := needsTable(); err != nil {
			return err
		}
		if st.Key == "" {
			return fmt.Errorf("steps[%d]: key is required for %s", index, st.Op)
		}
		return nil
	}

	var err error
	switch st.Op {
	case OpSet, OpGet, OpDict, OpHas, OpDelete:
		err = needsKey()
	case OpSetDict:
		err = needsKey()
		if err == nil && st.Dict == nil {
			err = fmt.Errorf("steps[%d]: dict is required for set_dict", index)
		}
	case OpField:
		err = needsKey()
		if err == nil && st.Field == "" {
			err = fmt.Errorf("steps[%d]: field is required for field", index)
		}
	case OpKeys, OpDrop:
		err = needsTable()
	case OpTables, OpDropAll, OpSweep, OpGUID:
	case OpAdvance:
		if st.Duration == "" {
			return fmt.Errorf("steps[%d]: duration is required for advance", index)
		}
		if _, perr := time.ParseDuration(st.Duration); perr != nil {
			return fmt.Errorf("steps[%d]: duration: %w", index, perr)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}
	if err != nil {
		return err
	}

	if st.ExpiresIn != "" {
		if st.Op != OpSet && st.Op != OpSetDict {
			return fmt.Errorf("steps[%d]: expires_in only applies to set and set_dict", index)
		}
		if _, perr := time.ParseDuration(st.ExpiresIn); perr != nil {
			return fmt.Errorf("steps[%d]: expires_in: %w", index, perr)
		}
	}

	if st.Expect != nil && st.Expect.Status != "" {
		if _, perr := status.Parse(st.Expect.Status); perr != nil {
			return fmt.Errorf("steps[%d].expect: %w", index, perr)
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertLiveKeys:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for live_keys", index)
		}
	case AssertTables:
	case AssertValue:
		if a.Table == "" || a.Key == "" {
			return fmt.Errorf("assertions[%d]: table and key are required for value", index)
		}
	case AssertStatusCount:
		if _, err := status.Parse(a.Status); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for status_count", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
