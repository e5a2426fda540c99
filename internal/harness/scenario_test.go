package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_File(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/expire_on_read.yaml")
	require.NoError(t, err)

	assert.Equal(t, "expire_on_read", scenario.Name)
	require.Len(t, scenario.Steps, 6)
	assert.Equal(t, OpSet, scenario.Steps[0].Op)
	assert.Equal(t, "1m", scenario.Steps[0].ExpiresIn)
	require.NotNil(t, scenario.Steps[1].Expect)
	require.NotNil(t, scenario.Steps[1].Expect.Value)
	assert.Equal(t, `{"user":"ada"}`, *scenario.Steps[1].Expect.Value)
	require.NotNil(t, scenario.Steps[4].Expect.Keys)
	assert.Empty(t, scenario.Steps[4].Expect.Keys)
	assert.Len(t, scenario.Assertions, 3)
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: typo
description: misspelled key
step:
  - op: guid
`), 0644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nsteps:\n  - op: guid\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nsteps:\n  - op: guid\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: n\ndescription: d\n",
			wantErr: "steps list is required",
		},
		{
			name:    "unknown op",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: upsert\n",
			wantErr: `unknown op "upsert"`,
		},
		{
			name:    "missing op",
			yaml:    "name: n\ndescription: d\nsteps:\n  - table: t\n",
			wantErr: "op is required",
		},
		{
			name:    "get without key",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: get\n    table: t\n",
			wantErr: "key is required for get",
		},
		{
			name:    "keys without table",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: keys\n",
			wantErr: "table is required for keys",
		},
		{
			name:    "field without field",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: field\n    table: t\n    key: k\n",
			wantErr: "field is required for field",
		},
		{
			name:    "set_dict without dict",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: set_dict\n    table: t\n    key: k\n",
			wantErr: "dict is required",
		},
		{
			name:    "bad duration",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: advance\n    duration: soon\n",
			wantErr: "duration",
		},
		{
			name:    "expires_in on get",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: get\n    table: t\n    key: k\n    expires_in: 1s\n",
			wantErr: "expires_in only applies",
		},
		{
			name:    "unknown status",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: get\n    table: t\n    key: k\n    expect:\n      status: Gone\n",
			wantErr: `unknown status "Gone"`,
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: guid\nassertions:\n  - type: final_state\n",
			wantErr: `unknown assertion type "final_state"`,
		},
		{
			name:    "value assertion without key",
			yaml:    "name: n\ndescription: d\nsteps:\n  - op: guid\nassertions:\n  - type: value\n    table: t\n",
			wantErr: "table and key are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
