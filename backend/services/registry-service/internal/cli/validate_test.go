package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDraftYAML = `name: My Home Charger
address: 123 Main St
city: Anytown
state: CA
zip: 12345
chargerType: level2
power: 7
price: 0.25
connectorTypes: Type 2
`

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		want    []string
	}{
		{
			name: "valid",
			yaml: validDraftYAML,
			want: []string{"My Home Charger is valid", "Technical Specifications", "0.25 SOL per kWh"},
		},
		{
			name:    "invalid fields",
			yaml:    "name: AB\npower: 0.5\n",
			wantErr: true,
			want:    []string{"name: Station name must be at least 3 characters.", "power: Power must be at least 1 kW."},
		},
		{
			name:    "non-finite numbers",
			yaml:    "name: Depot\naddress: 1 Long Rd\ncity: Anytown\nstate: CA\nzip: 12345\nchargerType: level2\npower: .inf\nprice: .nan\nconnectorTypes: CCS\n",
			wantErr: true,
			want:    []string{"power: Power must be a number.", "price: Price must be a number."},
		},
		{
			name:    "unknown key",
			yaml:    validDraftYAML + "voltage: 240\n",
			wantErr: true,
		},
		{
			name:    "empty file",
			yaml:    "",
			wantErr: true,
			want:    []string{"chargerType: You need to select a charger type."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := validateDraft([]byte(tt.yaml), &out)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "station.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDraftYAML), 0o600))

	cmd := Root()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "is valid")

	cmd = Root()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"validate", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, cmd.Execute())
}
