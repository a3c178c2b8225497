package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"chargesol/backend/services/registry-service/internal/station"
)

var errInvalidDraft = errors.New("draft is invalid")

// Validate returns the command checking a draft file offline.
func Validate() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a station draft stored as YAML",
		Example: `  chargesol validate station.yaml

  # station.yaml
  name: My Home Charger
  address: 123 Main St
  city: Anytown
  state: CA
  zip: "12345"
  chargerType: level2
  power: 7
  price: 0.25
  connectorTypes: Type 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return validateDraft(data, cmd.OutOrStdout())
		},
	}
}

func validateDraft(data []byte, out io.Writer) error {
	draft, err := decodeDraft(data)
	if err != nil {
		return err
	}
	st, err := station.Validate(draft)
	var verr *station.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(out, RenderFieldErrors(verr))
		return errInvalidDraft
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("%s is valid", st.Name)))
	fmt.Fprint(out, RenderSummary(station.Summarize(draft)))
	return nil
}

// decodeDraft reads a draft starting from zero values; unknown keys are rejected.
func decodeDraft(data []byte) (station.Draft, error) {
	var draft station.Draft
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&draft); err != nil && !errors.Is(err, io.EOF) {
		return station.Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	return draft, nil
}
