package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/guru-oracle/x/oracle/types"
)

// GetCmdExportGenesis prints the registry and stored data as genesis JSON
func GetCmdExportGenesis() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the node registry and stored oracle data as genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := getState(cmd)
			if err != nil {
				return err
			}

			gs, err := st.ExportGenesis()
			if err != nil {
				return err
			}
			return printJSON(cmd, gs)
		},
	}

	return cmd
}

// ReadGenesisFile loads and validates a genesis JSON file.
func ReadGenesisFile(path string) (types.GenesisState, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return types.GenesisState{}, err
	}

	var gs types.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return types.GenesisState{}, fmt.Errorf("failed to parse genesis %s: %w", path, err)
	}
	if err := gs.Validate(); err != nil {
		return types.GenesisState{}, err
	}
	return gs, nil
}
