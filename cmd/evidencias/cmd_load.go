package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carlosaherrerap/Evidencias/internal/engine"
	"github.com/carlosaherrerap/Evidencias/internal/engine/classifier"
	"github.com/carlosaherrerap/Evidencias/internal/evidence"
	"github.com/carlosaherrerap/Evidencias/internal/pipeline"
)

var loadCmd = &cobra.Command{
	Use:   "load <datos_fuente>",
	Short: "Validate the primary source and print its client count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		eng := engine.New(classifier.Default(), evidence.NewFiles())
		n, err := pipeline.New(loader, eng, nil).LoadPrimary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d clients\n", n)
		return nil
	},
}
