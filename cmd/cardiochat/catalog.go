package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"cardiochat/internal/catalog"
	"cardiochat/internal/common/validation"
	"cardiochat/internal/render"
)

var catalogFile string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List, show or export question catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the builtin catalogs",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range catalog.BuiltinNames() {
			c, err := catalog.Builtin(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n",
				render.StyleBold.Render(fmt.Sprintf("%-8s", name)),
				render.StyleMuted.Render(fmt.Sprintf("%d questions", c.Len())))
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a catalog as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalogArg(args)
		if err != nil {
			return err
		}
		data, err := catalog.Marshal(c)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var catalogSchemaCmd = &cobra.Command{
	Use:   "schema [name]",
	Short: "Print the JSON Schema of the prediction request for a catalog",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalogArg(args)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(validation.FromCatalog(c), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&catalogFile, "file", "", "YAML catalog file instead of a builtin")
	catalogCmd.AddCommand(catalogListCmd, catalogShowCmd, catalogSchemaCmd)
	rootCmd.AddCommand(catalogCmd)
}

func catalogArg(args []string) (*catalog.Catalog, error) {
	name := catalog.Basic
	if len(args) == 1 {
		name = args[0]
	}
	return resolveCatalog(name, catalogFile)
}
