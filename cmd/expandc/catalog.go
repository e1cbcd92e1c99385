package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"expandc/internal/catalog"
	"expandc/internal/diag"
	"expandc/internal/project"
	"expandc/internal/symbols"
	"expandc/internal/types"
	"expandc/internal/ui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [flags] <workspace.toml> <TypeName>",
	Short: "Dump the constructor catalog of a type",
	Long:  `Dump the constructor candidates of a type as one observation context sees them, optionally frozen at the declaration point of a named function`,
	Args:  cobra.ExactArgs(2),
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().String("module", "", "observe from this module (default: the type's own module context)")
	catalogCmd.Flags().String("as-of-fn", "", "freeze the catalog at the declaration point of this function")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	moduleName, err := cmd.Flags().GetString("module")
	if err != nil {
		return fmt.Errorf("failed to get module flag: %w", err)
	}
	asOfFn, err := cmd.Flags().GetString("as-of-fn")
	if err != nil {
		return fmt.Errorf("failed to get as-of-fn flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	color, err := useColor(cmd)
	if err != nil {
		return err
	}

	bag := diag.NewBag(maxDiagnostics)
	ws, err := project.LoadWorkspace(args[0], bag)
	if err != nil {
		return err
	}
	owner, ok := ws.TypesByName[args[1]]
	if !ok {
		return fmt.Errorf("workspace declares no type %q", args[1])
	}

	at := symbols.Context{Module: ws.Table.AddModule(moduleName), File: ws.FileID}
	asOf := ws.Table.Tick()
	if asOfFn != "" {
		sig, ok := ws.SignatureByName(asOfFn)
		if !ok {
			return fmt.Errorf("workspace declares no function %q", asOfFn)
		}
		at = sig.Decl
		asOf = sig.AsOf
		if moduleName != "" {
			at.Module = ws.Table.AddModule(moduleName)
		}
	}

	b := &catalog.Builder{Table: ws.Table, Types: ws.Types}
	cands := b.Build(b.Owner(owner), at, asOf)

	fmt.Fprintf(os.Stdout, "%s: %d constructor(s)\n", args[1], len(cands))
	for _, c := range cands {
		fmt.Fprintf(os.Stdout, "  init(%s)\n", formatCtorParams(ws, c))
	}
	if len(cands) == 0 {
		fmt.Fprintln(os.Stdout, ui.Hint(color, "  no constructors visible in this context at this point"))
	}
	return nil
}

func formatCtorParams(ws *project.Workspace, c catalog.Candidate) string {
	parts := make([]string, len(c.Params))
	for i, p := range c.Params {
		label := "_"
		if c.Labels[i] != 0 {
			label = ws.Strings.MustLookup(c.Labels[i])
		}
		parts[i] = label + ": " + types.Label(ws.Types, p)
	}
	return strings.Join(parts, ", ")
}
