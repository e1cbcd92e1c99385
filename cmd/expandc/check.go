package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"expandc/internal/diag"
	"expandc/internal/diagfmt"
	"expandc/internal/driver"
	"expandc/internal/expand"
	"expandc/internal/project"
	"expandc/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <workspace.toml>",
	Short: "Validate signatures and resolve call sites in a workspace",
	Long:  `Validate every expanded-parameter signature declared in the workspace manifest and resolve each call site against the catalogs frozen at declaration time`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "include source line previews in output")
	checkCmd.Flags().Bool("basename", false, "emit file basenames instead of full paths")
	checkCmd.Flags().Bool("disk-cache", false, "persist built catalogs between runs (experimental)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	basename, err := cmd.Flags().GetBool("basename")
	if err != nil {
		return fmt.Errorf("failed to get basename flag: %w", err)
	}
	enableDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	color, err := useColor(cmd)
	if err != nil {
		return err
	}

	loadBag := diag.NewBag(maxDiagnostics)
	ws, err := project.LoadWorkspace(args[0], loadBag)
	if err != nil {
		return err
	}

	opts := driver.Options{MaxDiagnostics: maxDiagnostics, Jobs: jobs}
	if enableDiskCache {
		dc, err := driver.OpenDiskCache("expandc")
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.Hint(color, "disk cache unavailable: "+err.Error()))
		} else {
			opts.Snapshots = dc
		}
	}

	sigResults, err := driver.ValidateAll(cmd.Context(), ws, opts)
	if err != nil {
		return err
	}
	callResults, err := driver.ResolveAll(cmd.Context(), ws, opts)
	if err != nil {
		return err
	}

	merged := driver.MergeBags(sigResults, callResults)
	merged.Merge(loadBag)
	merged.Sort()

	pathMode := diagfmt.PathModeFull
	if basename {
		pathMode = diagfmt.PathModeBasename
	}
	showFixes := suggest || preview

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, merged, ws.FileSet, diagfmt.PrettyOpts{
			Color:       color,
			PathMode:    pathMode,
			ShowNotes:   withNotes,
			ShowFixes:   showFixes,
			ShowPreview: preview,
		})
	case "json":
		err := diagfmt.JSON(os.Stdout, merged, ws.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeFixes:     showFixes,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !quiet && format == "pretty" {
		fmt.Fprintln(os.Stdout, summarize(sigResults, callResults, merged).Render(color, 0))
	}

	if merged.HasErrors() {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return nil
}

func summarize(sigResults []driver.SignatureResult, callResults []driver.CallResult, merged *diag.Bag) ui.Summary {
	s := ui.Summary{Signatures: len(sigResults), Calls: len(callResults)}
	for _, r := range callResults {
		switch r.Resolution.Kind {
		case expand.ResolutionDirect:
			s.Direct++
		case expand.ResolutionConstructed:
			s.Constructed++
		case expand.ResolutionDefaulted:
			s.Defaulted++
		case expand.ResolutionFailed:
			s.Failed++
		}
	}
	for _, d := range merged.Items() {
		if d.Severity == diag.SevError {
			s.Errors++
		}
	}
	return s
}
