package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mardigontoler/gdext/config"
	"github.com/mardigontoler/gdext/internal/codegen"
)

type generateFlags struct {
	dir    string
	config string
	output string
	header string
	strict bool
	quiet  bool
}

func newRootCmd() *cobra.Command {
	var flags generateFlags

	root := &cobra.Command{
		Use:           "gdext-gen",
		Short:         "Generate GDExtension property registration code",
		Args:          cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, flags)
		},
	}
	addGenerateFlags(root, &flags)

	var genFlags generateFlags
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Scan a package and write its registration code (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, genFlags)
		},
	}
	addGenerateFlags(generate, &genFlags)

	schema := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of " + config.DefaultConfigFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := config.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	root.AddCommand(generate, schema)
	return root
}

func addGenerateFlags(cmd *cobra.Command, f *generateFlags) {
	cmd.Flags().StringVarP(&f.dir, "dir", "d", ".", "package directory to scan")
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "config file (default <dir>/"+config.DefaultConfigFile+")")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file name, overrides the config")
	cmd.Flags().StringVar(&f.header, "header", "", "comment placed above the generated code, overrides the config")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject exports on types without RegisterMethods")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "do not report written files")
}

func runGenerate(cmd *cobra.Command, f generateFlags) error {
	path := f.config
	if path == "" {
		path = filepath.Join(f.dir, config.DefaultConfigFile)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = f.output
	}
	if cmd.Flags().Changed("header") {
		cfg.Header = f.header
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = f.strict
	}

	res, err := codegen.Generate(f.dir, cfg)
	if err != nil {
		return err
	}
	if f.quiet {
		return nil
	}

	w := cmd.OutOrStdout()
	switch {
	case res.Path == "":
		fmt.Fprintf(w, "gdext-gen: no directives in %s\n", f.dir)
	case res.Unchanged:
		fmt.Fprintf(w, "gdext-gen: %s is up to date\n", res.Path)
	default:
		fmt.Fprintf(w, "gdext-gen: wrote %s (%d classes)\n", res.Path, len(res.Classes))
	}
	return nil
}
