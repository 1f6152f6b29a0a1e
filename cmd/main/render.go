package main

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/CTAG07/IncludeBootstrap/pkg/bootstrap"
	"github.com/CTAG07/IncludeBootstrap/pkg/library"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	settingsFile string
	database     string
	jquery       string
	popover      bool
	bundle       bool
	fontawesome  bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the css and javascript tags for a settings file",
		Long: `Print the stylesheet and script tags the template functions would render.

Settings are read from a JSON, YAML or TOML file. With --db, active library
entries from that database take precedence, as they do with use_db.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.settingsFile, "settings", "s", "", "bootstrap settings file (.json, .yaml or .toml)")
	flags.StringVar(&opts.database, "db", "", "database with persisted library entries")
	flags.StringVar(&opts.jquery, "jquery", "", `jQuery build: "slim", "true" or "false" (default: include_jquery)`)
	flags.BoolVar(&opts.popover, "popover", false, "include Popper")
	flags.BoolVar(&opts.bundle, "bundle", false, "use the Bootstrap bundle")
	flags.BoolVar(&opts.fontawesome, "fontawesome", false, "include the Font Awesome stylesheet")
	return cmd
}

func runRender(ctx context.Context, w io.Writer, opts renderOptions) error {
	cfg := bootstrap.DefaultConfig()
	if opts.settingsFile != "" {
		var err error
		if cfg, err = bootstrap.LoadConfig(opts.settingsFile); err != nil {
			return err
		}
	}

	var resolverOpts []bootstrap.Option
	if opts.database != "" {
		db, err := initDB(opts.database)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			_ = db.Close()
		}()
		if err = library.SetupSchema(db); err != nil {
			return fmt.Errorf("failed to setup library schema: %w", err)
		}
		store, err := library.NewStore(db)
		if err != nil {
			return err
		}
		defer store.Close()

		cfg.UseDB = true
		resolverOpts = append(resolverOpts, bootstrap.WithEntrySource(store))
	}

	s := bootstrap.NewResolver(cfg, resolverOpts...).Resolve(ctx)
	tags := []template.HTML{bootstrap.AssembleCSS(s)}
	if opts.fontawesome {
		tags = append(tags, bootstrap.RenderFontawesome(s))
	}
	tags = append(tags, bootstrap.AssembleJavascript(s, bootstrap.JavascriptOptions{
		JQuery:  bootstrap.ParseJQueryMode(opts.jquery),
		Popover: opts.popover,
		Bundle:  opts.bundle,
	}))

	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, tag); err != nil {
			return err
		}
	}
	return nil
}
