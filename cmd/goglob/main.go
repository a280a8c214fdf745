package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	box "github.com/Delta456/box-cli-maker/v2"
	"github.com/gookit/color"
	"github.com/jessevdk/go-flags"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	validator "gopkg.in/go-playground/validator.v9"

	"github.com/koblas/goglob/glob"
	"github.com/koblas/goglob/internal/logx"
	"github.com/koblas/goglob/pathstyle"
)

// cliConfig mirrors main.go's opts-struct-plus-validate-tag idiom
// (pkg/handler/configuration.go's Configuration), scoped to what a glob
// query needs instead of a file server's configuration surface.
type cliConfig struct {
	Pattern       string `validate:"required,min=1"`
	Context       string `validate:"omitempty,oneof=posix windows url"`
	Root          string
	FollowLinks   bool
	Recursive     bool
	CaseSensitive *bool
}

func main() {
	var opts struct {
		Version       bool    `short:"v" long:"version" description:"Display the current version of goglob"`
		Context       *string `short:"c" long:"context" description:"Path style: posix, windows, or url" default:"posix"`
		Root          *string `short:"r" long:"root" description:"Root directory for list (defaults to the current directory)"`
		NoFollowLinks *bool   `long:"no-follow-links" description:"Do not follow symbolic links while listing"`
		Recursive     *bool   `long:"recursive" description:"Also match everything below the pattern (P and P/**)"`
		CaseSensitive *bool   `long:"case-sensitive" description:"Force case-sensitive matching"`
		IgnoreCase    *bool   `long:"ignore-case" description:"Force case-insensitive matching"`
		Debug         bool    `long:"debug" description:"Log each step of compiling and running the query"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		if !flags.WroteHelp(err) {
			color.Error.Println(err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if opts.Version {
		fmt.Println("0.1.0")
		os.Exit(0)
	}

	if len(args) < 2 {
		color.Error.Println("usage: goglob <match|list> <pattern> [path]")
		os.Exit(1)
	}

	logger := logx.New(opts.Debug)

	cmdName, pattern, rest := args[0], args[1], args[2:]
	logger.Debug("parsed command", "cmd", cmdName, "pattern", pattern)

	cfg := cliConfig{
		Pattern:     pattern,
		Context:     *opts.Context,
		FollowLinks: opts.NoFollowLinks == nil || !*opts.NoFollowLinks,
	}
	if opts.Root != nil {
		cfg.Root = *opts.Root
	}
	if opts.Recursive != nil {
		cfg.Recursive = *opts.Recursive
	}
	if opts.CaseSensitive != nil {
		v := *opts.CaseSensitive
		cfg.CaseSensitive = &v
	}
	if opts.IgnoreCase != nil && *opts.IgnoreCase {
		v := false
		cfg.CaseSensitive = &v
	}

	if err := validate(cfg); err != nil {
		color.Error.Println(err)
		os.Exit(1)
	}

	style, err := parseStyle(cfg.Context)
	if err != nil {
		color.Error.Println(err)
		os.Exit(1)
	}

	g, err := glob.New(cfg.Pattern, glob.Options{
		Context:       style,
		Recursive:     cfg.Recursive,
		CaseSensitive: cfg.CaseSensitive,
	})
	if err != nil {
		color.Error.Println(errors.Wrap(err, "compiling pattern"))
		os.Exit(1)
	}
	logger.Debug("compiled pattern", "context", style.String(), "caseSensitive", g.CaseSensitive())

	switch cmdName {
	case "match":
		runMatch(g, rest, logger)
	case "list":
		runList(g, cfg, logger)
	default:
		color.Error.Printf("unknown command %q (want match or list)\n", cmdName)
		os.Exit(1)
	}
}

// validate runs validator.v9 against cfg, the same struct-tag-driven
// validation shape pkg/handler/configuration.go's "validate" tags declare
// (there unused by any live call site; here actually invoked).
func validate(cfg cliConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid arguments")
	}
	return nil
}

func parseStyle(s string) (pathstyle.Style, error) {
	switch strings.ToLower(s) {
	case "", "posix":
		return pathstyle.POSIX, nil
	case "windows":
		return pathstyle.Windows, nil
	case "url":
		return pathstyle.URLStyle, nil
	default:
		return pathstyle.POSIX, errors.Errorf("unknown context %q", s)
	}
}

func runMatch(g *glob.Glob, rest []string, logger logx.Logger) {
	if len(rest) != 1 {
		color.Error.Println("usage: goglob match <pattern> <path>")
		os.Exit(1)
	}
	path := rest[0]
	logger.Debug("testing path against pattern", "path", path)
	if g.Matches(path) {
		color.Success.Println("match")
		return
	}
	color.Warn.Println("no match")
	os.Exit(1)
}

func runList(g *glob.Glob, cfg cliConfig, logger logx.Logger) {
	root := cfg.Root
	if root == "" {
		root = "."
	}
	logger.Debug("listing root", "root", root, "followLinks", cfg.FollowLinks)

	out, errs := g.List(context.Background(), glob.ListOptions{
		FollowLinks: cfg.FollowLinks,
		Root:        root,
	})

	var results []string
	for out != nil || errs != nil {
		select {
		case p, ok := <-out:
			if !ok {
				out = nil
				continue
			}
			results = append(results, p)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			color.Error.Println(errors.Wrap(err, "listing"))
			os.Exit(1)
		}
	}

	printListing(g.String(), root, results)
}

// printListing renders matched paths in a box-cli-maker banner with
// runewidth-aligned columns, grounded on main.go's box.New(box.Config{...})
// banner plus the teacher's (commented-out) column-aligned startup lines.
func printListing(pattern, root string, results []string) {
	bx := box.New(box.Config{Px: 2, Py: 1})

	width := 0
	for _, r := range results {
		if w := runewidth.StringWidth(r); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, r := range results {
		padded := runewidth.FillRight(r, width)
		b.WriteString(color.Info.Sprint(padded))
		b.WriteByte('\n')
	}
	if len(results) == 0 {
		b.WriteString(color.Warn.Sprint("(no matches)"))
	}

	bx.Println(fmt.Sprintf("%s under %s", pattern, root), strings.TrimRight(b.String(), "\n"))
}
