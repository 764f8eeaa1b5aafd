package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/shlex"
	"github.com/samber/lo"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/NaleRaphael/blog/api"
	"github.com/NaleRaphael/blog/config"
	"github.com/NaleRaphael/blog/output"
	"github.com/NaleRaphael/blog/scanner"
	"github.com/NaleRaphael/blog/util"
)

// Version is overridden at build time.
var Version = "master"

// Extra arguments, split with shell quoting rules, placed before the command line.
const flagsEnvVar = "FWSPACE_FLAGS"

const help = `Report files containing full-width spaces (U+3000).

Only the immediate entries of each directory are checked. Exit status is 0 for a
clean run, 1 if an argument is invalid, otherwise a combination of 2 (full-width
spaces found) and 4 (some entries could not be checked).

Extra arguments may be supplied in $` + flagsEnvVar + `.`

// Values from the command line. Zero values mean "not given".
type options struct {
	directories []string
	inputs      []string
	format      string
	configFile  string
	output      string
	template    string
	concurrency int
	deadline    time.Duration
	exclude     []string
	sort        []string
	debug       bool
	color       bool
}

func setupFlags(app *kingpin.Application, opts *options) {
	app.Flag("directory", "Directory to be explored. Accepts a comma-separated list and may be repeated.").
		Short('d').PlaceHolder("DIR,...").StringsVar(&opts.directories)
	app.Flag("input", "Input file to check regardless of --format. Accepts a comma-separated list and may be repeated.").
		Short('i').PlaceHolder("FILE,...").StringsVar(&opts.inputs)
	app.Flag("format", fmt.Sprintf("File extension of entries to check, %q for every entry (default %q).", scanner.AnyFormat, config.DefaultFormat)).
		Short('f').PlaceHolder("EXT").StringVar(&opts.format)
	app.Flag("config", fmt.Sprintf("Load configuration from TOML file (default: nearest %s).", config.DefaultFileName)).
		Short('c').PlaceHolder("FILE").StringVar(&opts.configFile)
	app.Flag("output", fmt.Sprintf("Output format (%s).", strings.Join(config.OutputFormats, ", "))).
		Short('o').EnumVar(&opts.output, config.OutputFormats...)
	app.Flag("template", "Template for text output lines.").
		PlaceHolder(config.DefaultTemplate).StringVar(&opts.template)
	app.Flag("concurrency", "Number of files read concurrently (default: number of CPUs).").
		Short('j').IntVar(&opts.concurrency)
	app.Flag("deadline", "Abandon files not read within this duration (default 30s).").
		DurationVar(&opts.deadline)
	app.Flag("exclude", "Skip entries whose absolute path matches these regular expressions.").
		Short('e').PlaceHolder("REGEXP").StringsVar(&opts.exclude)
	app.Flag("sort", fmt.Sprintf("Sort output by any of %s.", strings.Join(api.SortKeys, ", "))).
		EnumsVar(&opts.sort, api.SortKeys...)
	app.Flag("debug", "Display debug messages.").BoolVar(&opts.debug)
	app.Flag("color", "Colorize warnings.").BoolVar(&opts.color)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// nolint: gocyclo
func run(args []string, stdout, stderr io.Writer) int {
	opts := &options{}
	app := kingpin.New("check-fullwidth-spaces", help)
	app.Version(Version)
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	exited := -1
	app.Terminate(func(status int) {
		if exited < 0 {
			exited = status
		}
	})
	setupFlags(app, opts)

	extra, err := shlex.Split(os.Getenv(flagsEnvVar))
	if err != nil {
		app.Errorf("invalid $%s: %s", flagsEnvVar, err)
		return api.StatusInvalid
	}
	_, err = app.Parse(append(extra, args...))
	if exited >= 0 {
		return exited
	}
	if err != nil {
		app.Errorf("%s, try --help", err)
		return api.StatusInvalid
	}

	util.SetOutput(stderr)
	util.Debugging(opts.debug)
	conf, err := loadConfig(opts.configFile)
	if err != nil {
		app.Errorf("%s", err)
		return api.StatusInvalid
	}
	if err := applyFlags(conf, opts); err != nil {
		app.Errorf("%s", err)
		return api.StatusInvalid
	}
	util.Debugging(conf.Debug)
	util.Colorize(conf.Color)
	if len(conf.Directories) == 0 && len(conf.Inputs) == 0 {
		app.Errorf("no directories or input files given, try --help")
		return api.StatusInvalid
	}

	fs := osfs.Default
	req, invalid := scanner.NewRequest(fs, conf.Directories, conf.Inputs, conf.Format)
	if len(invalid) > 0 {
		for _, err := range invalid {
			util.Notice("%s", err)
		}
		return api.StatusInvalid
	}

	ctx := context.Background()
	if conf.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(conf.Deadline))
		defer cancel()
	}
	start := time.Now()
	result := scanner.New(fs,
		scanner.Concurrency(conf.Concurrency),
		scanner.Exclude(excludePattern(conf.Exclude)),
	).Scan(ctx, req)
	util.Debug("checked %d entries in %s", result.Checked, time.Since(start))

	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].Path < result.Errors[j].Path })
	for _, err := range result.Errors {
		util.Warning("%s", err)
	}

	order := conf.Sort
	// Checkstyle groups findings per file.
	if conf.Output == config.OutputCheckstyle {
		order = []string{"path"}
	}
	api.Sort(result.Findings, order)
	if err := outputFindings(stdout, conf, result.Findings); err != nil {
		app.Errorf("failed to write output: %s", err)
		return api.StatusInvalid
	}
	return result.Status()
}

func outputFindings(w io.Writer, conf *config.Config, findings []*api.Finding) error {
	switch conf.Output {
	case config.OutputJSON:
		return output.JSON(w, findings)
	case config.OutputCheckstyle:
		return output.Checkstyle(w, findings)
	default:
		return output.Text(w, conf.Template.Template, findings)
	}
}

func loadConfig(filename string) (*config.Config, error) {
	if filename == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		var found bool
		filename, found, err = config.Find(wd)
		if err != nil {
			return nil, err
		}
		if !found {
			return config.Default(), nil
		}
	}
	util.Debug("loading configuration from %s", filename)
	return config.ReadFile(filename)
}

// applyFlags overrides conf with every option given on the command line.
func applyFlags(conf *config.Config, opts *options) error {
	if dirs := splitList(opts.directories); len(dirs) > 0 {
		conf.Directories = dirs
	}
	if inputs := splitList(opts.inputs); len(inputs) > 0 {
		conf.Inputs = inputs
	}
	if opts.format != "" {
		conf.Format = opts.format
	}
	if opts.output != "" {
		if err := conf.Output.UnmarshalText([]byte(opts.output)); err != nil {
			return err
		}
	}
	if opts.template != "" {
		tmpl := &config.Template{}
		if err := tmpl.UnmarshalText([]byte(opts.template)); err != nil {
			return fmt.Errorf("invalid --template: %w", err)
		}
		conf.Template = tmpl
	}
	if opts.concurrency != 0 {
		conf.Concurrency = opts.concurrency
	}
	if opts.deadline != 0 {
		conf.Deadline = config.Duration(opts.deadline)
	}
	if len(opts.exclude) > 0 {
		conf.Exclude = nil
		for _, pattern := range opts.exclude {
			re := config.Regexp{}
			if err := re.UnmarshalText([]byte(pattern)); err != nil {
				return fmt.Errorf("invalid --exclude %q: %w", pattern, err)
			}
			conf.Exclude = append(conf.Exclude, re)
		}
	}
	if len(opts.sort) > 0 {
		conf.Sort = opts.sort
	}
	conf.Debug = conf.Debug || opts.debug
	conf.Color = conf.Color || opts.color
	return conf.Validate()
}

// splitList splits comma-separated values, dropping blanks and duplicates.
func splitList(values []string) []string {
	items := lo.FlatMap(values, func(value string, _ int) []string {
		return strings.Split(value, ",")
	})
	items = lo.Map(items, func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
	items = lo.Filter(items, func(item string, _ int) bool {
		return item != ""
	})
	return lo.Uniq(items)
}

func excludePattern(excludes []config.Regexp) *regexp.Regexp {
	if len(excludes) == 0 {
		return nil
	}
	patterns := make([]string, 0, len(excludes))
	for _, e := range excludes {
		patterns = append(patterns, "(?:"+e.String()+")")
	}
	return regexp.MustCompile(strings.Join(patterns, "|"))
}
