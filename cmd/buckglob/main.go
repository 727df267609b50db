package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	fxs "github.com/pgavlin/fx/v2/slices"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/sugawarayuuta/sonnet"

	"github.com/fimars/buck/executor"
	"github.com/fimars/buck/glob"
)

var (
	version = "development"

	baseDir     string
	excludeDirs bool
	jobs        int
	jsonOut     bool
	showStats   bool
	pruneDirs   []string
)

var colorError = color.New(color.FgRed)

var rootCmd = &cobra.Command{
	Version:       version,
	Use:           "buckglob [flags] pattern...",
	Short:         "buckglob expands UNIX-style glob patterns against a directory tree.",
	Long: `Expand UNIX-style glob patterns against a directory tree.

Patterns are relative paths with '/' separators. '*' matches any run of
non-separator characters, '?' matches one such character, and '**' as a
whole segment matches zero or more intermediate path components.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(_ *cobra.Command, args []string) error {
		base, err := resolveBase()
		if err != nil {
			return err
		}

		start := time.Now()
		paths, err := newQuery(base, args).Glob()
		if err != nil {
			return err
		}
		sort.Strings(paths)

		if err := printMatches(base, paths); err != nil {
			return err
		}
		if showStats {
			fmt.Fprintf(os.Stderr, "%s matches in %v\n",
				humanize.Comma(int64(len(paths))), time.Since(start).Round(time.Millisecond))
		}
		return nil
	},
}

func addQueryFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&baseDir, "directory", "C", ".", "the base directory for the query")
	flags.BoolVar(&excludeDirs, "exclude-directories", false, "omit matched directories from the result")
	flags.IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "the number of concurrent filesystem operations (0 runs in-thread)")
	flags.StringSliceVar(&pruneDirs, "prune", nil, "directory names whose subtrees are skipped")
}

func init() {
	addQueryFlags(rootCmd.Flags())
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "write matches as JSON")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "report match counts and timing on stderr")

	rootCmd.AddCommand(watchCmd)
}

func resolveBase() (string, error) {
	base, err := homedir.Expand(baseDir)
	if err != nil {
		return "", err
	}
	return filepath.Abs(base)
}

func newQuery(base string, patterns []string) *glob.Builder {
	b := glob.ForPath(base).AddPatterns(patterns...).SetExcludeDirectories(excludeDirs)
	if len(pruneDirs) != 0 {
		b.SetPathFilter(func(dir string) bool {
			return !slices.Contains(pruneDirs, filepath.Base(dir))
		})
	}
	if jobs != 0 {
		b.SetExecutor(executor.NewPool(jobs))
	}
	return b
}

type matchDescription struct {
	Path string `json:"path"`
	Rel  string `json:"rel"`
}

func printMatches(base string, paths []string) error {
	if !jsonOut {
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	}

	descriptions := slices.Collect(fxs.Map(paths, func(p string) matchDescription {
		rel, err := filepath.Rel(base, p)
		if err != nil {
			rel = p
		}
		return matchDescription{Path: p, Rel: rel}
	}))

	enc := sonnet.NewEncoder(os.Stdout)
	enc.SetIndent("", "    ")
	return enc.Encode(descriptions)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", colorError.Sprint("error"), err)
		os.Exit(1)
	}
}
