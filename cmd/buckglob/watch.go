package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/rjeczalik/notify"
	"github.com/spf13/cobra"
)

var (
	colorAdded   = color.New(color.FgGreen)
	colorRemoved = color.New(color.FgRed)
)

func init() {
	addQueryFlags(watchCmd.Flags())
}

var watchCmd = &cobra.Command{
	Use:           "watch [flags] pattern...",
	Short:         "Watch the tree and report match changes",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(_ *cobra.Command, args []string) error {
		base, err := resolveBase()
		if err != nil {
			return err
		}

		matches, err := newQuery(base, args).Glob()
		if err != nil {
			return err
		}
		sort.Strings(matches)
		for _, p := range matches {
			fmt.Println(p)
		}

		events := make(chan notify.EventInfo, 64)
		if err := notify.Watch(filepath.Join(base, "..."), events, notify.All); err != nil {
			return err
		}
		defer notify.Stop(events)

		for range events {
			// Coalesce whatever else is already queued before re-globbing.
			for {
				select {
				case <-events:
					continue
				default:
				}
				break
			}

			next, err := newQuery(base, args).Glob()
			if err != nil {
				return err
			}
			added, removed := diffMatches(matches, next)
			for _, p := range removed {
				fmt.Printf("%v %v\n", colorRemoved.Sprint("-"), p)
			}
			for _, p := range added {
				fmt.Printf("%v %v\n", colorAdded.Sprint("+"), p)
			}
			matches = next
		}
		return nil
	},
}

// diffMatches reports the paths present only in next and only in old. Both
// result slices are sorted.
func diffMatches(old, next []string) (added, removed []string) {
	was := make(map[string]struct{}, len(old))
	for _, p := range old {
		was[p] = struct{}{}
	}
	is := make(map[string]struct{}, len(next))
	for _, p := range next {
		is[p] = struct{}{}
		if _, ok := was[p]; !ok {
			added = append(added, p)
		}
	}
	for _, p := range old {
		if _, ok := is[p]; !ok {
			removed = append(removed, p)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}
