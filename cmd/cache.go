package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/cache"
)

var cacheNamespace string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached scrapes, analyses and leads",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c, err := cache.Open(ctx, cfg.Cache)
		if err != nil {
			return eris.Wrap(err, "open cache")
		}
		defer func() {
			if err := c.Close(); err != nil {
				zap.L().Warn("close cache", zap.Error(err))
			}
		}()

		return clearCache(ctx, cmd.OutOrStdout(), c, cacheNamespace)
	},
}

// clearCache clears one namespace, or every namespace when ns is empty.
func clearCache(ctx context.Context, w io.Writer, c *cache.Cache, ns string) error {
	namespaces := cache.Namespaces()
	if ns != "" {
		if !slices.Contains(namespaces, ns) {
			return eris.Errorf("unknown namespace %q (want one of %s)", ns, strings.Join(namespaces, ", "))
		}
		namespaces = []string{ns}
	}

	total := 0
	for _, n := range namespaces {
		removed, err := c.Clear(ctx, n)
		if err != nil {
			return eris.Wrapf(err, "clear %s", n)
		}
		total += removed
		zap.L().Info("cache cleared", zap.String("namespace", n), zap.Int("removed", removed))
	}
	_, err := fmt.Fprintf(w, "removed %d cached entries\n", total)
	return err
}

func init() {
	cacheClearCmd.Flags().StringVar(&cacheNamespace, "namespace", "", "namespace to clear (default all)")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
