package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"metricsreport/pkg/apperror"
	"metricsreport/pkg/cache"
	"metricsreport/pkg/logger"
)

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the parsed sheet cache",
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all cached sheets",
		Long: `purge removes every parsed sheet from the configured cache backend.
Only the redis backend outlives a single run.`,
		Args: cobra.NoArgs,
		RunE: runCachePurge,
	}

	cacheCmd.AddCommand(purgeCmd)
	return cacheCmd
}

func runCachePurge(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := setup(ctx, map[string]any{})
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.Cache.Enabled {
		return apperror.NewWithField(apperror.CodeInvalidArgument, "cache is disabled", "cache.enabled")
	}

	c, err := cache.New(cache.FromConfig(&a.cfg.Cache))
	if err != nil {
		return err
	}
	defer c.Close()

	deleted, err := c.DeleteByPattern(ctx, cache.SheetPattern)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to purge cache")
	}

	logger.Info("Cache purged", "driver", a.cfg.Cache.Driver, "deleted", deleted)
	fmt.Fprintf(cmd.OutOrStdout(), "purged %d cached sheets\n", deleted)
	return nil
}
