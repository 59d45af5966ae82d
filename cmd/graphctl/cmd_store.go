package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/imprakashraghu/way-engine/infrastructure/di"
	"github.com/imprakashraghu/way-engine/infrastructure/persistence"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	storePath   string
	storeOutput string

	storeCmd = &cobra.Command{
		Use:   "store",
		Short: "Keep named graphs in a local embedded database",
	}
	storeSaveCmd = &cobra.Command{
		Use:   "save [name] [graph file]",
		Short: "Validate a graph file and save it under a name",
		Args:  cobra.ExactArgs(2),
		RunE:  runStoreSave,
	}
	storeLoadCmd = &cobra.Command{
		Use:   "load [name]",
		Short: "Write a stored graph to a file, or to stdout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runStoreLoad,
	}
	storeListCmd = &cobra.Command{
		Use:   "list",
		Short: "List stored graphs",
		Args:  cobra.NoArgs,
		RunE:  runStoreList,
	}
	storeDeleteCmd = &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored graph",
		Args:  cobra.ExactArgs(1),
		RunE:  runStoreDelete,
	}
)

func init() {
	storeCmd.PersistentFlags().StringVar(&storePath, "store", "", "database directory (overrides WAY_STORE_PATH)")
	storeLoadCmd.Flags().StringVarP(&storeOutput, "output", "o", "", "write the graph here (format from extension)")

	storeCmd.AddCommand(storeSaveCmd, storeLoadCmd, storeListCmd, storeDeleteCmd)
	rootCmd.AddCommand(storeCmd)
}

func openRepository() (*persistence.BadgerRepository, error) {
	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	path := cfg.StorePath
	if storePath != "" {
		path = storePath
	}
	return persistence.OpenBadgerRepository(persistence.BadgerConfig{
		Path:       path,
		SyncWrites: true,
		Logger:     logger,
	})
}

func runStoreSave(cmd *cobra.Command, args []string) error {
	g, violations := persistence.SafeReadFile(args[1])
	if len(violations) > 0 {
		return pkgerrors.NewValidationError(fmt.Sprintf("%s is not a valid graph: %s",
			args[1], strings.Join(violations, "; ")))
	}

	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Save(cmd.Context(), args[0], g); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d nodes, %d edges)\n", args[0], g.NodeCount(), g.EdgeCount())
	return nil
}

func runStoreLoad(cmd *cobra.Command, args []string) error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	g, err := repo.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if storeOutput != "" {
		return persistence.WriteFile(storeOutput, g)
	}

	data, err := persistence.Marshal(g, persistence.FormatJSON)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runStoreList(cmd *cobra.Command, args []string) error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	infos, err := repo.List(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, info := range infos {
		fmt.Fprintf(out, "%-24s %4d nodes %4d edges  %s\n",
			info.Name, info.Nodes, info.Edges, info.SavedAt.Format(time.RFC3339))
	}
	return nil
}

func runStoreDelete(cmd *cobra.Command, args []string) error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
