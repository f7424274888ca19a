package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	bsfs "github.com/kecbigmt/mm-sub003/internal/blobstore/filesystem"
	"github.com/kecbigmt/mm-sub003/internal/config"
	"github.com/kecbigmt/mm-sub003/internal/index"
	isfs "github.com/kecbigmt/mm-sub003/internal/itemstore/filesystem"
)

// newInitCmd creates the init command. Unlike the other commands it does not
// go through the provider: there is no workspace to discover yet.
func newInitCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an mm workspace in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			wsDir := filepath.Join(cwd, config.WorkspaceDirName)
			if _, err := os.Stat(wsDir); err == nil {
				return fmt.Errorf("workspace already exists at %s", wsDir)
			}
			if err := os.MkdirAll(wsDir, 0755); err != nil {
				return err
			}

			cfgPath := filepath.Join(wsDir, config.ConfigFileName)
			if err := config.Save(cfgPath, config.Default()); err != nil {
				return err
			}

			blobs := bsfs.New(wsDir)
			if err := isfs.New(blobs).Init(ctx); err != nil {
				return err
			}

			// Publish an empty index so readers have something to read.
			rebuilder := index.NewRebuilder(blobs, index.SHA256Hasher{})
			if _, err := rebuilder.Rebuild(ctx, nil); err != nil {
				return err
			}

			out := provider.Out
			if out == nil {
				out = os.Stdout
			}
			fmt.Fprintf(out, "Initialized mm workspace at %s\n", wsDir)
			return nil
		},
	}
}
