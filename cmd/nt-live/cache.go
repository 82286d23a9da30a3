package main

import (
	"fmt"
	"os"

	"github.com/julien-sobczak/the-notewriter-live/internal/config"
	"github.com/julien-sobczak/the-notewriter-live/internal/medias"
	"github.com/julien-sobczak/the-notewriter-live/pkg/filesystem"
	"github.com/spf13/cobra"
)

var purge bool

func init() {
	cacheCmd.Flags().BoolVarP(&purge, "purge", "", false, "Remove all thumbnails")
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache [DIR]",
	Short: "Show thumbnails cache",
	Long:  `Show the disk space used by thumbnails.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		cfg, err := config.ReadConfigFromDirectory(dir)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		cache := medias.NewCache(cfg.CacheDirectory(), nil, cfg.ConfigFile.Medias.MaxImageWidth, cfg.RemoteTTL())

		if purge {
			if err := cache.Purge(); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			fmt.Printf("Purged %s\n", cache.Dir())
			return
		}

		size, err := cache.Size()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		count := 0
		if size > 0 {
			files, err := filesystem.ListFiles(cache.Dir())
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			count = len(files)
		}
		fmt.Printf("%s: %d thumbnail(s), %s\n", cache.Dir(), count, filesystem.HumanSize(size))
	},
}
