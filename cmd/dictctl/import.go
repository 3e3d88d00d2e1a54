package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varnamer/api/internal/cache"
	"github.com/varnamer/api/internal/config"
	"github.com/varnamer/api/internal/importer"
	"github.com/varnamer/api/internal/store"
)

var clearExisting bool

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import dictionary rows from a CSV sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		rows, invalid, err := importer.ReadCSV(file)
		if err != nil {
			return err
		}
		fmt.Printf("📋 %d rows read from %s (%d skipped: missing korean/english)\n", len(rows), args[0], invalid)

		return runImport(cmd, rows)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the built-in sample mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, importer.SeedRows())
	},
}

func runImport(cmd *cobra.Command, rows []importer.Row) error {
	if clearExisting {
		log.Println("Clearing existing mappings...")
	}
	start := time.Now()

	opts := importer.Options{Clear: clearExisting}
	if redisCache := openTranslateCache(); redisCache != nil {
		defer redisCache.Close()
		opts.Cache = redisCache
	}

	uiprogress.Start()
	bar := uiprogress.AddBar(max(len(rows), 1)).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return "Importing: "
	})
	opts.Progress = func(done, total int) {
		bar.Set(done)
	}

	result, err := importer.Import(cmd.Context(), store.NewMappingStore(DB), rows, opts)

	uiprogress.Stop()

	if err != nil {
		return err
	}

	fmt.Println("\n📊 Import Report:")
	if result.Cleared > 0 {
		fmt.Printf("🗑️  Cleared : %d\n", result.Cleared)
	}
	fmt.Printf("✅ Inserted: %d\n", result.Inserted)
	fmt.Printf("⏭️  Skipped : %d (already present)\n", result.Skipped)
	fmt.Printf("❌ Failed  : %d\n", result.Failed)
	if result.Invalidated > 0 {
		fmt.Printf("🧹 Cached translations dropped: %d\n", result.Invalidated)
	}
	log.Printf("Import done in %s", time.Since(start))
	return nil
}

// openTranslateCache connects to the API's Redis so imports can drop stale
// translate responses. Returns nil when Redis is unreachable.
func openTranslateCache() *cache.RedisCache {
	url := viper.GetString("redis.url")
	if url == "" {
		url = config.Load().RedisURL
	}
	redisCache, err := cache.NewRedisCache(url)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis, translate cache not invalidated: %v", err)
		return nil
	}
	return redisCache
}

func init() {
	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(seedCmd)

	importCmd.Flags().BoolVar(&clearExisting, "clear", false, "Delete all existing mappings before importing")
	seedCmd.Flags().BoolVar(&clearExisting, "clear", false, "Delete all existing mappings before seeding")
}
