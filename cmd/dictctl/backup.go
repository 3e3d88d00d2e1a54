package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varnamer/api/internal/backup"
)

var (
	backupOut    string
	backupDryRun bool
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a JSON snapshot of the dictionary and activity tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := backup.Collect(cmd.Context(), DB, time.Now())
		if err != nil {
			return err
		}

		counts := snapshot.Metadata.Counts
		fmt.Printf("🔍 Snapshot %s\n", snapshot.Metadata.ID)
		fmt.Printf("   variableMappings: %d\n", counts.VariableMappings)
		fmt.Printf("   searchHistory   : %d\n", counts.SearchHistory)
		fmt.Printf("   ragSuggestions  : %d\n", counts.RagSuggestions)
		fmt.Printf("   userActivities  : %d\n", counts.UserActivities)
		fmt.Printf("   dailyStats      : %d\n", counts.DailyStats)

		if backupDryRun {
			encoded, err := snapshot.Encode()
			if err != nil {
				return err
			}
			fmt.Printf("[DRY-RUN] %s MB would be written\n", backup.SizeInMB(len(encoded)))
			return nil
		}

		path, size, err := snapshot.WriteFile(viper.GetString("backup.dir"))
		if err != nil {
			return err
		}
		fmt.Printf("✅ Backup written to %s (%s MB)\n", path, backup.SizeInMB(size))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVar(&backupOut, "out", "", "Directory to write the snapshot into (default backups, or BACKUP_DIR)")
	backupCmd.Flags().BoolVar(&backupDryRun, "dry-run", false, "Collect and size the snapshot without writing it")

	viper.BindPFlag("backup.dir", backupCmd.Flags().Lookup("out"))
	viper.SetDefault("backup.dir", "backups")
}
