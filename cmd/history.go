package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/voidovo/imgtoss-sub000/database"
	historyRepo "github.com/voidovo/imgtoss-sub000/database/repo/history"
	"github.com/voidovo/imgtoss-sub000/internal/history"
	"github.com/voidovo/imgtoss-sub000/utils/format"
)

// historyCmd 查询上传历史
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent upload history",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		if err := runHistory(limit); err != nil {
			log.Fatalf("Failed to query history: %v", err)
		}
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Keep only the most recent upload records",
	Run: func(cmd *cobra.Command, args []string) {
		keep, _ := cmd.Flags().GetInt("keep")
		if err := runHistoryPrune(keep); err != nil {
			log.Fatalf("Failed to prune history: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyCmd.Flags().Int("limit", 20, "number of records to show")
	historyPruneCmd.Flags().Int("keep", 100, "number of records to keep")
}

func historyService() (*history.Service, error) {
	env, err := newAppEnv()
	if err != nil {
		return nil, err
	}
	db, err := database.NewDB(env.cfg)
	if err != nil {
		return nil, err
	}
	return history.NewService(historyRepo.NewRepository(db), nil), nil
}

func runHistory(limit int) error {
	svc, err := historyService()
	if err != nil {
		return err
	}

	page, err := svc.List(context.Background(), 0, limit)
	if err != nil {
		return err
	}
	if len(page.Records) == 0 {
		fmt.Println("No upload history")
		return nil
	}

	for _, record := range page.Records {
		status := "OK  "
		detail := record.URL
		if !record.Success {
			status = "FAIL"
			detail = record.Error
		}
		fmt.Printf("%s %s  %s  %s  %s\n", status,
			record.CreatedAt.Format("2006-01-02 15:04:05"),
			record.Key, format.HumanReadableSize(record.FileSize), detail)
	}
	fmt.Printf("%d of %d record(s)\n", len(page.Records), page.Total)
	return nil
}

func runHistoryPrune(keep int) error {
	svc, err := historyService()
	if err != nil {
		return err
	}
	if err := svc.Prune(context.Background(), keep); err != nil {
		return err
	}
	fmt.Printf("Pruned history, kept the most recent %d record(s)\n", keep)
	return nil
}
