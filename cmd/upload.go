package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/voidovo/imgtoss-sub000/config"
	"github.com/voidovo/imgtoss-sub000/database"
	historyRepo "github.com/voidovo/imgtoss-sub000/database/repo/history"
	"github.com/voidovo/imgtoss-sub000/internal/history"
	"github.com/voidovo/imgtoss-sub000/internal/uploader"
	"github.com/voidovo/imgtoss-sub000/storage"
	"github.com/voidovo/imgtoss-sub000/utils/format"
)

// uploadCmd 上传本地图片文件
var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload image files to the configured storage",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profile, _ := cmd.Flags().GetString("profile")
		if err := runUpload(profile, args); err != nil {
			log.Fatalf("Upload failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringP("profile", "p", "", "storage profile name")
}

func runUpload(profile string, paths []string) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	svc, cfg, err := env.uploaderFor(profile)
	if err != nil {
		return err
	}

	items := make([]uploader.Item, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		items = append(items, uploader.Item{Key: filepath.Base(path), Data: data})
	}

	progress := func(p storage.UploadProgress) {
		fmt.Printf("  %s: %.0f%% (%s/%s)\n", p.Key, p.Progress,
			format.HumanReadableSize(p.BytesUploaded), format.HumanReadableSize(p.TotalBytes))
	}

	results := svc.UploadMany(context.Background(), items, progress)

	recordHistory(cfg, items, results, env)

	failed := 0
	for _, result := range results {
		if result.Success {
			fmt.Printf("OK    %s -> %s\n", result.Key, result.URL)
		} else {
			failed++
			fmt.Printf("FAIL  %s: %s\n", result.Key, result.Error)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(results))
	}
	return nil
}

// recordHistory 把结果写入本地历史库，失败只告警不中断
func recordHistory(cfg config.StorageConfig, items []uploader.Item, results []uploader.UploadResult, env *appEnv) {
	db, err := database.NewDB(env.cfg)
	if err != nil {
		log.Printf("Warning: history disabled, failed to open database: %v", err)
		return
	}
	svc := history.NewService(historyRepo.NewRepository(db), nil)
	svc.RecordResults(context.Background(), cfg, items, results)
}
