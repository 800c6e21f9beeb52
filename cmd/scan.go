package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/voidovo/imgtoss-sub000/internal/scanner"
	"github.com/voidovo/imgtoss-sub000/internal/uploader"
)

// scanCmd 扫描 markdown 文档中的本地图片引用
var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Scan markdown files for local image references",
	Long: `Scan markdown files for local image references.

With --upload the referenced images are uploaded to the configured
storage; with --replace the documents are rewritten to reference the
uploaded URLs (the originals are backed up with a .bak suffix).`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profile, _ := cmd.Flags().GetString("profile")
		upload, _ := cmd.Flags().GetBool("upload")
		replace, _ := cmd.Flags().GetBool("replace")
		if err := runScan(profile, upload, replace, args); err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("profile", "p", "", "storage profile name (required with --upload)")
	scanCmd.Flags().Bool("upload", false, "upload the referenced images")
	scanCmd.Flags().Bool("replace", false, "rewrite documents to use uploaded URLs (implies --upload)")
}

func runScan(profile string, upload, replace bool, paths []string) error {
	refs, errs := scanner.ScanFiles(paths)
	for _, err := range errs {
		log.Printf("Warning: %v", err)
	}

	if len(refs) == 0 {
		fmt.Println("No local image references found")
		return nil
	}

	for _, ref := range refs {
		fmt.Printf("%s:%d %s\n", ref.File, ref.Line, ref.Path)
	}

	if !upload && !replace {
		return nil
	}

	env, err := newAppEnv()
	if err != nil {
		return err
	}
	svc, cfg, err := env.uploaderFor(profile)
	if err != nil {
		return err
	}

	// 同一图片可能被多处引用，按绝对路径去重
	items := make([]uploader.Item, 0, len(refs))
	seen := make(map[string]string) // 绝对路径 -> 对象键
	for _, ref := range refs {
		abs := ref.AbsolutePath()
		if _, ok := seen[abs]; ok {
			continue
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			log.Printf("Warning: skipping %s: %v", abs, err)
			continue
		}
		key := filepath.Base(abs)
		seen[abs] = key
		items = append(items, uploader.Item{Key: key, Data: data})
	}

	results := svc.UploadMany(context.Background(), items, nil)
	recordHistory(cfg, items, results, env)

	uploaded := make(map[string]string) // 对象键 -> URL
	for _, result := range results {
		if result.Success {
			fmt.Printf("OK    %s -> %s\n", result.Key, result.URL)
			uploaded[result.Key] = result.URL
		} else {
			fmt.Printf("FAIL  %s: %s\n", result.Key, result.Error)
		}
	}

	if !replace {
		return nil
	}

	// 按文件聚合替换映射：原始引用路径 -> 上传后 URL
	byFile := make(map[string]map[string]string)
	for _, ref := range refs {
		key := seen[ref.AbsolutePath()]
		url, ok := uploaded[key]
		if !ok {
			continue
		}
		if byFile[ref.File] == nil {
			byFile[ref.File] = make(map[string]string)
		}
		byFile[ref.File][ref.Path] = url
	}

	for file, replacements := range byFile {
		n, err := scanner.ReplaceLinks(file, replacements)
		if err != nil {
			log.Printf("Warning: failed to rewrite %s: %v", file, err)
			continue
		}
		fmt.Printf("Rewrote %d reference(s) in %s\n", n, file)
	}
	return nil
}
