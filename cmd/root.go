package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imgtoss",
	Short: "Upload images from markdown documents to cloud object storage",
	Long: `imgtoss uploads local images to cloud object storage and rewrites
markdown documents to reference the uploaded URLs.

Supported providers: aliyun_oss, tencent_cos, aws_s3, minio, webdav.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
