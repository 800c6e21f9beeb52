package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/voidovo/imgtoss-sub000/config"
)

// profileCmd 存储档案管理
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage storage profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved storage profiles",
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newAppEnv()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		names := env.store.List()
		if len(names) == 0 {
			fmt.Println("No profiles saved")
			return
		}
		for _, name := range names {
			cfg, err := env.store.Load(name)
			if err != nil {
				fmt.Printf("%s (unreadable: %v)\n", name, err)
				continue
			}
			fmt.Printf("%s\t%s\t%s\n", name, cfg.Provider, cfg.Bucket)
		}
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Create or update a storage profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newAppEnv()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}

		provider, _ := cmd.Flags().GetString("provider")
		endpoint, _ := cmd.Flags().GetString("endpoint")
		region, _ := cmd.Flags().GetString("region")
		bucket, _ := cmd.Flags().GetString("bucket")
		accessKeyID, _ := cmd.Flags().GetString("access-key-id")
		accessKeySecret, _ := cmd.Flags().GetString("access-key-secret")
		cdnDomain, _ := cmd.Flags().GetString("cdn-domain")

		cfg := config.StorageConfig{
			Provider:        config.Provider(provider),
			Endpoint:        endpoint,
			Region:          region,
			Bucket:          bucket,
			AccessKeyID:     accessKeyID,
			AccessKeySecret: accessKeySecret,
			CDNDomain:       cdnDomain,
		}
		if err := env.store.Save(args[0], cfg); err != nil {
			log.Fatalf("Failed to save profile: %v", err)
		}
		fmt.Printf("Profile %q saved\n", args[0])
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a storage profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newAppEnv()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		if err := env.store.Delete(args[0]); err != nil {
			log.Fatalf("Failed to delete profile: %v", err)
		}
		fmt.Printf("Profile %q deleted\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileDeleteCmd)

	profileSetCmd.Flags().String("provider", "", "storage provider (aliyun_oss, tencent_cos, aws_s3, minio, webdav)")
	profileSetCmd.Flags().String("endpoint", "", "service endpoint")
	profileSetCmd.Flags().String("region", "", "service region")
	profileSetCmd.Flags().String("bucket", "", "bucket name")
	profileSetCmd.Flags().String("access-key-id", "", "access key id")
	profileSetCmd.Flags().String("access-key-secret", "", "access key secret")
	profileSetCmd.Flags().String("cdn-domain", "", "CDN domain for object URLs")
}
