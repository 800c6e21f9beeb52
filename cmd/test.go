package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/voidovo/imgtoss-sub000/utils/format"
)

// testCmd 测试存储配置连通性
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connectivity of a storage profile",
	Run: func(cmd *cobra.Command, args []string) {
		profile, _ := cmd.Flags().GetString("profile")
		force, _ := cmd.Flags().GetBool("force")
		if err := runTest(profile, force); err != nil {
			log.Fatalf("Connection test failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().StringP("profile", "p", "", "storage profile name")
	testCmd.Flags().Bool("force", false, "skip the cached result and probe again")
}

func runTest(profile string, force bool) error {
	env, err := newAppEnv()
	if err != nil {
		return err
	}
	svc, cfg, err := env.uploaderFor(profile)
	if err != nil {
		return err
	}

	outcome := svc.ValidateAndTest(context.Background(), force)
	if outcome.Success {
		latency := "n/a"
		if outcome.LatencyMS != nil {
			latency = format.Latency(*outcome.LatencyMS)
		}
		fmt.Printf("OK    %s/%s reachable (%s)\n", cfg.Provider, cfg.Bucket, latency)
		return nil
	}
	return fmt.Errorf("%s/%s unreachable: %s", cfg.Provider, cfg.Bucket, outcome.Error)
}
