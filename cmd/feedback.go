package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/feedback"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Inspect the recorded relevance judgments",
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent judgments, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		listFeedback(cmd)
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.AddCommand(feedbackListCmd)

	feedbackListCmd.Flags().IntP("limit", "n", 10, "maximum judgments to show per polarity")
	feedbackListCmd.Flags().String("db", "", "path to the feedback database")
}

func listFeedback(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("feedback-db")
	}
	if dbPath == "" {
		dbPath = defaultFeedbackDB
	}

	limit, _ := cmd.Flags().GetInt("limit")

	store, err := feedback.Open(dbPath)
	if err != nil {
		logger.Fatal("opening the feedback store", zap.Error(err), zap.String("path", dbPath))
	}
	defer store.Close()

	ctx := context.Background()

	liked, err := store.Recent(ctx, feedback.Liked, limit)
	if err != nil {
		logger.Fatal("listing liked judgments", zap.Error(err))
	}

	disliked, err := store.Recent(ctx, feedback.Disliked, limit)
	if err != nil {
		logger.Fatal("listing disliked judgments", zap.Error(err))
	}

	printJudgments("Relevant", liked)
	printJudgments("Not relevant", disliked)
}

func printJudgments(label string, entries []string) {
	fmt.Printf("%s (%d):\n", label, len(entries))
	if len(entries) == 0 {
		fmt.Println("  (none)")
	}
	for _, entry := range entries {
		fmt.Printf("  %s\n", entry)
	}
	fmt.Println()
}
