package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/julianarmendano-prog/transfermatch/internal/engine"
	"github.com/julianarmendano-prog/transfermatch/internal/logger"
)

const (
	PromptShowExplanations = "Show explanations"
	PromptDumpToFile       = "Dump result to file"
	PromptExit             = "Exit"
)

var errExit = errors.New("exit requested")

var resultPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowExplanations, PromptDumpToFile, PromptExit},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Produce ranked transfer recommendations for a seeker profile",
	Run: func(cmd *cobra.Command, _ []string) {
		recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("seeker", "s", "", "seeker profile id (required)")
	recommendCmd.Flags().IntP("limit", "l", 5, "maximum number of matches to return")
	recommendCmd.Flags().Bool("with-ai", false, "augment the ranking with the external AI scorer")
	recommendCmd.Flags().BoolP("auto-approve", "y", false, "print the result and exit without the interactive prompt")

	if err := recommendCmd.MarkFlagRequired("seeker"); err != nil {
		log.Fatalf("marking seeker flag required: %v", err)
	}
}

func recommend(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting transfermatch", zap.String("version", version))

	recommender, err := buildRecommender(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the recommendation engine", zap.Error(err))
	}

	seekerID, _ := cmd.Flags().GetString("seeker")
	limit, _ := cmd.Flags().GetInt("limit")
	withAI, _ := cmd.Flags().GetBool("with-ai")

	result, err := recommender.Recommend(ctx, seekerID, engine.Options{
		Limit:              limit,
		UseExternalScoring: withAI,
	})
	if err != nil {
		logger.Fatal("recommendation failed", zap.Error(err))
	}

	if len(result.Matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no compatible candidates found"))
		return
	}

	printMatches(result)

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		return
	}

	for {
		_, action, err := resultPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, result, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, result *engine.RecommendationResult, logger *zap.Logger) error {
	switch action {
	case PromptShowExplanations:
		for i, match := range result.Matches {
			fmt.Printf("%d. %s (%s): %s\n", i+1, match.Profile.ID, matchLabel(match), match.Explanation)
		}
		return nil
	case PromptDumpToFile:
		filename, err := dumpToTmpFile(result)
		if err != nil {
			return fmt.Errorf("dump result to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printMatches(result *engine.RecommendationResult) {
	fmt.Printf("recommendations for %s (request %s):\n", result.SeekerID, result.RequestID)
	for i, match := range result.Matches {
		name := match.Profile.Name
		if name == "" {
			name = match.Profile.ID
		}
		fmt.Printf("%d. %s / %s / score %.3f (%s)\n",
			i+1, name, match.Profile.Role, match.Combined, matchLabel(match),
		)
	}
}

func matchLabel(match *engine.Match) string {
	if match.AIAssisted {
		return "ai-assisted"
	}
	return "deterministic-only"
}

func dumpToTmpFile(result *engine.RecommendationResult) (string, error) {
	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp("", app+"-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.Write(pretty); err != nil {
		return "", err
	}

	return file.Name(), nil
}
