package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/textlens/textlens/internal/analysis"
	"github.com/textlens/textlens/internal/logger"
	"github.com/textlens/textlens/internal/oracle/gemini"
	"github.com/textlens/textlens/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a document through the hierarchical pipeline",
	Long: "Analyze reads a document from the given file (or stdin), discovers its " +
		"analysis units, evaluates each unit, produces a holistic assessment and " +
		"prints the structured result as JSON.",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("profile", "p", "", "analysis profile: "+strings.Join(analysis.ProfileNames(), ", "))
	analyzeCmd.Flags().StringP("mode", "m", "", "analysis depth: full or quick")
	analyzeCmd.Flags().StringP("output", "o", "", "write the result JSON to this file instead of stdout")

	viper.BindPFlag("profile", analyzeCmd.Flags().Lookup("profile"))
	viper.BindPFlag("mode", analyzeCmd.Flags().Lookup("mode"))
	viper.BindPFlag("output", analyzeCmd.Flags().Lookup("output"))
}

// analyze is the main command for the cli.
func analyze(_ *cobra.Command, args []string) {
	ctx := context.Background()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		fatalSetup("creating a logger", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Info("starting textlens", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	profile, err := selectProfile(config.Profile)
	if err != nil {
		log.Fatal("selecting analysis profile", zap.Error(err))
	}

	mode, err := selectMode(config.Mode)
	if err != nil {
		log.Fatal("selecting analysis mode", zap.Error(err))
	}

	text, source, err := readDocument(args)
	if err != nil {
		log.Fatal("reading document", zap.Error(err))
	}

	doc, err := analysis.NewDocument(text, config.MinWords)
	if err != nil {
		if errors.Is(err, analysis.ErrDocumentTooShort) {
			log.Fatal("document rejected before analysis",
				zap.Error(err),
				zap.String("source", source),
				zap.String("hint", "provide a more detailed document or lower min-words"),
			)
		}
		log.Fatal("validating document", zap.Error(err))
	}

	log.Info("document accepted",
		zap.String("source", source),
		zap.String("profile", profile.Name),
		zap.String("mode", string(mode)),
		zap.Int("words", doc.WordCount()),
	)

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		log.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	oracleLogger := logger.WithOracleFields(log, "gemini", config.AI.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, oracleLogger)
	if err != nil {
		log.Fatal("building gemini generator", zap.Error(err))
	}

	orc := gemini.NewOracle(generator, oracleLogger, config.AI.Gemini.MaxLogLength)

	orchestrator := analysis.NewOrchestrator(orc, profile, analysis.Config{
		Timeout: config.AI.Timeout,
		Workers: config.AI.Workers,
		Mode:    mode,
	}, log)

	result, err := orchestrator.Analyze(ctx, doc)
	if err != nil {
		log.Fatal("analysis aborted", zap.Error(err))
	}

	log.Info("analysis finished",
		zap.Int("units", len(result.Units)),
		zap.Int("evaluations", len(result.Evaluations)),
		zap.Bool("empty", result.Empty()),
	)

	if err := writeResult(result, config.Output); err != nil {
		log.Fatal("writing result", zap.Error(err))
	}

	if config.Output != "" {
		log.Info("result written", zap.String("filename", config.Output))
	}
}

// selectProfile resolves the configured profile, falling back to an
// interactive prompt when none is set.
func selectProfile(name string) (analysis.Profile, error) {
	if strings.TrimSpace(name) == "" {
		prompt := promptui.Select{
			Label: "Choose an analysis profile",
			Items: analysis.ProfileNames(),
		}

		_, selected, err := prompt.Run()
		if err != nil {
			return analysis.Profile{}, err
		}
		name = selected
	}

	return analysis.ProfileByName(name)
}

// selectMode resolves the configured analysis mode, falling back to an
// interactive prompt when none is set.
func selectMode(name string) (analysis.Mode, error) {
	if strings.TrimSpace(name) == "" {
		prompt := promptui.Select{
			Label: "Choose an analysis mode",
			Items: []string{string(analysis.ModeFull), string(analysis.ModeQuick)},
		}

		_, selected, err := prompt.Run()
		if err != nil {
			return "", err
		}
		name = selected
	}

	return analysis.ParseMode(name)
}

func readDocument(args []string) (text, source string, err error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), args[0], nil
}

func writeResult(result *analysis.Result, output string) error {
	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if output == "" {
		fmt.Println(string(pretty))
		return nil
	}

	return os.WriteFile(output, append(pretty, '\n'), 0o644)
}

func fatalSetup(msg string, err error) {
	log.Fatalf("%s: %s", msg, err)
}
