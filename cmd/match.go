package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/ai"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/ai/gemini"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/ai/openai"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/feedback"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/filtering"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/jobs"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/logger"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/match"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/rank"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/resume"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/secrets"
	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/sources"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptReview       = "Review matches"
	PromptExport       = "Export to CSV"
	PromptQuit         = "Quit"
	PromptBack         = "Back"
	PromptMarkRelevant = "Mark relevant"
	PromptMarkNot      = "Mark not relevant"
	PromptAssess       = "AI fit assessment"
	PromptShowDetails  = "Show details"

	defaultFeedbackDB = "feedback.db"
	defaultExportFile = "matches.csv"
	feedbackExamples  = 3
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Fetch postings, score them against the resume and review the ranking",
	Run: func(cmd *cobra.Command, _ []string) {
		runMatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("resume", "r", "", "path to the plain-text resume file")
	matchCmd.Flags().StringP("export", "e", "", "write the ranked matches to this CSV file and skip the prompt")

	viper.BindPFlag("resume", matchCmd.Flags().Lookup("resume"))
	viper.BindPFlag("export", matchCmd.Flags().Lookup("export"))
}

// runMatch is the main command for the cli.
func runMatch(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-hunt", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Resume == "" {
		logger.Fatal("resume file is required under the 'resume' key or the --resume flag")
	}

	resumeText, err := resume.Load(config.Resume)
	if err != nil {
		logger.Fatal("loading the resume", zap.Error(err))
	}

	dbPath := config.FeedbackDB
	if dbPath == "" {
		dbPath = defaultFeedbackDB
	}

	store, err := feedback.Open(dbPath)
	if err != nil {
		logger.Fatal("opening the feedback store", zap.Error(err), zap.String("path", dbPath))
	}
	defer store.Close()

	records := collectPostings(ctx, config, logger)
	if len(records) == 0 {
		logger.Info("exiting", zap.String("reason", "no postings fetched from any source"))
		return
	}

	records, err = filtering.Run(ctx, logger, []filtering.Filter{
		filtering.NewRelevance(config.Keywords),
	}, records)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if len(records) == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after keyword filtering"))
		return
	}

	embedder, err := newEmbedder(config.AI, logger)
	if err != nil {
		logger.Fatal("building the embedder", zap.Error(err))
	}

	matches, err := match.NewScorer(embedder, logger).Run(ctx, resumeText, records)
	if err != nil {
		logger.Fatal("scoring postings", zap.Error(err))
	}

	if len(matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no matches above the similarity threshold"))
		return
	}

	matches = rank.Sort(matches)
	printMatches(matches)

	if export := viper.GetString("export"); export != "" {
		if err := exportMatches(export, matches, logger); err != nil {
			logger.Fatal("exporting matches", zap.Error(err))
		}
		return
	}

	session := &reviewSession{
		ctx:        ctx,
		config:     config,
		logger:     logger,
		store:      store,
		resumeText: resumeText,
		matches:    matches,
	}

	for {
		mainPrompt := promptui.Select{
			Label: "What next?",
			Items: []string{PromptReview, PromptExport, PromptQuit},
		}

		_, action, err := mainPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := session.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

type reviewSession struct {
	ctx        context.Context
	config     *Config
	logger     *zap.Logger
	store      *feedback.Store
	resumeText string
	matches    []match.Match

	// assessor is built on first use; the command must work without AI
	// credentials as long as no assessment is requested.
	assessor *ai.Assessor
}

func (s *reviewSession) handleAction(action string) error {
	switch action {
	case PromptReview:
		return s.review()
	case PromptExport:
		return exportMatches(defaultExportFile, s.matches, s.logger)
	case PromptQuit:
		s.logger.Info("exiting", zap.String("reason", "got quit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *reviewSession) review() error {
	for {
		items := make([]string, 0, len(s.matches)+1)
		for _, m := range s.matches {
			items = append(items, fmt.Sprintf("%6.2f  %s / %s (%s)", m.Score, m.Title, m.Company, m.Source))
		}

		matchPrompt := promptui.Select{
			Label: "Choose a match and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, selected, err := matchPrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		if err := s.reviewMatch(s.matches[idx]); err != nil {
			return err
		}
	}
}

func (s *reviewSession) reviewMatch(m match.Match) error {
	actionPrompt := promptui.Select{
		Label: m.Title,
		Items: []string{PromptShowDetails, PromptMarkRelevant, PromptMarkNot, PromptAssess, PromptBack},
	}

	_, action, err := actionPrompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptShowDetails:
		printDetails(m)
		return nil
	case PromptMarkRelevant:
		return s.record(m, feedback.Liked)
	case PromptMarkNot:
		return s.record(m, feedback.Disliked)
	case PromptAssess:
		// assessment failures must not kill the review loop
		if err := s.assess(m); err != nil {
			s.logger.Warn("assessment failed", zap.String("title", m.Title), zap.Error(err))
		}
		return nil
	case PromptBack:
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *reviewSession) record(m match.Match, polarity feedback.Polarity) error {
	err := s.store.Record(s.ctx, feedback.Entry{
		JobTitle: m.Title,
		Company:  m.Company,
		Source:   m.Source,
		Location: m.Location,
		URL:      m.URL,
		EmbScore: m.Score,
		Polarity: polarity,
	})
	if err != nil {
		return fmt.Errorf("recording feedback: %w", err)
	}

	s.logger.Info("feedback recorded",
		zap.String("title", m.Title),
		zap.Int("polarity", int(polarity)),
	)
	return nil
}

func (s *reviewSession) assess(m match.Match) error {
	if s.assessor == nil {
		assessor, err := newAssessor(s.ctx, s.config.AI, s.logger)
		if err != nil {
			return fmt.Errorf("building the assessor: %w", err)
		}
		s.assessor = assessor
	}

	liked, disliked, err := s.store.RecentExamples(s.ctx, feedbackExamples)
	if err != nil {
		return fmt.Errorf("loading feedback examples: %w", err)
	}

	jobText := m.Description
	if jobs.CleanText(jobText) == "" {
		jobText = m.Snippet
	}

	assessment, err := s.assessor.Assess(s.ctx, s.resumeText, jobText, liked, disliked)
	if err != nil {
		return err
	}

	printAssessment(m, assessment)
	return nil
}

func printMatches(matches []match.Match) {
	fmt.Printf("\n%d matches above the similarity threshold:\n\n", len(matches))
	for i, m := range matches {
		fmt.Printf("%3d. %6.2f  %s / %s (%s)\n", i+1, m.Score, m.Title, m.Company, m.Source)
		if m.URL != "" {
			fmt.Printf("             %s\n", m.URL)
		}
	}
	fmt.Println()
}

func printDetails(m match.Match) {
	fmt.Printf("\n--- %s / %s ---\n", m.Title, m.Company)
	fmt.Printf("Source:   %s\n", m.Source)
	if m.Location != "" {
		fmt.Printf("Location: %s\n", m.Location)
	}
	if m.URL != "" {
		fmt.Printf("URL:      %s\n", m.URL)
	}
	fmt.Printf("Score:    %.2f\n", m.Score)
	fmt.Printf("Snippet:  %s\n\n", m.Snippet)
}

func printAssessment(m match.Match, assessment *ai.Assessment) {
	fmt.Printf("\n--- %s / %s ---\n", m.Title, m.Company)
	if assessment.Score != nil {
		fmt.Printf("Fit score: %.0f\n", *assessment.Score)
	} else {
		fmt.Println("Fit score: unavailable (model response was not parseable)")
	}
	fmt.Printf("Summary: %s\n", assessment.Summary)
	for _, s := range assessment.Strengths {
		fmt.Printf("  + %s\n", s)
	}
	for _, g := range assessment.Gaps {
		fmt.Printf("  - %s\n", g)
	}
	fmt.Println()
}

func exportMatches(path string, matches []match.Match, logger *zap.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := rank.WriteCSV(f, matches); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	logger.Info("exported matches",
		zap.String("filename", path),
		zap.Int("count", len(matches)),
	)
	return nil
}

func collectPostings(ctx context.Context, config *Config, logger *zap.Logger) []jobs.Record {
	limiter := sources.NewHostLimiter(1, 2)
	fetchers := buildFetchers(config.Sources, limiter)

	if len(fetchers) == 0 {
		logger.Warn("no sources configured")
		return nil
	}

	records, results := sources.Collect(ctx, fetchers, logger)

	for _, res := range results {
		if res.Err == nil {
			logger.Info("source fetched",
				zap.String("source", res.Source),
				zap.Int("jobs", len(res.Jobs)),
			)
		}
	}

	return records
}

func buildFetchers(cfg *SourcesConfig, limiter *sources.HostLimiter) []sources.Fetcher {
	if cfg == nil {
		return nil
	}

	var fetchers []sources.Fetcher

	if cfg.Arbeitnow != nil {
		fetchers = append(fetchers, sources.NewArbeitnow(
			cfg.Arbeitnow.Keywords,
			cfg.Arbeitnow.Countries,
			limiter,
		))
	}

	for _, feed := range cfg.RSS {
		if feed.URL == "" {
			continue
		}
		fetchers = append(fetchers, sources.NewRSS(feed.Name, feed.URL, limiter))
	}

	if cfg.EnglishJobs != nil && cfg.EnglishJobs.Keyword != "" {
		fetchers = append(fetchers, sources.NewEnglishJobs(cfg.EnglishJobs.Keyword, limiter))
	}

	return fetchers
}

func newEmbedder(cfg *AIConfig, logger *zap.Logger) (match.Embedder, error) {
	var (
		apiKey  string
		baseURL string
		model   string
	)

	if cfg != nil && cfg.OpenAI != nil {
		baseURL = cfg.OpenAI.BaseURL
		model = cfg.OpenAI.EmbeddingModel

		key, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: cfg.OpenAI.APIKeyFile,
			Env:  "OPENAI_API_KEY",
		})
		if err != nil {
			// local embedding services behind base-url run keyless
			logger.Debug("openai api key not resolved, continuing without it", zap.Error(err))
		}
		apiKey = key
	}

	return openai.NewEmbedder(apiKey, baseURL, model, logger)
}

func newAssessor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*ai.Assessor, error) {
	if cfg == nil {
		return nil, errors.New("ai configuration is required for assessments")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	var generator ai.Generator

	switch provider {
	case "", "openai":
		if cfg.OpenAI == nil {
			return nil, errors.New("openai configuration is required when provider is openai")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: cfg.OpenAI.APIKeyFile,
			Env:  "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		generator, err = openai.NewGenerator(apiKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
		if err != nil {
			return nil, err
		}
	case "gemini":
		if cfg.Gemini == nil {
			return nil, errors.New("gemini configuration is required when provider is gemini")
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		generator, err = gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	assessorLogger := logger.With(
		zap.String("provider", provider),
		zap.String("model", generator.Model()),
	)

	return ai.NewAssessor(generator, assessorLogger, cfg.MaxLogLength), nil
}
