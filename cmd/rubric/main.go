// Command rubric benchmarks a set of language models against a fixed task
// set, drives a blind scoring session over the collected outputs, and
// renders the aggregated leaderboard.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ahrav/go-rubric/infrastructure/llm"
	"github.com/ahrav/go-rubric/infrastructure/storage"
	"github.com/ahrav/go-rubric/internal/application"
	"github.com/ahrav/go-rubric/internal/domain"
	"github.com/ahrav/go-rubric/internal/leaderboard"
	"github.com/ahrav/go-rubric/internal/orchestrator"
	"github.com/ahrav/go-rubric/internal/ports"
	"github.com/ahrav/go-rubric/internal/scoring"
	"github.com/ahrav/go-rubric/internal/tasks"
	"github.com/ahrav/go-rubric/internal/verify"
)

var rootCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Blind benchmarking and scoring for language models",
	Long: `rubric runs a fixed task set against a configured set of models,
stores one output artifact per (model, task) pair, and drives a blind
scoring session where model identities stay hidden until every output
for a task has been rated. Scores accumulate in an append-only store
and roll up into a per-model leaderboard.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initEnv)
	rootCmd.PersistentFlags().StringP("config", "c", "rubric.yaml", "benchmark config file")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(runCmd(), verifyCmd(), scoreCmd(), leaderboardCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initEnv() {
	viper.SetEnvPrefix("RUBRIC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// loadConfig reads the config file named by the persistent flag.
func loadConfig() (*application.Config, error) {
	return application.Load(viper.GetString("config"))
}

// apiKey resolves a provider's API key from RUBRIC_<PROVIDER>_API_KEY.
func apiKey(provider string) string {
	return viper.GetString(provider + "-api-key")
}

// buildTransport assembles the completion transport from config: either a
// single gateway client or one native client per vendor in the model set.
func buildTransport(cfg *application.Config, specs []domain.ModelSpec) (ports.CompletionClient, error) {
	base := llm.ClientConfig{
		AttemptTimeout:    cfg.Run.AttemptTimeout,
		Retry:             cfg.Run.Retry,
		RequestsPerSecond: cfg.Run.RequestsPerSecond,
		Burst:             cfg.Run.Burst,
	}

	if cfg.Gateway != "none" {
		clientCfg := base
		clientCfg.APIKey = apiKey(cfg.Gateway)
		client, err := llm.NewClient(cfg.Gateway, clientCfg)
		if err != nil {
			return nil, err
		}
		return llm.NewGatewayRouter(client), nil
	}

	clients := make(map[string]*llm.Client)
	for _, spec := range specs {
		if _, ok := clients[spec.Vendor]; ok {
			continue
		}
		clientCfg := base
		clientCfg.APIKey = apiKey(spec.Vendor)
		client, err := llm.NewClient(spec.Vendor, clientCfg)
		if err != nil {
			return nil, fmt.Errorf("vendor %s: %w", spec.Vendor, err)
		}
		clients[spec.Vendor] = client
	}
	return llm.NewVendorRouter(clients), nil
}

// loadBench loads the pieces every command needs: config, model specs,
// task list, and the output store.
func loadBench(ctx context.Context) (*application.Config, []domain.ModelSpec, []domain.Task, *storage.FileOutputStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	specs, err := cfg.ModelSpecs()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	taskList, err := tasks.NewFileSource(cfg.Paths.Tasks).Load(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return cfg, specs, taskList, storage.NewFileOutputStore(cfg.Paths.Outputs), nil
}

func runCmd() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate outputs for every (model, task) pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, specs, taskList, outputs, err := loadBench(ctx)
			if err != nil {
				return err
			}
			transport, err := buildTransport(cfg, specs)
			if err != nil {
				return err
			}

			orch := orchestrator.New(transport, outputs, orchestrator.Config{
				Concurrency:    cfg.Run.Concurrency,
				Overwrite:      overwrite,
				Attempts:       cfg.Run.Retry.MaxAttempts,
				RequestOptions: cfg.RequestOptions(),
			}, newLogger())

			report, err := orch.Run(ctx, specs, taskList)
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Succeeded", "Failed", "Skipped", "Total"})
			tw.AppendRow(table.Row{report.Succeeded, report.Failed, report.Skipped, report.Total()})
			tw.Render()

			for _, pair := range report.FailedPairs {
				fmt.Printf("failed: %s\n", pair)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "re-generate pairs that already have outputs")
	return cmd
}

func verifyCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Audit output completeness and flag near-duplicate outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, specs, taskList, outputs, err := loadBench(ctx)
			if err != nil {
				return err
			}

			report, err := verify.Run(ctx, outputs, specs, taskList, threshold)
			if err != nil {
				return err
			}

			if len(report.NearDuplicates) > 0 {
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Task", "Model A", "Model B", "Similarity"})
				for _, dup := range report.NearDuplicates {
					tw.AppendRow(table.Row{dup.TaskID, dup.ModelA, dup.ModelB, fmt.Sprintf("%.3f", dup.Similarity)})
				}
				tw.Render()
			}

			if report.Complete() {
				fmt.Printf("all %d pairs have outputs\n", report.Pairs)
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Model", "Task", "Recorded Failure"})
			for _, missing := range report.Missing {
				kind := missing.FailureKind
				if kind == "" {
					kind = "never attempted"
				}
				tw.AppendRow(table.Row{missing.Model.ID(), missing.TaskID, kind})
			}
			tw.Render()
			return fmt.Errorf("%d of %d pairs missing outputs", len(report.Missing), report.Pairs)
		},
	}
	cmd.Flags().Float64Var(&threshold, "similarity-threshold", verify.DefaultSimilarityThreshold, "flag output pairs at or above this similarity")
	return cmd
}

func scoreCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Rate outputs blind, one task at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, specs, taskList, outputs, err := loadBench(ctx)
			if err != nil {
				return err
			}
			scores, err := storage.OpenScoreStore(cfg.Paths.ScoreDB)
			if err != nil {
				return err
			}
			defer scores.Close()

			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			session := scoring.NewSession(seed, specs, outputs, scores)
			fmt.Printf("session %s (seed %d)\n", session.ID(), seed)

			reader := bufio.NewReader(os.Stdin)
			for _, task := range taskList {
				if err := scoreTask(ctx, session, reader, task); err != nil {
					return err
				}
			}
			fmt.Println("all tasks scored")
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "session seed (reproduces the same blind layout)")
	return cmd
}

// scoreTask runs the interactive loop for one task: show the prompt and the
// blind slots, collect a quality and tone rating per slot, then reveal.
func scoreTask(ctx context.Context, session *scoring.Session, reader *bufio.Reader, task domain.Task) error {
	slots, err := session.BeginTask(ctx, task.ID)
	if errors.Is(err, domain.ErrNothingToScore) {
		fmt.Printf("\n== %s [%s]: no outputs, skipping\n", task.ID, task.Category)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("\n== %s [%s]\n%s\n", task.ID, task.Category, task.Prompt)
	if len(slots) < 2 {
		fmt.Println("note: only one output available; comparison is not blind-meaningful")
	}

	for _, slot := range slots {
		fmt.Printf("\n-- Model %s --\n%s\n", slot.Label, slot.Text)
		quality, err := promptRating(reader, fmt.Sprintf("quality for %s (1-5): ", slot.Label))
		if err != nil {
			return err
		}
		tone, err := promptRating(reader, fmt.Sprintf("tone fit for %s (1-5): ", slot.Label))
		if err != nil {
			return err
		}
		if err := session.RecordScore(ctx, task.ID, slot.Label, quality, tone); err != nil {
			return err
		}
	}

	mapping, err := session.Reveal(task.ID)
	if err != nil {
		return err
	}
	fmt.Println("\nreveal:")
	for _, slot := range slots {
		fmt.Printf("  %s = %s\n", slot.Label, mapping[slot.Label])
	}
	return nil
}

// promptRating reads a 1-5 integer from the rater, reprompting on bad input.
func promptRating(reader *bufio.Reader, prompt string) (int, error) {
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, fmt.Errorf("read rating: %w", err)
		}
		value, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && domain.ValidRating(value) {
			return value, nil
		}
		fmt.Println("enter a whole number from 1 to 5")
	}
}

func leaderboardCmd() *cobra.Command {
	var (
		csvPath  string
		category string
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show ranked per-model statistics from recorded scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			taskList, err := tasks.NewFileSource(cfg.Paths.Tasks).Load(ctx)
			if err != nil {
				return err
			}
			scores, err := storage.OpenScoreStore(cfg.Paths.ScoreDB)
			if err != nil {
				return err
			}
			defer scores.Close()

			records, err := scores.List(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("no scores recorded yet; run `rubric score` first")
				return nil
			}

			categoryByTask := make(map[string]domain.Category, len(taskList))
			for _, task := range taskList {
				categoryByTask[task.ID] = task.Category
			}
			overall, byCategory := leaderboard.Compute(records, categoryByTask)

			if category != "" {
				filtered := byCategory[:0]
				for _, row := range byCategory {
					if string(row.Category) == category {
						filtered = append(filtered, row)
					}
				}
				byCategory = filtered
			}

			renderRows("Overall", overall, false)
			renderRows("By Category", byCategory, true)

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("create csv: %w", err)
				}
				defer f.Close()
				if err := leaderboard.WriteCSV(f, append(append([]domain.LeaderboardRow{}, overall...), byCategory...)); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", csvPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write rows to a CSV file")
	cmd.Flags().StringVar(&category, "category", "", "filter the by-category table to one category")
	return cmd
}

// renderRows prints one leaderboard table.
func renderRows(title string, rows []domain.LeaderboardRow, withCategory bool) {
	if len(rows) == 0 {
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle(title)
	if withCategory {
		tw.AppendHeader(table.Row{"Category", "Model", "Mean Quality", "Mean Tone", "N"})
	} else {
		tw.AppendHeader(table.Row{"Model", "Mean Quality", "Mean Tone", "N"})
	}
	for _, row := range rows {
		quality := fmt.Sprintf("%.2f", row.MeanQuality)
		tone := fmt.Sprintf("%.2f", row.MeanTone)
		if withCategory {
			tw.AppendRow(table.Row{string(row.Category), row.Model, quality, tone, row.NScored})
		} else {
			tw.AppendRow(table.Row{row.Model, quality, tone, row.NScored})
		}
	}
	tw.Render()
}
