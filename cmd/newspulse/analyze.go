package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/NewsPulse/internal/engine"
	"github.com/IshaanNene/NewsPulse/internal/sentiment"
	"github.com/IshaanNene/NewsPulse/internal/speech"
	"github.com/IshaanNene/NewsPulse/internal/topics"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

var errNoAudio = errors.New("report has no audio")

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	var (
		format   string
		speak    bool
		audioOut string
	)

	cmd := &cobra.Command{
		Use:   "analyze [company]",
		Short: "Fetch and compare the latest news for a company",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, logCloser, err := loadConfig()
			if err != nil {
				return err
			}
			defer logCloser.Close()

			company := cfg.Server.DefaultCompany
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				company = strings.TrimSpace(args[0])
			}
			if speak || audioOut != "" {
				cfg.Speech.Enabled = true
			}

			eng, err := engine.NewFromConfig(cfg, logger, nil)
			if err != nil {
				return fmt.Errorf("create engine: %w", err)
			}
			defer eng.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := eng.Analyze(ctx, company)
			if err != nil {
				return fmt.Errorf("analyze %q (%s): %w", company, types.KindOf(err), err)
			}

			if audioOut != "" {
				if err := writeAudio(audioOut, report); err != nil {
					logger.Warn("audio not written", "path", audioOut, "error", err)
				} else {
					logger.Info("audio written", "path", audioOut)
				}
			}
			return writeReport(cmd.OutOrStdout(), report, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, text")
	cmd.Flags().BoolVar(&speak, "speech", false, "translate the verdict and synthesize speech")
	cmd.Flags().StringVar(&audioOut, "audio-out", "", "write the spoken verdict to this MP3 file (implies --speech)")
	return cmd
}

// compareCmd creates the "compare" subcommand.
func compareCmd() *cobra.Command {
	var (
		input  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Re-run the comparison over a saved news set or report",
		Long:  "Read a JSON news set (Company plus scored Articles) or a saved report and rebuild the comparison without touching the network.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, logCloser, err := loadConfig()
			if err != nil {
				return err
			}
			defer logCloser.Close()

			var in io.Reader = cmd.InOrStdin()
			source := "stdin"
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return &types.InputError{Source: input, Err: err}
				}
				defer f.Close()
				in, source = f, input
			}

			set, err := types.DecodeNewsSet(in, source)
			if err != nil {
				return err
			}

			eng, err := engine.NewOfflineFromConfig(cfg, logger, nil)
			if err != nil {
				return fmt.Errorf("create engine: %w", err)
			}
			defer eng.Close()

			report, err := eng.Compare(cmd.Context(), set)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report, format)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "news set JSON file (default stdin)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, text")
	return cmd
}

// scoreCmd creates the "score" subcommand.
func scoreCmd() *cobra.Command {
	var keywords int

	cmd := &cobra.Command{
		Use:   "score [text]",
		Short: "Score a piece of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			res := sentiment.Default().Analyze(text)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Polarity:  %.4f\n", res.Polarity)
			fmt.Fprintf(out, "Sentiment: %s\n", res.Label)
			fmt.Fprintf(out, "Topics:    %s\n", strings.Join(topics.Extract(text, keywords), ", "))
			return nil
		},
	}

	cmd.Flags().IntVarP(&keywords, "keywords", "k", topics.DefaultKeywords, "number of topics to extract")
	return cmd
}

// writeReport prints report as indented JSON or a human-readable summary.
func writeReport(w io.Writer, report *types.ComparativeReport, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "text":
		return writeText(w, report)
	default:
		return fmt.Errorf("unknown format %q (want json or text)", format)
	}
}

func writeText(w io.Writer, report *types.ComparativeReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", report.Company)
	for i, a := range report.Articles {
		fmt.Fprintf(&b, "%2d. [%s] %s\n", i+1, a.Sentiment, a.Title)
		if a.Summary != "" {
			fmt.Fprintf(&b, "    %s\n", a.Summary)
		}
		if len(a.Topics) > 0 {
			fmt.Fprintf(&b, "    topics: %s\n", strings.Join(a.Topics, ", "))
		}
	}

	cmp := report.Comparative
	b.WriteString("\nSentiment distribution:\n")
	for _, lc := range cmp.Distribution {
		fmt.Fprintf(&b, "  %-8s %d\n", lc.Label, lc.Count)
	}
	if len(cmp.CoverageDifferences) > 0 {
		b.WriteString("\nCoverage differences:\n")
		for _, d := range cmp.CoverageDifferences {
			fmt.Fprintf(&b, "  - %s\n    %s\n", d.Comparison, d.Impact)
		}
	}
	if len(cmp.TopicOverlap.Common) > 0 {
		fmt.Fprintf(&b, "\nCommon topics: %s\n", strings.Join(cmp.TopicOverlap.Common, ", "))
	}

	fmt.Fprintf(&b, "\n%s\n", report.FinalSentiment)
	if report.Translation != "" {
		fmt.Fprintf(&b, "%s\n", report.Translation)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeAudio decodes the report's embedded MP3 to path.
func writeAudio(path string, report *types.ComparativeReport) error {
	audio, ok, err := speech.DecodeDataURI(report.Audio)
	if !ok {
		return errNoAudio
	}
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}
	return os.WriteFile(path, audio, 0o644)
}
