package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/corpus"
	"github.com/matsen/refcheck/internal/plagiarism"
)

var plagiarismCmd = &cobra.Command{
	Use:   "plagiarism",
	Short: "Plagiarism check commands",
	Long: `Commands for checking stored articles against similarity sources.

Checks compare an article against the local corpus and the Crossref
registry. A source failing mid-check degrades the result instead of
failing it: the report completes with whatever sources responded.`,
}

var plagiarismCheckCmd = &cobra.Command{
	Use:   "check <article-id>",
	Short: "Run a plagiarism check",
	Long: `Check a stored article against all configured similarity sources.

The finished report replaces any previous report for the article.

Examples:
  refcheck plagiarism check art-42
  refcheck plagiarism check art-42 --human`,
	Args: cobra.ExactArgs(1),
	Run:  runPlagiarismCheck,
}

var plagiarismReportCmd = &cobra.Command{
	Use:   "report <article-id>",
	Short: "Show the last plagiarism report",
	Long: `Retrieve the most recent report for an article without rechecking.

Examples:
  refcheck plagiarism report art-42 --human`,
	Args: cobra.ExactArgs(1),
	Run:  runPlagiarismReport,
}

func init() {
	plagiarismCmd.AddCommand(plagiarismCheckCmd)
	plagiarismCmd.AddCommand(plagiarismReportCmd)
	rootCmd.AddCommand(plagiarismCmd)
}

func runPlagiarismCheck(cmd *cobra.Command, args []string) {
	eng := mustOpenEngine()
	defer eng.Close()

	report, err := eng.CheckPlagiarism(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, corpus.ErrArticleNotFound) {
			exitWithError(ExitNotFound, "article %q not found in corpus", args[0])
		}
		exitWithError(ExitError, "checking plagiarism: %v", err)
	}

	if humanOutput {
		printReportHuman(report)
		return
	}
	outputJSON(report)
}

func runPlagiarismReport(cmd *cobra.Command, args []string) {
	eng := mustOpenEngine()
	defer eng.Close()

	report, err := eng.GetPlagiarismReport(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, plagiarism.ErrReportNotFound) {
			exitWithError(ExitNotFound, "no report for article %q, run 'refcheck plagiarism check %s' first", args[0], args[0])
		}
		exitWithError(ExitError, "loading report: %v", err)
	}

	if humanOutput {
		printReportHuman(report)
		return
	}
	outputJSON(report)
}

func printReportHuman(r plagiarism.Report) {
	outputHuman("Article: %s\n", r.ArticleID)
	outputHuman("Overall similarity: %.2f (%s, %s)\n", r.OverallSimilarity, r.Status, r.Service)
	outputHuman("Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	if len(r.Sources) == 0 {
		fmt.Println("\nNo sources above the similarity floor.")
		return
	}

	fmt.Printf("\nSources (%d):\n", len(r.Sources))
	for i, s := range r.Sources {
		fmt.Printf("%d. [%.2f] %s\n", i+1, s.Similarity, truncateString(s.Title, TitleMaxLen))
		if s.DOI != "" {
			fmt.Printf("   doi:%s\n", s.DOI)
		} else if s.URL != "" {
			fmt.Printf("   %s\n", s.URL)
		}
		fmt.Printf("   %d of %d words matched\n", s.MatchedWords, s.TotalWords)
	}

	if len(r.TextMatches) > 0 {
		fmt.Printf("\nText matches (%d):\n", len(r.TextMatches))
		for _, m := range r.TextMatches {
			fmt.Printf("  [%.2f] %q\n", m.Similarity, truncateString(m.MatchedText, TitleMaxLen))
		}
	}
}
