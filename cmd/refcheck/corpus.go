package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/corpus"
)

var (
	corpusAddTitle    string
	corpusAddAbstract string
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Local article corpus commands",
	Long: `Commands for managing the local article corpus.

Stored articles are the subjects of plagiarism checks and the internal
candidate pool other articles are checked against.`,
}

var corpusAddCmd = &cobra.Command{
	Use:   "add <article-id> [content-file]",
	Short: "Add or replace an article",
	Long: `Store an article in the corpus. An existing article with the same ID
is replaced wholesale and its fingerprint recomputed.

Content is read from the named file, or stdin when omitted.

Examples:
  refcheck corpus add art-42 body.txt --title "Coastal erosion dynamics"
  cat body.txt | refcheck corpus add art-42 --title "..." --abstract "..."`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runCorpusAdd,
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored articles",
	Args:  cobra.NoArgs,
	Run:   runCorpusList,
}

var corpusGetCmd = &cobra.Command{
	Use:   "get <article-id>",
	Short: "Show one stored article",
	Args:  cobra.ExactArgs(1),
	Run:   runCorpusGet,
}

func init() {
	corpusAddCmd.Flags().StringVar(&corpusAddTitle, "title", "", "Article title")
	corpusAddCmd.Flags().StringVar(&corpusAddAbstract, "abstract", "", "Article abstract")
	corpusCmd.AddCommand(corpusAddCmd)
	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusGetCmd)
	rootCmd.AddCommand(corpusCmd)
}

// mustOpenCorpus opens the article store from configuration, exits on
// error. The caller is responsible for calling Close().
func mustOpenCorpus() *corpus.Store {
	cfg := mustLoadConfig()
	store, err := corpus.Open(cfg.DatabasePath)
	if err != nil {
		exitWithError(ExitError, "opening corpus: %v", err)
	}
	return store
}

func runCorpusAdd(cmd *cobra.Command, args []string) {
	content := readTextInput(args[1:])

	store := mustOpenCorpus()
	defer store.Close()

	art := corpus.Article{
		ID:       args[0],
		Title:    corpusAddTitle,
		Abstract: corpusAddAbstract,
		Content:  content,
	}
	if err := store.Put(context.Background(), art); err != nil {
		exitWithError(ExitDataError, "storing article: %v", err)
	}

	if humanOutput {
		outputHuman("Stored article %s\n", args[0])
		return
	}
	outputJSON(StatusResponse{Status: "stored", ArticleID: args[0]})
}

func runCorpusList(cmd *cobra.Command, args []string) {
	store := mustOpenCorpus()
	defer store.Close()

	articles, err := store.List(context.Background())
	if err != nil {
		exitWithError(ExitError, "listing corpus: %v", err)
	}

	if humanOutput {
		outputHuman("%d article(s) in corpus\n\n", len(articles))
		for _, a := range articles {
			title := a.Title
			if title == "" {
				title = "(no title)"
			}
			fmt.Printf("%s  %s\n", a.ID, truncateString(title, TitleMaxLen))
			fmt.Printf("  added %s\n", a.AddedAt.Format("2006-01-02"))
		}
		return
	}
	outputJSON(articles)
}

func runCorpusGet(cmd *cobra.Command, args []string) {
	store := mustOpenCorpus()
	defer store.Close()

	art, err := store.Article(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, corpus.ErrArticleNotFound) {
			exitWithError(ExitNotFound, "article %q not found in corpus", args[0])
		}
		exitWithError(ExitError, "loading article: %v", err)
	}

	if humanOutput {
		outputHuman("%s\n", art.ID)
		outputHuman("  Title: %s\n", art.Title)
		if art.Abstract != "" {
			outputHuman("  Abstract: %s\n", truncateString(art.Abstract, TitleMaxLen))
		}
		outputHuman("  Fingerprint: %s\n", art.Fingerprint)
		outputHuman("  Added: %s\n", art.AddedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(os.Stdout)
		fmt.Println(art.Content)
		return
	}
	outputJSON(art)
}
