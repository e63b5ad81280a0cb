package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/veridex/veridex/internal/index"
)

var indexTimeout time.Duration

// indexCmd represents the index command group
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the local knowledge base index",
	Long: `Manage the local vector index that backs claim verification.

Documents added here are embedded and searched during the retrieval
stage. Web evidence discovered during verification is written back
to the same index.`,
}

var indexAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a document file to the knowledge base",
	Long: `Add splits a text file into paragraph-sized fragments, embeds
each fragment, and stores them in the local index.

Example:
  veridex index add facts/coffee.txt
  veridex index add notes.md --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexAdd,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	RunE:  runIndexStats,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexAddCmd)
	indexCmd.AddCommand(indexStatsCmd)

	indexAddCmd.Flags().DurationVar(&indexTimeout, "timeout", 2*time.Minute, "embedding timeout")
}

func runIndexAdd(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := resolveAPIKeys(cfg); err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	docs := splitDocuments(string(data), file)
	if len(docs) == 0 {
		return fmt.Errorf("no content found in %s", file)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: close index: %v\n", closeErr)
		}
	}()

	if verbose {
		fmt.Fprintf(os.Stderr, "Embedding %d fragments from %s...\n", len(docs), file)
	}

	if err := store.Add(ctx, docs); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}

	fmt.Printf("✓ Indexed %d fragments from %s\n", len(docs), file)
	return nil
}

func runIndexStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := resolveAPIKeys(cfg); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: close index: %v\n", closeErr)
		}
	}()

	count, err := store.Count()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}

	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Knowledge Base")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Path:       %s\n", cfg.Index.Path)
	fmt.Printf("  Documents:  %d\n", count)
	fmt.Println()

	return nil
}

// splitDocuments breaks file content into paragraph fragments.
// Blank-line-separated blocks become one document each; very short
// blocks are merged into the previous fragment.
func splitDocuments(content, source string) []index.Document {
	const minFragmentLen = 80

	blocks := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")
	var docs []index.Document
	for _, block := range blocks {
		text := strings.TrimSpace(block)
		if text == "" {
			continue
		}
		if len(docs) > 0 && len(text) < minFragmentLen {
			docs[len(docs)-1].Content += "\n\n" + text
			continue
		}
		docs = append(docs, index.Document{
			Content: text,
			Source:  source,
		})
	}
	return docs
}
