// Copyright 2026 Kodeks Bilisim
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kodeks/mevzu"
	"github.com/kodeks/mevzu/core"
	"github.com/kodeks/mevzu/embed"
	"github.com/kodeks/mevzu/query"
	"github.com/kodeks/mevzu/search"
)

func main() {
	app := &cli.App{
		Name:  "mevzu",
		Usage: "Hybrid search over Turkish legislation corpora",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "index",
				Usage:     "Index article text files as one document",
				ArgsUsage: "FILE...",
				Action:    indexCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "doc",
						Usage:    "Document identifier (e.g. law number)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Document type (KANUN, TUZUK, YONETMELIK, GENELGE, KARARNAME, TEBLIG)",
						Value: "KANUN",
					},
					&cli.BoolFlag{
						Name:  "rebuild",
						Usage: "Rebuild the semantic vocabulary after indexing",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search the indexed corpus",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Query mode (comprehensive, exact, phrase, simple)",
						Value: "comprehensive",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum fused score",
					},
					&cli.StringSliceFlag{
						Name:  "doc-type",
						Usage: "Restrict to document types",
					},
					&cli.BoolFlag{
						Name:  "include-repealed",
						Usage: "Include repealed articles",
					},
				),
			},
			{
				Name:      "suggest",
				Usage:     "Suggest indexed terms for a prefix",
				ArgsUsage: "PREFIX",
				Action:    suggestCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of suggestions",
						Value:   10,
					},
				),
			},
			{
				Name:   "rebuild",
				Usage:  "Rebuild both indexes from the stored article set",
				Action: rebuildCommand,
				Flags:  storeFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "OpenAI-compatible embedding service host URL (omit for built-in TF-IDF vectors)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
	}
}

func openEngine(c *cli.Context) (*mevzu.Engine, error) {
	opts := []mevzu.EngineOption{}
	if host := c.String("embedding-host"); host != "" {
		if c.String("embedding-model") == "" {
			return nil, fmt.Errorf("embedding-model is required with embedding-host")
		}
		opts = append(opts, mevzu.WithEmbedder(embed.NewConfig(
			embed.WithHost(host),
			embed.WithModel(c.String("embedding-model")),
		)))
	}
	return mevzu.NewEngine(c.String("db"), opts...)
}

func indexCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one article file is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	doc := mevzu.Document{
		ID:   c.String("doc"),
		Type: strings.ToUpper(c.String("type")),
	}
	for _, path := range c.Args().Slice() {
		text, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		doc.Articles = append(doc.Articles, mevzu.DocumentArticle{
			No:   articleNoFromPath(path),
			Text: string(text),
		})
	}

	ctx := context.Background()
	if err := engine.IndexDocument(ctx, doc); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	if c.Bool("rebuild") {
		if err := engine.RebuildIndex(ctx); err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
	} else if err := engine.Flush(ctx); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d articles of document %s\n", len(doc.Articles), doc.ID)
	return nil
}

// articleNoFromPath derives the article number from the file name:
// "madde-7.txt" and "7.txt" both yield "7".
func articleNoFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimPrefix(base, "madde-")
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("query text is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	opts := &search.Options{
		Mode:     query.ParseMode(c.String("mode")),
		Limit:    c.Int("limit"),
		MinScore: c.Float64("min-score"),
		Filters: search.Filters{
			DocumentTypes:   c.StringSlice("doc-type"),
			IncludeRepealed: c.Bool("include-repealed"),
		},
	}

	results, err := engine.Search(context.Background(), strings.Join(c.Args().Slice(), " "), opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s madde %s (%s) [fused %.3f lex %.3f sem %.3f]\n",
			i+1, hit.DocumentID, hit.ArticleNo, hit.Match, hit.FusedScore, hit.LexicalScore, hit.SemanticScore)
		fmt.Printf("   %s\n", excerpt(hit))
	}
	return nil
}

// excerpt renders the article around its first highlight, with the
// matched spans bracketed.
func excerpt(hit *core.SearchResult) string {
	raw := hit.ContentRaw
	if len(hit.Highlights) == 0 {
		if len(raw) > 120 {
			return raw[:120] + "..."
		}
		return raw
	}

	var b strings.Builder
	last := 0
	for _, span := range hit.Highlights {
		b.WriteString(raw[last:span.Start])
		b.WriteString("[")
		b.WriteString(raw[span.Start:span.End])
		b.WriteString("]")
		last = span.End
	}
	b.WriteString(raw[last:])
	return b.String()
}

func suggestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("prefix is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	for _, term := range engine.Suggestions(c.Args().First(), c.Int("limit")) {
		fmt.Println(term)
	}
	return nil
}

func rebuildCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open engine: %w", err)
	}
	defer engine.Close()

	if err := engine.RebuildIndex(context.Background()); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Rebuild complete")
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
