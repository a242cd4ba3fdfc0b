package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/enzokro/chaski/scraper"
	"github.com/enzokro/chaski/utils/progressbar"
	"github.com/spf13/cobra"
)

const (
	linksFile      = "links.json"
	validLinksFile = "valid_links.json"
	contentDir     = "content"
	barWidth       = 40
)

// NewCrawlCmd creates the crawl command
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl a website and extract the text of its pages",
		Long: `Crawl recursively finds all links of a website which begin with the crawl
domain, waiting a fixed delay before visiting each new page. The links found
are written to links.json. Unless --no-validate is given, the links which
respond with 200 OK are then written to valid_links.json. Finally the text of
the main article, <article role="main">, of each page is extracted, cleaned,
and written to content/<page>.txt.

Examples:
  # Crawl a documentation site
  chaski crawl https://diataxis.fr/ --out ./diataxis

  # Restrict the crawl to part of a site
  chaski crawl https://diataxis.fr/tutorials/ --domain https://diataxis.fr/

  # Use a YAML configuration file
  chaski crawl -c crawl.yaml

Configuration file example:
  start_url: https://diataxis.fr/
  domain: https://diataxis.fr/
  delay: 1s
  max_pages: 200
  timeout: 30s
  output_dir: ./diataxis
  validate: true`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	defaults := scraper.DefaultConfig()

	cmd.Flags().StringP("domain", "d", "",
		"Only follow links beginning with this prefix (default: the start URL)")
	cmd.Flags().Duration("delay", defaults.Delay,
		"Time to wait before visiting each new page")
	cmd.Flags().IntP("max-pages", "p", defaults.MaxPages,
		"Maximum number of pages to visit, 0 for no limit")
	cmd.Flags().String("user-agent", defaults.UserAgent,
		"User-Agent header sent with each request")
	cmd.Flags().DurationP("timeout", "t", defaults.Timeout,
		"Time limit of each request, 0 for no limit")
	cmd.Flags().StringP("out", "o", defaults.OutputDir,
		"Directory to write links and extracted content to")
	cmd.Flags().StringP("config", "c", "", "YAML crawl configuration file")
	cmd.Flags().Bool("no-validate", false,
		"Skip checking links for a 200 OK response before extraction")

	return cmd
}

// runCrawlCmd executes the crawl command
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	config, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, config, newLogger(cmd), cmd.OutOrStdout())
}

// buildCrawlConfig creates the crawl configuration from the
// configuration file, if any, the command arguments and the command
// flags. Flags take precedence over the configuration file.
func buildCrawlConfig(cmd *cobra.Command, args []string) (scraper.Config,
	error) {
	config := scraper.DefaultConfig()
	flags := cmd.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return config, err
	}
	if path != "" {
		config, err = scraper.LoadConfig(path)
		if err != nil {
			return config, fmt.Errorf("failed to load configuration %v: %w",
				path, err)
		}
	}

	if len(args) > 0 {
		config.StartURL = args[0]
	}
	if flags.Changed("domain") {
		if config.Domain, err = flags.GetString("domain"); err != nil {
			return config, err
		}
	}
	if flags.Changed("delay") {
		if config.Delay, err = flags.GetDuration("delay"); err != nil {
			return config, err
		}
	}
	if flags.Changed("max-pages") {
		if config.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return config, err
		}
	}
	if flags.Changed("user-agent") {
		if config.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return config, err
		}
	}
	if flags.Changed("timeout") {
		if config.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return config, err
		}
	}
	if flags.Changed("out") {
		if config.OutputDir, err = flags.GetString("out"); err != nil {
			return config, err
		}
	}
	if noValidate, err := flags.GetBool("no-validate"); err != nil {
		return config, err
	} else if noValidate {
		config.ValidateLinks = false
	}

	return config, nil
}

// runCrawl finds the links of the configured website, optionally keeps
// only the valid ones, and extracts the content of each. Progress of
// the extraction is displayed on out.
func runCrawl(ctx context.Context, config scraper.Config,
	logger *slog.Logger, out io.Writer) error {
	spider := config.Spider(nil, logger)
	domain := config.CrawlDomain()

	logger.Info("starting crawl", "start_url", config.StartURL, "domain",
		domain, "delay", config.Delay)

	links, err := spider.FindLinks(ctx, config.StartURL, domain)
	if err != nil {
		return fmt.Errorf("crawl interrupted: %w", err)
	}
	logger.Info("found links", "count", len(links))

	if err := os.MkdirAll(filepath.Join(config.OutputDir, contentDir),
		0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeLinks(filepath.Join(config.OutputDir, linksFile),
		links); err != nil {
		return err
	}

	if config.ValidateLinks {
		links, err = spider.KeepValid(ctx, links, domain)
		if err != nil {
			return fmt.Errorf("validation interrupted: %w", err)
		}
		logger.Info("validated links", "count", len(links))

		if err := writeLinks(filepath.Join(config.OutputDir, validLinksFile),
			links); err != nil {
			return err
		}
	}

	extracted := 0
	names := make(map[string]struct{}, len(links))
	bar := progressbar.NewManualProgressBar(out, barWidth, len(links))
	defer bar.Close()

	for _, link := range links {
		name := uniqueName(names, scraper.Slug(link))
		bar.SetLabel(name)
		bar.Display()

		text, err := spider.ExtractText(ctx, link)
		bar.Increment()
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("extraction interrupted: %w", ctx.Err())
			}
			logger.Warn("could not extract content", "url", link, "error", err)
			continue
		}

		file := filepath.Join(config.OutputDir, contentDir, name+".txt")
		if err := os.WriteFile(file, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write content: %w", err)
		}
		logger.Debug("extracted content", "url", link, "file", file)
		extracted++
	}
	bar.SetLabel("")
	bar.Display()

	logger.Info("crawl finished", "links", len(links), "extracted", extracted)
	return nil
}

// uniqueName returns name, or name suffixed with the lowest counter
// which gives a name not returned before
func uniqueName(seen map[string]struct{}, name string) string {
	unique := name
	for n := 2; ; n++ {
		if _, ok := seen[unique]; !ok {
			break
		}
		unique = fmt.Sprintf("%v-%d", name, n)
	}
	seen[unique] = struct{}{}
	return unique
}

// writeLinks writes links to filename as an indented JSON array
func writeLinks(filename string, links []string) error {
	if links == nil {
		links = []string{}
	}

	data, err := json.MarshalIndent(links, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode links: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write links: %w", err)
	}
	return nil
}
