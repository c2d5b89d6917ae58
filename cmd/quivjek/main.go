package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/quivjek/internal"
	"github.com/starford/quivjek/internal/batch"
	pkgconfig "github.com/starford/quivjek/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cmd.IsSet("source") {
		cfg.Source = cmd.String("source")
	}
	if cmd.IsSet("continue") && cmd.Bool("continue") {
		cfg.Build.OnError = batch.OnErrorContinue
	}
	return cfg, nil
}

func build(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithEnvironment(cmd.String("env")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func posts(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rows, err := internal.ListPosts(cfg, cmd.String("tag"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", bold("DATE"), bold("FILE"), bold("TITLE"), bold("TAGS"), bold("IMAGES"))
	for _, p := range rows {
		images := make([]string, 0, len(p.Images))
		for _, img := range p.Images {
			images = append(images, img.Filename)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Date, p.Filename, p.Title, strings.Join(p.Tags, ","), strings.Join(images, ","))
	}
	return w.Flush()
}

func main() {
	cmd := &cli.Command{
		Name:   "quivjek",
		Usage:  "Convert a Quiver notebook into Jekyll posts",
		Action: build,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to the site config file",
				DefaultText: "_config.yml",
				Value:       "_config.yml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Deployment environment; production disables the import",
				Value:   "development",
				Sources: cli.EnvVars("APP_ENV"),
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Site source directory (overrides the config file)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Regenerate all posts and images from the notebook",
				Action: build,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "continue",
						Usage: "Convert every note and report failures at the end",
					},
				},
			},
			{
				Name:   "posts",
				Usage:  "List the posts recorded in the build manifest",
				Action: posts,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Only list posts with this tag",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
