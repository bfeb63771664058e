package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/andywolf/skillsctl/internal/config"
	"github.com/andywolf/skillsctl/internal/git"
	"github.com/andywolf/skillsctl/internal/reconcile"
	"github.com/andywolf/skillsctl/internal/submodule"
	"github.com/andywolf/skillsctl/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "skillsctl",
	Short: "Manage repo-scoped Codex skills via submodule + sparse checkout",
	Long: `skillsctl keeps a project's skills in a git submodule at .codex/skills and
materializes only the skills listed in .codex/skills.manifest using
sparse checkout. The manifest and config are committed with the project;
the skill contents come from a shared catalog repository.

Example:
  skillsctl bootstrap
  skillsctl suggest pdf
  skillsctl install vi-prek vi-security-guidance --stage`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .skillsctl.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log git invocations to stderr")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	config.Register(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(cwd)
		if root, err := git.NewClient(nil).TopLevel(context.Background(), cwd); err == nil && root != cwd {
			viper.AddConfigPath(root)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".skillsctl")
	}

	viper.SetEnvPrefix("SKILLSCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// session bundles what a command needs to talk to the project.
type session struct {
	root     string
	gitRepo  bool
	settings *config.Settings
	logger   *log.Logger
	git      *git.Client
	nested   *submodule.Manager
	engine   *reconcile.Engine
}

// newSession locates the project root and wires the engine. When
// requireRepo is false a directory outside any git work tree is accepted
// and used as the root.
func newSession(ctx context.Context, requireRepo bool) (*session, error) {
	settings, err := config.LoadSettings(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger := log.New(io.Discard, "", 0)
	if settings.Verbose {
		logger = log.New(os.Stderr, "[skillsctl] ", 0)
	}

	client := git.NewClient(logger)

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	root, err := client.TopLevel(ctx, cwd)
	gitRepo := err == nil && root != ""
	if !gitRepo {
		if requireRepo {
			if errors.Is(err, exec.ErrNotFound) {
				return nil, err
			}
			return nil, apperr.Preconditionf("not inside a git repository: %s", cwd).
				WithDetail("Fix: run `git init` first.")
		}
		root = cwd
	}

	nested := submodule.NewManager(root, client)
	engine := reconcile.New(reconcile.Deps{
		Root:       root,
		Nested:     nested,
		Settings:   settings,
		Logger:     logger,
		GitVersion: client.Version,
	})

	return &session{
		root:     root,
		gitRepo:  gitRepo,
		settings: settings,
		logger:   logger,
		git:      client,
		nested:   nested,
		engine:   engine,
	}, nil
}
