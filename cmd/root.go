/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nakachan-ing/todocal-cli/internal/logging"
	"github.com/nakachan-ing/todocal-cli/internal/model"
	"github.com/nakachan-ing/todocal-cli/internal/store"
	"github.com/nakachan-ing/todocal-cli/internal/todo"
	"github.com/nakachan-ing/todocal-cli/internal/util"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todocal",
	Short: "A personal task tracker organized by calendar date",
	Long: `todocal keeps short tasks on calendar days.

Each day lists its tasks (open first, oldest first) and the month
calendar marks days with open tasks in orange and finished days in green.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $TODOCAL_CONFIG or <user config dir>/todocal-cli/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

// initConfig makes --config visible to store.GetConfigPath.
func initConfig() {
	if cfgFile != "" {
		os.Setenv("TODOCAL_CONFIG", cfgFile)
	}
}

func loadConfig() (*model.Config, error) {
	config, err := store.LoadConfig()
	if errors.Is(err, store.ErrConfigNotFound) {
		return nil, fmt.Errorf("❌ %w (run `todocal init` first)", err)
	}
	if err != nil {
		return nil, fmt.Errorf("❌ Error loading config: %w", err)
	}

	if problems := config.ValidationSummary(); len(problems) > 0 {
		return nil, fmt.Errorf("❌ Invalid config:\n  %s", strings.Join(problems, "\n  "))
	}
	return config, nil
}

func newLogger(config model.Config) (*logrus.Logger, func(), error) {
	logger, closeLog, err := logging.New(config)
	if err != nil {
		return nil, nil, fmt.Errorf("❌ Failed to set up logging: %w", err)
	}
	if verbose {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger, closeLog, nil
}

// session bundles what a task command needs: config, logger, open store
// and the service on top of it.
type session struct {
	config model.Config
	log    *logrus.Logger
	store  store.TaskStore
	svc    *todo.Service

	closeLog func()
}

func openSession(ctx context.Context) (*session, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := newLogger(*config)
	if err != nil {
		return nil, err
	}

	taskStore, err := store.Open(ctx, *config, logger)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("❌ Failed to open %s store: %w", config.Storage.Driver, err)
	}
	logger.WithFields(logrus.Fields{"driver": config.Storage.Driver, "path": taskStore.Path()}).Debug("store opened")

	return &session{
		config:   *config,
		log:      logger,
		store:    taskStore,
		svc:      todo.NewService(taskStore, logger),
		closeLog: closeLog,
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.log.WithError(err).Warn("⚠️ Failed to close store")
	}
	s.closeLog()
}

// reportErr turns service errors into user-facing output. Validation
// failures are listed field by field on w.
func reportErr(w io.Writer, err error) error {
	var verr *todo.ValidationError
	if errors.As(err, &verr) {
		for _, field := range verr.FieldNames() {
			fmt.Fprintf(w, "❌ %s %s\n", field, verr.Fields[field])
		}
		return fmt.Errorf("❌ Invalid task")
	}

	var nf *todo.NotFoundError
	if errors.As(err, &nf) {
		return fmt.Errorf("❌ Task %s not found", nf.ID)
	}

	return fmt.Errorf("❌ %w", err)
}

func parseDateArg(s string) (civil.Date, error) {
	return util.ParseDate(s, time.Now())
}
