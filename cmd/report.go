package cmd

import (
	"context"
	"errors"
	"log"

	"github.com/voxhire/voxhire/internal/logger"
	"github.com/voxhire/voxhire/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Regenerate the HR report and candidate feedback for a stored session",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		regenerateReport(args[0])
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func regenerateReport(id string) {
	ctx := context.Background()

	appLog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		appLog.Fatal("getting a config", zap.Error(err))
	}

	suite, err := newOracleSuite(ctx, config.AI, appLog)
	if err != nil {
		appLog.Fatal("building the gemini oracle", zap.Error(err))
	}

	db, err := store.Open(config.Store.Path)
	if err != nil {
		appLog.Fatal("opening the session store", zap.Error(err), zap.String("path", config.Store.Path))
	}
	defer db.Close()

	record, err := db.Session(ctx, id)
	if err != nil {
		appLog.Fatal("loading session", zap.Error(err), zap.String(logger.FieldSession, id))
	}

	evaluations, err := db.Evaluations(ctx, id)
	if err != nil {
		appLog.Fatal("loading evaluations", zap.Error(err), zap.String(logger.FieldSession, id))
	}

	if len(evaluations) == 0 {
		appLog.Fatal("no answers recorded for session", zap.Error(errors.New("nothing to report on")), zap.String(logger.FieldSession, id))
	}

	sessionLog := logger.WithSession(appLog, id, record.Candidate.Name)

	if err := report(ctx, suite, record.Candidate, evaluations, sessionLog); err != nil {
		sessionLog.Fatal("generating reports", zap.Error(err))
	}
}
