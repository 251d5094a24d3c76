package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tushle/internal/jobs"
	"tushle/internal/logging"
	"tushle/internal/notifications"
	"tushle/internal/reports"
	"tushle/internal/server"
	"tushle/internal/services/groq"
	"tushle/internal/store"
	"tushle/internal/trending"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			notifier := notifications.NewService(cfg)
			aggregator := trending.NewAggregator(cfg, logger,
				trending.WithCache(trending.NewCache(cfg, logger)))
			generator := reports.NewGenerator(cfg, st, logger)
			llm := groq.NewClient(cfg.LLM.APIKey,
				groq.WithBaseURL(cfg.LLM.BaseURL),
				groq.WithModel(cfg.LLM.Model))

			manager := jobs.NewManager(cfg, st, logger, notifier, aggregator)
			if err := manager.Acquire(); err != nil {
				return fmt.Errorf("acquire instance lock: %w", err)
			}
			defer manager.Release()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			jobsDone := make(chan error, 1)
			go func() {
				jobsDone <- manager.Run(runCtx)
			}()

			srv := server.New(cfg, st, logger, notifier, aggregator, generator, llm)
			if err := srv.Start(runCtx); err != nil {
				stop()
				<-jobsDone
				return err
			}
			logger.Info("tushle running", logging.String("address", srv.Addr()))

			<-runCtx.Done()
			srv.Stop()
			if err := <-jobsDone; err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("job scheduler exited", logging.Error(err))
			}
			logger.Info("tushle stopped")
			return nil
		},
	}
}
