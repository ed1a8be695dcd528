package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukumbi/arenapay"
	"github.com/ukumbi/arenapay/config"
	"github.com/ukumbi/arenapay/internal/notification"
	redis_db "github.com/ukumbi/arenapay/internal/redis-db"
)

// processReconciliation retries the registration mirror for a completed
// payment whose callback-time update failed. Returning an error pushes the
// task back for another attempt; once retries run out the gap is escalated.
func (app *appInstance) processReconciliation(ctx context.Context, t *asynq.Task) error {
	var gap arenapay.ReconciliationGap
	if err := json.Unmarshal(t.Payload(), &gap); err != nil {
		logrus.Error(err)
		return err
	}

	if err := app.arenapay.ReconcileRegistration(ctx, gap); err != nil {
		retryCount, _ := asynq.GetRetryCount(ctx)
		if retryCount >= app.cnf.Queue.MaxRetryAttempts {
			notification.NotifyError(fmt.Errorf("reconciliation exhausted for payment %s (registration %s/%s): %v",
				gap.PaymentID, gap.TournamentID, gap.PlayerID, err))
			return nil
		}
		logrus.Infof("Reconciliation for payment %s pushed back, retry attempt %d/%d",
			gap.PaymentID, retryCount, app.cnf.Queue.MaxRetryAttempts)
		return err
	}

	log.Println(" [*] Registration Reconciled", gap.PaymentID)
	return nil
}

func initializeWorkerServer(conf *config.Configuration) (*asynq.Server, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:      redisOption.Addr,
			Password:  redisOption.Password,
			DB:        redisOption.DB,
			TLSConfig: redisOption.TLSConfig,
		},
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				conf.Queue.ReconciliationQueue: 1,
			},
		},
	), nil
}

// workerCommands defines the "workers" command that drains the
// reconciliation queue.
func workerCommands(app *appInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start arenapay workers",
		Run: func(cmd *cobra.Command, args []string) {
			conf, err := config.Fetch()
			if err != nil {
				log.Fatal("Error fetching config:", err)
			}

			srv, err := initializeWorkerServer(conf)
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			mux.HandleFunc(conf.Queue.ReconciliationQueue, app.processReconciliation)

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run server: %v", err)
			}
		},
	}

	return cmd
}
