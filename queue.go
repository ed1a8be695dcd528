package arenapay

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ukumbi/arenapay/config"
	redis_db "github.com/ukumbi/arenapay/internal/redis-db"
)

// ReconciliationQueue accepts gaps left behind when callback processing
// partially fails after the gateway was already acknowledged.
type ReconciliationQueue interface {
	EnqueueReconciliation(ctx context.Context, gap ReconciliationGap) error
}

// ReconciliationGap records a payment attempt whose registration mirror
// failed. The worker retries the mirror until it sticks or retries run out.
type ReconciliationGap struct {
	PaymentID     string `json:"payment_id"`
	CorrelationID string `json:"correlation_id"`
	TournamentID  string `json:"tournament_id"`
	PlayerID      string `json:"player_id"`
	PaymentStatus string `json:"payment_status"`
	Reason        string `json:"reason"`
}

// Queue wraps the asynq client used to hand reconciliation work to the
// worker process.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// EnqueueReconciliation queues a gap for the worker. The task id is the
// payment id so a gap enqueued twice for the same attempt stays one task.
func (q *Queue) EnqueueReconciliation(ctx context.Context, gap ReconciliationGap) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(gap)
	if err != nil {
		return err
	}

	taskOptions := []asynq.Option{
		asynq.TaskID(gap.PaymentID),
		asynq.Queue(cfg.Queue.ReconciliationQueue),
		asynq.MaxRetry(cfg.Queue.MaxRetryAttempts),
		asynq.ProcessIn(30 * time.Second),
	}
	task := asynq.NewTask(cfg.Queue.ReconciliationQueue, payload, taskOptions...)

	info, err := q.Client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	log.Printf(" [*] Queued reconciliation for payment %s, task %s", gap.PaymentID, info.ID)
	return nil
}
