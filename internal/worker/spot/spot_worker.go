package spot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"github.com/random-spot/internal/usecase/dto"
	"github.com/random-spot/internal/worker"
	"go.uber.org/zap"
)

const (
	maxBatchSize    = 20                     // максимум сообщений за раз
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep      = time.Second
	publishBackoff  = 200 * time.Millisecond
	ackTimeout      = 5 * time.Second
)

// SpotGenerator генерирует случайную точку по запросу
type SpotGenerator interface {
	Generate(ctx context.Context, req dto.GenerateSpotRequest) (*domain.Spot, error)
}

// SpotWorker обрабатывает запросы на генерацию точек из stream:spot:generate
// и публикует результаты в stream:spot:done
type SpotWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	generator  SpotGenerator
	maxRetries int
}

// NewSpotWorker создает новый SpotWorker
func NewSpotWorker(
	streamRepo repository.StreamRepository,
	generator SpotGenerator,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *SpotWorker {
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &SpotWorker{
		BaseWorker: worker.NewBaseWorker("spot-generator", consumerGroup, logger),
		streamRepo: streamRepo,
		generator:  generator,
		maxRetries: maxRetries,
	}
}

// Start запускает воркер
func (w *SpotWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SpotWorker (batch mode)",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("max_batch_size", maxBatchSize))

	// Создаем consumer group
	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamSpotGenerate, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// Основной цикл обработки
	for {
		select {
		case <-w.StopChan():
			processed, failed := w.Counters()
			logger.Info("Worker stopped",
				zap.Int64("processed", processed),
				zap.Int64("failed", failed))
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.ProcessBatch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				logger.Error("Failed to process batch", zap.Error(err))
				w.Sleep(ctx, errorSleep)
				continue
			}

			if processed == 0 {
				w.Sleep(ctx, emptyQueueSleep)
			}
		}
	}
}

// ProcessBatch читает и обрабатывает один batch сообщений.
// Возвращает количество прочитанных сообщений.
func (w *SpotWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	// 1. Читаем до 20 сообщений
	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamSpotGenerate,
		w.ConsumerGroup(),
		w.ConsumerName(),
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	ackIDs := make([]string, 0, len(messages))
	failed := 0

	for _, msg := range messages {
		// 2. Парсим событие; битое сообщение подтверждаем, чтобы не застревало
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ackIDs = append(ackIDs, msg.ID)
			failed++
			continue
		}

		// 3. Генерируем точку
		done := w.handle(ctx, event)
		if ctx.Err() != nil {
			// необработанные сообщения остаются в pending
			break
		}
		if done.Error != "" {
			failed++
		}

		// 4. Публикуем результат
		if err := w.publish(ctx, done); err != nil {
			logger.Error("Failed to publish done event, message left pending",
				zap.String("request_id", event.RequestID.String()),
				zap.Error(err))
			continue
		}

		ackIDs = append(ackIDs, msg.ID)
	}

	// 5. ACK обработанных сообщений
	// отдельный контекст: опубликованные результаты подтверждаются и после отмены ctx
	if len(ackIDs) > 0 {
		ackCtx, cancel := context.WithTimeout(context.Background(), ackTimeout)
		err := w.streamRepo.AckMessages(ackCtx, domain.StreamSpotGenerate, w.ConsumerGroup(), ackIDs)
		cancel()
		if err != nil {
			logger.Error("Failed to ack messages", zap.Error(err))
			// сообщения будут переобработаны
		}
	}

	w.RecordProcessed(len(ackIDs))
	w.RecordFailed(failed)

	logger.Info("Batch processed",
		zap.Int("messages", len(messages)),
		zap.Int("acked", len(ackIDs)),
		zap.Int("failed", failed))

	return len(messages), nil
}

func (w *SpotWorker) handle(ctx context.Context, event *domain.SpotRequestEvent) *domain.SpotDoneEvent {
	done := &domain.SpotDoneEvent{RequestID: event.RequestID}

	if event.IsEmpty() {
		done.Error = pkgerrors.ErrInvalidRequest.Message
		done.ErrorCode = pkgerrors.ErrInvalidRequest.Code
		return done
	}

	spot, err := w.generator.Generate(ctx, dto.GenerateSpotRequestFromEvent(event))
	if err != nil {
		w.Logger().Warn("Spot generation failed",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))

		if appErr, ok := pkgerrors.As(err); ok {
			done.Error = appErr.Message
			done.ErrorCode = appErr.Code
		} else {
			done.Error = err.Error()
			done.ErrorCode = pkgerrors.ErrInternalServer.Code
		}
		return done
	}

	done.Spot = spot
	return done
}

// publish публикует результат, повторяя попытку до maxRetries раз
func (w *SpotWorker) publish(ctx context.Context, done *domain.SpotDoneEvent) error {
	var err error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		if err = w.streamRepo.PublishToStream(ctx, domain.StreamSpotDone, done); err == nil {
			return nil
		}
		if attempt < w.maxRetries && !w.Sleep(ctx, publishBackoff*time.Duration(attempt)) {
			break
		}
	}
	return err
}

// parseMessage парсит сообщение из стрима в SpotRequestEvent
func parseMessage(msg domain.StreamMessage) (*domain.SpotRequestEvent, error) {
	if msg.Data == "" {
		return nil, errors.New("missing or invalid 'data' field")
	}

	var event domain.SpotRequestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.RequestID == uuid.Nil {
		return nil, errors.New("missing request_id")
	}

	return &event, nil
}
