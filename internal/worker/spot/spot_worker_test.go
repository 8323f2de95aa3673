package spot_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/random-spot/internal/domain"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
	"github.com/random-spot/internal/usecase/dto"
	"github.com/random-spot/internal/worker/spot"
)

const testGroup = "test-group"

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockSpotGenerator is a mock of SpotGenerator
type MockSpotGenerator struct {
	mock.Mock
}

func (m *MockSpotGenerator) Generate(ctx context.Context, req dto.GenerateSpotRequest) (*domain.Spot, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Spot), args.Error(1)
}

func requestMessage(id string, requestID uuid.UUID, body string) domain.StreamMessage {
	return domain.StreamMessage{
		ID:   id,
		Data: fmt.Sprintf(`{"request_id":%q,%s}`, requestID, body),
	}
}

func doneFor(requestID uuid.UUID, check func(e *domain.SpotDoneEvent) bool) interface{} {
	return mock.MatchedBy(func(e *domain.SpotDoneEvent) bool {
		return e.RequestID == requestID && check(e)
	})
}

func TestSpotWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("publishes results and acks every handled message", func(t *testing.T) {
		streamRepo := &MockStreamRepository{}
		generator := &MockSpotGenerator{}
		w := spot.NewSpotWorker(streamRepo, generator, testGroup, 1, logger)

		okID, failID, emptyID := uuid.New(), uuid.New(), uuid.New()
		generated := &domain.Spot{ID: uuid.New(), RegionID: "fra", RegionName: "France"}

		streamRepo.On("ConsumeBatch", mock.Anything, domain.StreamSpotGenerate, testGroup, w.ConsumerName(), 20).
			Return([]domain.StreamMessage{
				requestMessage("1-0", okID, `"region":"France","find_road":true`),
				{ID: "2-0", Data: `{not json`},
				requestMessage("3-0", failID, `"regions":["Atlantis"]`),
				{ID: "4-0", Data: `{"region":"France"}`},
				requestMessage("5-0", emptyID, `"find_road":true`),
			}, nil)

		generator.On("Generate", mock.Anything, dto.GenerateSpotRequest{Region: "France", FindRoad: true}).
			Return(generated, nil)
		generator.On("Generate", mock.Anything, dto.GenerateSpotRequest{Regions: []string{"Atlantis"}}).
			Return(nil, pkgerrors.ErrRegionNotFound.WithDetails(map[string]interface{}{"region": "Atlantis"}))

		streamRepo.On("PublishToStream", mock.Anything, domain.StreamSpotDone, doneFor(okID, func(e *domain.SpotDoneEvent) bool {
			return e.Spot == generated && e.Error == ""
		})).Return(nil)
		streamRepo.On("PublishToStream", mock.Anything, domain.StreamSpotDone, doneFor(failID, func(e *domain.SpotDoneEvent) bool {
			return e.Spot == nil && e.ErrorCode == "REGION_NOT_FOUND" && e.Error == "Region not found"
		})).Return(nil)
		streamRepo.On("PublishToStream", mock.Anything, domain.StreamSpotDone, doneFor(emptyID, func(e *domain.SpotDoneEvent) bool {
			return e.ErrorCode == "INVALID_REQUEST"
		})).Return(nil)
		streamRepo.On("AckMessages", mock.Anything, domain.StreamSpotGenerate, testGroup,
			[]string{"1-0", "2-0", "3-0", "4-0", "5-0"}).Return(nil)

		n, err := w.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, n)

		processed, failed := w.Counters()
		assert.Equal(t, int64(5), processed)
		assert.Equal(t, int64(4), failed)

		streamRepo.AssertExpectations(t)
		generator.AssertExpectations(t)
		generator.AssertNumberOfCalls(t, "Generate", 2)
	})

	t.Run("empty stream", func(t *testing.T) {
		streamRepo := &MockStreamRepository{}
		w := spot.NewSpotWorker(streamRepo, &MockSpotGenerator{}, testGroup, 1, logger)

		streamRepo.On("ConsumeBatch", mock.Anything, domain.StreamSpotGenerate, testGroup, mock.Anything, 20).
			Return([]domain.StreamMessage{}, nil)

		n, err := w.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		streamRepo.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("consume error", func(t *testing.T) {
		streamRepo := &MockStreamRepository{}
		w := spot.NewSpotWorker(streamRepo, &MockSpotGenerator{}, testGroup, 1, logger)

		streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection reset"))

		_, err := w.ProcessBatch(ctx)
		assert.Error(t, err)
	})

	t.Run("unpublished result stays pending", func(t *testing.T) {
		streamRepo := &MockStreamRepository{}
		generator := &MockSpotGenerator{}
		w := spot.NewSpotWorker(streamRepo, generator, testGroup, 2, logger)

		requestID := uuid.New()
		streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.StreamMessage{requestMessage("7-0", requestID, `"all":true`)}, nil)
		generator.On("Generate", mock.Anything, dto.GenerateSpotRequest{All: true}).
			Return(&domain.Spot{ID: uuid.New()}, nil)
		streamRepo.On("PublishToStream", mock.Anything, domain.StreamSpotDone, mock.Anything).
			Return(errors.New("OOM command not allowed"))

		n, err := w.ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		streamRepo.AssertNumberOfCalls(t, "PublishToStream", 2)
		streamRepo.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("published results are acked after cancellation", func(t *testing.T) {
		streamRepo := &MockStreamRepository{}
		generator := &MockSpotGenerator{}
		w := spot.NewSpotWorker(streamRepo, generator, testGroup, 1, logger)

		batchCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		firstID, secondID := uuid.New(), uuid.New()
		streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.StreamMessage{
				requestMessage("1-0", firstID, `"region":"France"`),
				requestMessage("2-0", secondID, `"all":true`),
			}, nil)
		generator.On("Generate", mock.Anything, dto.GenerateSpotRequest{Region: "France"}).
			Return(&domain.Spot{ID: uuid.New()}, nil)
		generator.On("Generate", mock.Anything, dto.GenerateSpotRequest{All: true}).
			Return(nil, context.Canceled).Maybe()
		streamRepo.On("PublishToStream", mock.Anything, domain.StreamSpotDone, doneFor(firstID, func(*domain.SpotDoneEvent) bool { return true })).
			Run(func(mock.Arguments) { cancel() }).
			Return(nil)
		streamRepo.On("AckMessages", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }),
			domain.StreamSpotGenerate, testGroup, []string{"1-0"}).Return(nil)

		n, err := w.ProcessBatch(batchCtx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		streamRepo.AssertExpectations(t)
		streamRepo.AssertNotCalled(t, "PublishToStream", mock.Anything, domain.StreamSpotDone,
			doneFor(secondID, func(*domain.SpotDoneEvent) bool { return true }))
	})
}

func TestSpotWorker_StartStop(t *testing.T) {
	logger := zap.NewNop()

	t.Run("stops on Stop", func(t *testing.T) {
		streamRepo := &MockStreamRepository{}
		w := spot.NewSpotWorker(streamRepo, &MockSpotGenerator{}, testGroup, 1, logger)

		streamRepo.On("CreateConsumerGroup", mock.Anything, domain.StreamSpotGenerate, testGroup).Return(nil)
		streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.StreamMessage{}, nil)

		errCh := make(chan error, 1)
		go func() { errCh <- w.Start(context.Background()) }()

		time.Sleep(50 * time.Millisecond)
		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not stop")
		}
		assert.True(t, w.IsStopped())
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		streamRepo := &MockStreamRepository{}
		w := spot.NewSpotWorker(streamRepo, &MockSpotGenerator{}, testGroup, 1, logger)

		streamRepo.On("CreateConsumerGroup", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		streamRepo.On("ConsumeBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]domain.StreamMessage{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- w.Start(ctx) }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not stop")
		}
	})

	t.Run("consumer group failure", func(t *testing.T) {
		streamRepo := &MockStreamRepository{}
		w := spot.NewSpotWorker(streamRepo, &MockSpotGenerator{}, testGroup, 1, logger)

		streamRepo.On("CreateConsumerGroup", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("NOAUTH"))

		err := w.Start(context.Background())
		assert.Error(t, err)
		assert.Equal(t, "spot-generator", w.Name())
	})
}
