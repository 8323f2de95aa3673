package worker

import (
	"context"
)

// Worker интерфейс для всех воркеров
type Worker interface {
	// Start запускает воркер и блокируется до остановки или отмены ctx
	Start(ctx context.Context) error

	// Stop сигнализирует воркеру завершиться после текущего батча
	Stop() error

	// Name возвращает имя воркера
	Name() string
}
