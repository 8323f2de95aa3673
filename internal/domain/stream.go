package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamSpotGenerate = "stream:spot:generate"
	StreamSpotDone     = "stream:spot:done"
)

// SpotRequestEvent - входящее событие на генерацию точки
type SpotRequestEvent struct {
	RequestID          uuid.UUID `json:"request_id"`
	Region             string    `json:"region,omitempty"`
	Regions            []string  `json:"regions,omitempty"`
	All                bool      `json:"all,omitempty"`
	IncludeTerritories bool      `json:"include_territories,omitempty"`
	FindRoad           bool      `json:"find_road,omitempty"`
}

// SpotDoneEvent - результат генерации
type SpotDoneEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	Spot      *Spot     `json:"spot,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorCode string    `json:"error_code,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}

// IsMultiRegion - запрос на выбор региона пропорционально площади
func (e *SpotRequestEvent) IsMultiRegion() bool {
	return e.All || len(e.Regions) > 0
}

// IsEmpty - в запросе не указан ни один регион
func (e *SpotRequestEvent) IsEmpty() bool {
	return e.Region == "" && !e.IsMultiRegion()
}
