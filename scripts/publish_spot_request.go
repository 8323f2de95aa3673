//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type SpotRequestEvent struct {
	RequestID          uuid.UUID `json:"request_id"`
	Region             string    `json:"region,omitempty"`
	Regions            []string  `json:"regions,omitempty"`
	All                bool      `json:"all,omitempty"`
	IncludeTerritories bool      `json:"include_territories,omitempty"`
	FindRoad           bool      `json:"find_road,omitempty"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	region := flag.String("region", "", "Region id or name")
	regions := flag.String("regions", "", "Comma-separated region ids or names (area-weighted)")
	all := flag.Bool("all", false, "Pick among all regions (area-weighted)")
	territories := flag.Bool("territories", false, "Include territories with -all")
	findRoad := flag.Bool("road", false, "Look up the nearest road")
	wait := flag.Duration("wait", 30*time.Second, "How long to wait for the result")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := SpotRequestEvent{
		RequestID:          uuid.New(),
		Region:             *region,
		All:                *all,
		IncludeTerritories: *territories,
		FindRoad:           *findRoad,
	}
	if *regions != "" {
		event.Regions = strings.Split(*regions, ",")
	}
	if event.Region == "" && len(event.Regions) == 0 && !event.All {
		event.Region = "France"
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Запоминаем хвост стрима результатов до публикации
	lastID := "$"
	if last, err := client.XRevRangeN(ctx, "stream:spot:done", "+", "-", 1).Result(); err == nil && len(last) > 0 {
		lastID = last[0].ID
	}

	// Публикация в стрим
	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:spot:generate",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published request %s as message %s\n", event.RequestID, result)
	fmt.Printf("Payload: %s\n", data)

	// Ждем результат с тем же request_id
	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{"stream:spot:done", lastID},
			Count:   20,
			Block:   time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			log.Fatalf("Failed to read results: %v", err)
		}

		for _, msg := range streams[0].Messages {
			lastID = msg.ID
			raw, _ := msg.Values["data"].(string)

			var done struct {
				RequestID uuid.UUID `json:"request_id"`
			}
			if json.Unmarshal([]byte(raw), &done) != nil || done.RequestID != event.RequestID {
				continue
			}

			fmt.Printf("Result: %s\n", raw)
			return
		}
	}

	log.Fatalf("No result for request %s within %s", event.RequestID, *wait)
}
