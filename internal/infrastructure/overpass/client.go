package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/random-spot/internal/config"
	"github.com/random-spot/internal/domain"
	"github.com/random-spot/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	timeout    int
	logger     *zap.Logger
}

type response struct {
	Elements []element `json:"elements"`
	Remark   string    `json:"remark,omitempty"`
}

type element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Tags     map[string]string `json:"tags"`
	Geometry []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"geometry"`
}

// NewClient создает клиент Overpass API для поиска дорог
func NewClient(cfg *config.RoadsConfig, logger *zap.Logger) repository.RoadRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.RequestTimeout,
		logger:  logger,
	}
}

// buildQuery - все ways с тегом highway в радиусе, с геометрией
func (c *client) buildQuery(lat, lon, radiusMeters float64) string {
	return fmt.Sprintf(`[out:json][timeout:%d];way(around:%.0f,%.6f,%.6f)["highway"];out geom;`,
		c.timeout, radiusMeters, lat, lon)
}

// NearestRoads возвращает дороги в радиусе от точки
func (c *client) NearestRoads(ctx context.Context, lat, lon, radiusMeters float64) ([]*domain.Road, error) {
	query := c.buildQuery(lat, lon, radiusMeters)

	c.logger.Debug("Calling Overpass API",
		zap.String("query", query),
		zap.Float64("radius_m", radiusMeters))

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/interpreter", strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Overpass API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("overpass API error: status %d", resp.StatusCode)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// remark приходит при таймауте или нехватке памяти на стороне сервера
	if result.Remark != "" && len(result.Elements) == 0 {
		c.logger.Warn("Overpass API remark", zap.String("remark", result.Remark))
		return nil, fmt.Errorf("overpass API remark: %s", result.Remark)
	}

	roads := make([]*domain.Road, 0, len(result.Elements))
	for _, el := range result.Elements {
		if el.Type != "way" || len(el.Geometry) < 2 {
			continue
		}

		line := make(orb.LineString, len(el.Geometry))
		for i, p := range el.Geometry {
			line[i] = orb.Point{p.Lon, p.Lat}
		}

		roads = append(roads, &domain.Road{
			OSMID:    el.ID,
			Name:     roadName(el.Tags),
			Highway:  el.Tags["highway"],
			Geometry: line,
			Tags:     el.Tags,
		})
	}

	c.logger.Debug("Overpass API call successful",
		zap.Int("elements", len(result.Elements)),
		zap.Int("roads", len(roads)))

	return roads, nil
}

func roadName(tags map[string]string) string {
	for _, key := range []string{"name", "name:en", "ref"} {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
	}
	return ""
}
