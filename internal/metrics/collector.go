package metrics

import (
	"time"

	"rental-site/internal/logging"
)

// StatsProvider reports how many files are currently published.
type StatsProvider interface {
	Stats() Stats
}

// Stats holds the current published file counts.
type Stats struct {
	Images     int
	Videos     int
	Thumbnails int
}

// Collector periodically refreshes the media file gauges.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the collection loop in the background.
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the collection loop.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.Stats()

	MediaFilesTotal.WithLabelValues("image").Set(float64(stats.Images))
	MediaFilesTotal.WithLabelValues("video").Set(float64(stats.Videos))
	MediaFilesTotal.WithLabelValues("thumbnail").Set(float64(stats.Thumbnails))

	logging.Debug("Metrics collected: images=%d, videos=%d, thumbnails=%d",
		stats.Images, stats.Videos, stats.Thumbnails)
}
