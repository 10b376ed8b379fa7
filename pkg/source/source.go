// Package source defines the collector boundary. The scrapers themselves
// live outside this repository; what arrives here is their JSON output,
// materialized per source. A YAML registry maps source names to batch
// files so the ingest pipeline can be driven from dumped scraper output.
package source

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-hamwi/yalla/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Collector produces one raw event batch per invocation.
type Collector interface {
	Name() string
	Scrape(ctx context.Context) ([]model.RawEvent, error)
}

// Batch is a materialized collector result.
type Batch struct {
	Source string
	Events []model.RawEvent
}

// FileCollector reads a scraper's JSON dump (an array of raw events).
type FileCollector struct {
	name string
	path string
}

func NewFileCollector(name, path string) *FileCollector {
	return &FileCollector{name: name, path: path}
}

func (c *FileCollector) Name() string { return c.name }

func (c *FileCollector) Scrape(ctx context.Context) ([]model.RawEvent, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read batch file",
			goerr.V("source", c.name), goerr.V("path", c.path))
	}

	var events []model.RawEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, goerr.Wrap(err, "failed to decode batch file",
			goerr.V("source", c.name), goerr.V("path", c.path))
	}
	return events, nil
}

type registryEntry struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

type registryFile struct {
	Sources []registryEntry `yaml:"sources"`
}

// LoadRegistry reads the YAML source registry and returns one collector per
// entry.
func LoadRegistry(path string) ([]Collector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read source registry", goerr.V("path", path))
	}

	var reg registryFile
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse source registry", goerr.V("path", path))
	}
	if len(reg.Sources) == 0 {
		return nil, goerr.New("source registry is empty", goerr.V("path", path))
	}

	collectors := make([]Collector, 0, len(reg.Sources))
	for _, entry := range reg.Sources {
		if entry.Name == "" || entry.File == "" {
			return nil, goerr.New("registry entry needs name and file",
				goerr.V("name", entry.Name), goerr.V("file", entry.File))
		}
		collectors = append(collectors, NewFileCollector(entry.Name, entry.File))
	}
	return collectors, nil
}

// Gather runs all collectors concurrently and returns the batches that
// succeeded, in registry order. A failing collector is logged and skipped;
// the others still deliver.
func Gather(ctx context.Context, collectors []Collector) []Batch {
	batches := make([]Batch, len(collectors))
	ok := make([]bool, len(collectors))

	var wg sync.WaitGroup
	for i, c := range collectors {
		wg.Add(1)
		go func(i int, c Collector) {
			defer wg.Done()
			events, err := c.Scrape(ctx)
			if err != nil {
				logging.From(ctx).Warn("collector failed, skipping", "source", c.Name(), "error", err)
				return
			}
			batches[i] = Batch{Source: c.Name(), Events: events}
			ok[i] = true
		}(i, c)
	}
	wg.Wait()

	result := make([]Batch, 0, len(collectors))
	for i := range batches {
		if ok[i] {
			result = append(result, batches[i])
		}
	}
	return result
}
