package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-hamwi/yalla/pkg/source"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileCollector(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "batch.json", `[
		{"title": "Jazz Night", "date": "5 May", "venue": "Katara"},
		{"title": "Art Fair", "date": "6 May", "venue": {"name": "MIA Park"}}
	]`)

	c := source.NewFileCollector("iloveqatar", path)
	gt.V(t, c.Name()).Equal("iloveqatar")

	events, err := c.Scrape(context.Background())
	gt.NoError(t, err)
	gt.A(t, events).Length(2)
	gt.V(t, events[0].Title).Equal("Jazz Night")
	gt.V(t, events[1].Venue.String()).Equal("MIA Park")
}

func TestFileCollectorErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		c := source.NewFileCollector("x", filepath.Join(dir, "nope.json"))
		_, err := c.Scrape(context.Background())
		gt.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `{"not": "an array"}`)
		c := source.NewFileCollector("x", path)
		_, err := c.Scrape(context.Background())
		gt.Error(t, err)
	})
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sources.yml", `
sources:
  - name: iloveqatar
    file: data/iloveqatar.json
  - name: qatarliving
    file: data/qatarliving.json
`)

	collectors, err := source.LoadRegistry(path)
	gt.NoError(t, err)
	gt.A(t, collectors).Length(2)
	gt.V(t, collectors[0].Name()).Equal("iloveqatar")
	gt.V(t, collectors[1].Name()).Equal("qatarliving")
}

func TestLoadRegistryErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := source.LoadRegistry(filepath.Join(dir, "nope.yml"))
		gt.Error(t, err)
	})

	t.Run("empty registry", func(t *testing.T) {
		path := writeFile(t, dir, "empty.yml", "sources: []\n")
		_, err := source.LoadRegistry(path)
		gt.Error(t, err)
	})

	t.Run("entry without file", func(t *testing.T) {
		path := writeFile(t, dir, "partial.yml", "sources:\n  - name: iloveqatar\n")
		_, err := source.LoadRegistry(path)
		gt.Error(t, err)
	})
}

type stubCollector struct {
	name   string
	events []model.RawEvent
	err    error
}

func (c *stubCollector) Name() string { return c.name }

func (c *stubCollector) Scrape(ctx context.Context) ([]model.RawEvent, error) {
	return c.events, c.err
}

func TestGatherKeepsRegistryOrder(t *testing.T) {
	collectors := []source.Collector{
		&stubCollector{name: "a", events: []model.RawEvent{{Title: "A1"}}},
		&stubCollector{name: "b", events: []model.RawEvent{{Title: "B1"}, {Title: "B2"}}},
		&stubCollector{name: "c", events: []model.RawEvent{{Title: "C1"}}},
	}

	batches := source.Gather(context.Background(), collectors)
	gt.A(t, batches).Length(3)
	gt.V(t, batches[0].Source).Equal("a")
	gt.V(t, batches[1].Source).Equal("b")
	gt.A(t, batches[1].Events).Length(2)
	gt.V(t, batches[2].Source).Equal("c")
}

func TestGatherSkipsFailingCollectors(t *testing.T) {
	collectors := []source.Collector{
		&stubCollector{name: "a", events: []model.RawEvent{{Title: "A1"}}},
		&stubCollector{name: "b", err: goerr.New("site unreachable")},
		&stubCollector{name: "c", events: []model.RawEvent{{Title: "C1"}}},
	}

	batches := source.Gather(context.Background(), collectors)
	gt.A(t, batches).Length(2)
	gt.V(t, batches[0].Source).Equal("a")
	gt.V(t, batches[1].Source).Equal("c")
}
