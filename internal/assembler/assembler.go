// Package assembler parses a batch of report files into documents.
package assembler

import (
	"context"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/titulos-converter/internal/metrics"
	"github.com/insightdelivered/titulos-converter/internal/models"
	"github.com/insightdelivered/titulos-converter/internal/parser"
	"github.com/insightdelivered/titulos-converter/internal/sources"
)

// PageExtractor returns the text of each page of a file; pages[i] is page i+1.
type PageExtractor interface {
	ExtractPages(ctx context.Context, path string) ([]string, error)
}

// Collector extracts and parses report files.
type Collector struct {
	Extractor PageExtractor
	Parser    *parser.Parser
	// Workers bounds the documents processed at once. Zero means NumCPU.
	Workers int
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// New returns a Collector sharing logger with its parser.
func New(extractor PageExtractor, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		Extractor: extractor,
		Parser:    parser.New(logger),
		Logger:    logger,
	}
}

// Collect expands inputs into files and parses each one. Documents come back
// in input order. An input that resolves to no file aborts the run before
// any parsing; an extraction failure is recorded on its document and the
// batch carries on.
func (c *Collector) Collect(ctx context.Context, inputs []string) ([]models.Document, error) {
	paths, err := sources.Expand(inputs)
	if err != nil {
		return nil, err
	}

	docs := make([]models.Document, len(paths))
	c.parser()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers())

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			doc, err := c.collectOne(gctx, path)
			if err != nil {
				return err
			}
			docs[i] = *doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// collectOne only fails on cancellation.
func (c *Collector) collectOne(ctx context.Context, path string) (*models.Document, error) {
	logger := c.logger().With(zap.String("document", path))
	start := time.Now()
	name := filepath.Base(path)

	pages, err := c.Extractor.ExtractPages(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Error("text extraction failed", zap.Error(err))
		doc := &models.Document{
			Name:    name,
			Clients: []models.Client{},
			Error:   err.Error(),
		}
		c.Metrics.ObserveDocument(doc, time.Since(start))
		return doc, nil
	}

	if err := parser.Detect(pages); err != nil {
		logger.Warn("input may not be an overdue titles report", zap.Error(err))
	}

	doc := c.parser().Parse(name, pages)
	c.Metrics.ObserveDocument(doc, time.Since(start))
	logger.Info("document parsed",
		zap.Int("clients", len(doc.Clients)),
		zap.Int("entries", doc.EntryCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return doc, nil
}

// ParsePages parses text that was extracted elsewhere. With debug set the
// document carries a trace of every line.
func (c *Collector) ParsePages(name string, pages []string, debug bool) *models.Document {
	start := time.Now()
	p := *c.parser()
	p.Debug = p.Debug || debug
	doc := p.Parse(name, pages)
	c.Metrics.ObserveDocument(doc, time.Since(start))
	return doc
}

func (c *Collector) parser() *parser.Parser {
	if c.Parser == nil {
		c.Parser = parser.New(c.logger())
	}
	return c.Parser
}

func (c *Collector) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Collector) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
