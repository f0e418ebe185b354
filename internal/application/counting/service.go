// Package counting implements the token counting use cases shared by the
// CLI and the MCP server.
package counting

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/jbctechsolutions/gtc/internal/domain/count"
	"github.com/jbctechsolutions/gtc/internal/domain/encoding"
	domainErrors "github.com/jbctechsolutions/gtc/internal/domain/errors"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/filesystem"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/logging"
	"github.com/jbctechsolutions/gtc/internal/infrastructure/tracing"
)

// Request describes one count over file arguments.
type Request struct {
	Patterns []string
	Model    string
	Encoding string
}

// Catalog lists the available encodings and the model table.
type Catalog struct {
	Encodings     []encoding.Info
	Models        []encoding.ModelEntry
	DefaultModel  string
	ModelMappings map[string]string
}

// Service resolves encodings, expands file arguments and counts tokens.
type Service struct {
	resolver    *encoding.Resolver
	factory     count.TokenizerFactory
	logger      *logging.Logger
	tracer      *tracing.Tracer
	concurrency int
}

// NewService creates a counting service. A nil logger or tracer falls back
// to the package defaults; concurrency below 1 means sequential.
func NewService(resolver *encoding.Resolver, factory count.TokenizerFactory, logger *logging.Logger, tracer *tracing.Tracer, concurrency int) (*Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("tokenizer factory is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if tracer == nil {
		tracer = tracing.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}

	return &Service{
		resolver:    resolver,
		factory:     factory,
		logger:      logger,
		tracer:      tracer,
		concurrency: concurrency,
	}, nil
}

// Resolve returns the encoding for an optional model and encoding pair.
func (s *Service) Resolve(model, encodingName string) (string, error) {
	return s.resolver.Resolve(model, encodingName)
}

// EffectiveModel returns the model a count reports. See
// encoding.Resolver.EffectiveModel.
func (s *Service) EffectiveModel(model, encodingName string) string {
	return s.resolver.EffectiveModel(model, encodingName)
}

// Count resolves the encoding, expands req.Patterns and counts each file.
//
// Resolution, expansion and tokenizer loading errors are fatal and returned
// with a nil report. Per-file failures are recorded in the report and never
// abort the count. Results keep argument order at any concurrency.
func (s *Service) Count(ctx context.Context, req Request) (*count.Report, error) {
	return s.run(ctx, req, filesystem.Expand)
}

// CountPaths counts req.Patterns as literal paths without glob expansion
// or de-duplication.
func (s *Service) CountPaths(ctx context.Context, req Request) (*count.Report, error) {
	return s.run(ctx, req, literalEntries)
}

func literalEntries(paths []string) ([]filesystem.Entry, error) {
	if len(paths) == 0 {
		return nil, domainErrors.NewError(domainErrors.CodeValidation, "no file paths given", domainErrors.ErrNoFiles)
	}
	entries := make([]filesystem.Entry, len(paths))
	for i, p := range paths {
		entries[i] = filesystem.Entry{Path: p}
	}
	return entries, nil
}

func (s *Service) run(ctx context.Context, req Request, expand func([]string) ([]filesystem.Entry, error)) (*count.Report, error) {
	start := time.Now()

	encName, err := s.resolver.Resolve(req.Model, req.Encoding)
	if err != nil {
		return nil, err
	}
	model := s.EffectiveModel(req.Model, req.Encoding)

	ctx = logging.WithEncoding(ctx, encName)
	ctx, span := s.tracer.StartCountSpan(ctx, model, encName)

	entries, err := expand(req.Patterns)
	if err != nil {
		span.EndWithError(err)
		return nil, err
	}

	tok, err := s.loadTokenizer(encName)
	if err != nil {
		span.EndWithError(err)
		return nil, err
	}

	span.SetFileCount(len(entries))
	logging.LogCountStart(ctx, s.logger, encName, len(entries))

	results := make([]count.FileResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, entry := range entries {
		if entry.Err != nil {
			path := entry.Path
			if path == "" {
				path = entry.Pattern
			}
			results[i] = count.FileResult{Path: path, Err: entry.Err}
			tracing.AddEvent(ctx, "count.entry_skipped", attribute.String("file.path", path), attribute.String("error", entry.Err.Error()))
			logging.LogFileFailed(ctx, s.logger, path, entry.Err)
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.countFile(gctx, tok, entry.Path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.EndWithError(err)
		return nil, err
	}

	report := &count.Report{Model: model, Encoding: encName, Files: results}

	span.SetResult(report.TotalTokens(), report.FailedCount())
	span.End()
	logging.LogCountComplete(ctx, s.logger, report.TotalTokens(), report.FailedCount(), time.Since(start))

	return report, nil
}

// loadTokenizer returns the tokenizer for encName. Failure is fatal.
func (s *Service) loadTokenizer(encName string) (count.Tokenizer, error) {
	tok, err := s.factory.Get(encName)
	if err != nil {
		return nil, domainErrors.WithContext(
			domainErrors.NewError(domainErrors.CodeTokenizer,
				fmt.Sprintf("failed to load encoding %s", encName),
				fmt.Errorf("%w: %w", domainErrors.ErrTokenizer, err)),
			"fatal", true)
	}
	return tok, nil
}

// countFile reads and tokenizes one file. Tokenizer panics are recovered
// into a per-file error.
func (s *Service) countFile(ctx context.Context, tok count.Tokenizer, path string) (result count.FileResult) {
	ctx, span := s.tracer.StartFileSpan(ctx, path)
	result.Path = path

	defer func() {
		if r := recover(); r != nil {
			result.Tokens = 0
			result.Err = fmt.Errorf("%w: %s: %v", domainErrors.ErrTokenizer, path, r)
		}
		if result.Err != nil {
			span.EndWithError(result.Err)
			logging.LogFileFailed(ctx, s.logger, path, result.Err)
			return
		}
		span.SetTokens(result.Tokens, result.Characters)
		span.End()
		logging.LogFileCounted(ctx, s.logger, path, result.Tokens)
	}()

	text, err := filesystem.ReadText(path)
	if err != nil {
		result.Err = err
		return result
	}

	result.Characters = utf8.RuneCountInString(text)
	result.Tokens = tok.CountTokens(text)
	return result
}

// CountText counts tokens in an in-memory string.
func (s *Service) CountText(ctx context.Context, text, model, encodingName string) (*count.TextResult, error) {
	encName, err := s.resolver.Resolve(model, encodingName)
	if err != nil {
		return nil, err
	}

	tok, err := s.loadTokenizer(encName)
	if err != nil {
		return nil, err
	}

	tokens, err := safeCount(tok, text)
	if err != nil {
		return nil, domainErrors.NewError(domainErrors.CodeTokenizer, "failed to tokenize text", err)
	}

	s.logger.DebugContext(ctx, "text counted", "encoding", encName, "tokens", tokens)

	return &count.TextResult{
		Tokens:     tokens,
		Characters: utf8.RuneCountInString(text),
		Model:      s.EffectiveModel(model, encodingName),
		Encoding:   encName,
	}, nil
}

// ListEncodings returns the encoding catalog and the model table.
func (s *Service) ListEncodings() Catalog {
	return Catalog{
		Encodings:     s.resolver.Encodings(),
		Models:        s.resolver.Models(),
		DefaultModel:  s.resolver.DefaultModel(),
		ModelMappings: s.resolver.ModelMap(),
	}
}

func safeCount(tok count.Tokenizer, text string) (tokens int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domainErrors.ErrTokenizer, r)
		}
	}()
	return tok.CountTokens(text), nil
}
