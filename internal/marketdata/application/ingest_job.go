package application

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	instrument "github.com/wyfcoding/markettracker/internal/instrument/domain"
	"github.com/wyfcoding/markettracker/internal/marketdata/domain"
	"github.com/wyfcoding/markettracker/pkg/metrics"
)

// IngestJob 负责单个行情源类型的周期性价格采集。
// 每个行情源类型一个实例，各实例的定时器彼此独立。
// tick 体在循环内同步执行，天然保证同一行情源的 tick 不重叠（single-flight）；
// tick 内各标的的拉取与落库相互独立，单个标的失败不影响同一 tick 的其他标的。
type IngestJob struct {
	feed        instrument.FeedType
	instruments instrument.InstrumentRepository
	source      domain.PriceSource
	quotes      domain.QuoteRepository
	publisher   domain.EventPublisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
	interval    time.Duration
	concurrency int
}

// NewIngestJob 构造函数
func NewIngestJob(
	feed instrument.FeedType,
	instruments instrument.InstrumentRepository,
	source domain.PriceSource,
	quotes domain.QuoteRepository,
	publisher domain.EventPublisher,
	logger *slog.Logger,
	m *metrics.Metrics,
	interval time.Duration,
	concurrency int,
) *IngestJob {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &IngestJob{
		feed:        feed,
		instruments: instruments,
		source:      source,
		quotes:      quotes,
		publisher:   publisher,
		logger:      logger,
		metrics:     m,
		interval:    interval,
		concurrency: concurrency,
	}
}

// Run 启动采集循环，ctx 取消后在当前 tick 结束时返回（优雅排空）
func (j *IngestJob) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("Price ingest job started", "feed", j.feed, "interval", j.interval)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Price ingest job stopped", "feed", j.feed)
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

// runOnce 执行一次采集 tick，所有标的结算完毕（成功或失败）后才返回
func (j *IngestJob) runOnce(ctx context.Context) {
	start := time.Now()
	if j.metrics != nil {
		j.metrics.IngestTicksTotal.WithLabelValues(string(j.feed)).Inc()
	}

	instruments, err := j.instruments.ListByFeed(ctx, j.feed)
	if err != nil {
		j.logger.Error("Failed to list tracked instruments", "feed", j.feed, "error", err)
		return
	}
	if len(instruments) == 0 {
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(j.concurrency)
	for _, inst := range instruments {
		inst := inst
		g.Go(func() error {
			j.ingestOne(ctx, inst.Symbol)
			return nil
		})
	}
	// 各工作单元不返回错误，Wait 仅用于等待本 tick 结算
	_ = g.Wait()

	if j.metrics != nil {
		j.metrics.IngestTickDuration.Observe(time.Since(start).Seconds())
	}
}

// ingestOne 拉取并提交单个标的的行情
// 行情源失败或落库失败只记录日志：旧指针保持有效，下一个 tick 自动重试
func (j *IngestJob) ingestOne(ctx context.Context, symbol string) {
	fetched, err := j.source.Fetch(ctx, symbol)
	if err != nil {
		if j.metrics != nil {
			j.metrics.FeedErrorsTotal.WithLabelValues(string(j.feed)).Inc()
		}
		j.logger.Warn("Price fetch failed, skipping until next tick",
			"feed", j.feed, "symbol", symbol, "error", err)
		return
	}

	quote := domain.NewQuote(fetched.Symbol, fetched.Price, fetched.ObservedAt.UnixMilli())
	if err := j.quotes.Commit(ctx, quote); err != nil {
		j.logger.Error("Quote commit failed, pointer unchanged",
			"feed", j.feed, "symbol", symbol, "error", err)
		return
	}

	if j.metrics != nil {
		j.metrics.QuotesCommittedTotal.WithLabelValues(string(j.feed)).Inc()
	}

	event := domain.QuoteCommittedEvent{
		Symbol:     quote.Symbol,
		QuoteID:    quote.ID,
		Price:      quote.Price.String(),
		ObservedAt: quote.ObservedAt,
	}
	if err := j.publisher.Publish(ctx, domain.TopicQuoteCommitted, quote.Symbol, event); err != nil {
		j.logger.Warn("Failed to publish quote event", "symbol", quote.Symbol, "error", err)
	}
}
