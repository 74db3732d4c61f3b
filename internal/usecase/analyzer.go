package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"AssetRadar/internal/domain/models"
	"AssetRadar/internal/domain/repository"
	"AssetRadar/internal/service/scoring"
	applogger "AssetRadar/pkg/logger"
	"AssetRadar/pkg/metrics"
)

// ErrRunInProgress rejects a trigger while a run is already active.
var ErrRunInProgress = errors.New("a run is already in progress")

// AnalyzerConfig holds the evaluation universe and pipeline knobs.
type AnalyzerConfig struct {
	Workers       int
	TopN          int
	BestN         int
	TopStocks     []string
	TopCryptos    []string
	WalletStocks  []string
	WalletCryptos []string
	Risk          scoring.RiskParams
}

// Analyzer orchestrates one evaluation run end to end: resolve, fetch,
// score, rank, enrich, report.
type Analyzer struct {
	cfg       AnalyzerConfig
	resolver  *Resolver
	source    repository.AnalysisSource
	horizons  *HorizonEvaluator
	prices    repository.PriceSource
	messenger repository.Messenger
	mailer    repository.Mailer
	history   repository.HistoryStore
	publisher repository.ResultPublisher
	status    *StatusTracker
	metrics   *metrics.Metrics
	logger    *applogger.Logger

	running atomic.Bool
}

func NewAnalyzer(
	cfg AnalyzerConfig,
	resolver *Resolver,
	source repository.AnalysisSource,
	horizons *HorizonEvaluator,
	prices repository.PriceSource,
	messenger repository.Messenger,
	mailer repository.Mailer,
	history repository.HistoryStore,
	publisher repository.ResultPublisher,
	status *StatusTracker,
	m *metrics.Metrics,
	l *applogger.Logger,
) *Analyzer {
	if cfg.Workers <= 0 {
		cfg.Workers = 10
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 10
	}
	if cfg.BestN <= 0 {
		cfg.BestN = 5
	}
	return &Analyzer{
		cfg:       cfg,
		resolver:  resolver,
		source:    source,
		horizons:  horizons,
		prices:    prices,
		messenger: messenger,
		mailer:    mailer,
		history:   history,
		publisher: publisher,
		status:    status,
		metrics:   m,
		logger:    l,
	}
}

// Running reports whether a run is active.
func (a *Analyzer) Running() bool {
	return a.running.Load()
}

// Trigger starts a run in the background, rejecting while one is active.
// The single-run guard is acquired here, before returning, so concurrent
// triggers cannot both report success.
func (a *Analyzer) Trigger(trigger string) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	go func() {
		if _, err := a.run(context.Background(), trigger); err != nil {
			a.logger.Error("triggered run failed", applogger.Error(err))
		}
	}()
	return nil
}

// Run executes one full evaluation run. Only one run may be active at a
// time; concurrent calls get ErrRunInProgress.
func (a *Analyzer) Run(ctx context.Context, trigger string) (*models.RunResult, error) {
	if !a.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	return a.run(ctx, trigger)
}

// run owns the already-acquired guard and releases it on return.
func (a *Analyzer) run(ctx context.Context, trigger string) (result *models.RunResult, err error) {
	defer a.running.Store(false)

	start := time.Now()
	a.status.Start()
	a.logger.Info("run started", applogger.String("trigger", trigger))

	result = &models.RunResult{
		ID:        start.UTC().Format("20060102T150405.000000000Z"),
		Trigger:   trigger,
		StartedAt: start,
	}

	defer func() {
		if r := recover(); r != nil {
			a.status.Fail()
			if a.metrics != nil {
				a.metrics.ObserveRun(trigger, "failed", time.Since(start))
			}
			err = fmt.Errorf("run panic: %v", r)
			result = nil
			a.logger.Error("run panicked", applogger.Any("panic", r))
			a.notifyFailure(err)
		}
	}()

	// Step 1: initialize.
	a.status.SetStep(models.StepInitialize)
	universe := len(a.cfg.TopStocks) + len(a.cfg.TopCryptos) + len(a.cfg.WalletStocks) + len(a.cfg.WalletCryptos)
	a.logger.Info("evaluating universe",
		applogger.Int("assets", universe),
		applogger.Int("workers", a.cfg.Workers),
	)

	// Step 2: per-asset resolve + fetch + score across the worker pool.
	a.status.SetStep(models.StepEvaluate)
	topTickers := append(append([]string{}, a.cfg.TopStocks...), a.cfg.TopCryptos...)
	walletTickers := append(append([]string{}, a.cfg.WalletStocks...), a.cfg.WalletCryptos...)

	top, skippedTop := a.evaluateBatch(ctx, topTickers, models.SourceTop)
	wallet, skippedWallet := a.evaluateBatch(ctx, walletTickers, models.SourceWallet)
	result.Skipped = append(skippedTop, skippedWallet...)

	if ctx.Err() != nil {
		a.status.Fail()
		if a.metrics != nil {
			a.metrics.ObserveRun(trigger, "failed", time.Since(start))
		}
		return nil, ctx.Err()
	}

	// Step 3: partition, filter, rank, truncate.
	a.status.SetStep(models.StepRank)
	stocks, cryptos := partition(top)
	result.TopStocks = rankTop(stocks, a.cfg.TopN)
	result.TopCryptos = rankTop(cryptos, a.cfg.TopN)

	walletStocks, walletCryptos := partition(wallet)
	result.WalletStocks = sortWallet(walletStocks)
	result.WalletCryptos = sortWallet(walletCryptos)

	// Step 4: price and take-profit for the ranked subsets and every
	// resolved wallet asset.
	a.status.SetStep(models.StepEnrich)
	for i := range result.TopStocks {
		a.enrich(ctx, &result.TopStocks[i])
	}
	for i := range result.TopCryptos {
		a.enrich(ctx, &result.TopCryptos[i])
	}
	for i := range result.WalletStocks {
		a.enrich(ctx, &result.WalletStocks[i])
	}
	for i := range result.WalletCryptos {
		a.enrich(ctx, &result.WalletCryptos[i])
	}

	result.BestStocks = headCopy(result.TopStocks, a.cfg.BestN)
	result.BestCryptos = headCopy(result.TopCryptos, a.cfg.BestN)

	// Step 5: finalize, persist, report.
	a.status.SetStep(models.StepFinalize)
	result.FinishedAt = time.Now()
	result.Status = models.RunCompleted

	if a.history != nil {
		if herr := a.history.Save(ctx, result); herr != nil {
			a.logger.Error("history save failed", applogger.Error(herr))
		}
	}
	if a.publisher != nil {
		if perr := a.publisher.Publish(ctx, result); perr != nil {
			a.logger.Error("result publish failed", applogger.Error(perr))
		}
	}

	a.report(ctx, result)

	a.status.Complete()
	if a.metrics != nil {
		a.metrics.ObserveRun(trigger, "completed", time.Since(start))
	}
	a.logger.Info("run completed",
		applogger.Int("top_stocks", len(result.TopStocks)),
		applogger.Int("top_cryptos", len(result.TopCryptos)),
		applogger.Int("skipped", len(result.Skipped)),
		applogger.Duration("duration_ms", time.Since(start)),
	)

	return result, nil
}

// evaluateBatch fans the tickers out across the worker pool and collects the
// per-asset records. Assets that fail to resolve or whose daily fetch fails
// are skipped and reported by ticker.
func (a *Analyzer) evaluateBatch(ctx context.Context, tickers []string, tag models.SourceTag) ([]models.AssetRecord, []string) {
	jobs := make(chan string)
	records := make(chan models.AssetRecord, len(tickers))
	skipped := make(chan string, len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < a.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				if ctx.Err() != nil {
					skipped <- ticker
					continue
				}
				rec, err := a.evaluateAsset(ctx, ticker, tag)
				if err != nil {
					a.logger.Warn("asset skipped",
						applogger.String("ticker", ticker),
						applogger.Error(err),
					)
					skipped <- ticker
					continue
				}
				records <- *rec
			}
		}()
	}

	for _, t := range tickers {
		jobs <- t
	}
	close(jobs)
	wg.Wait()
	close(records)
	close(skipped)

	out := make([]models.AssetRecord, 0, len(tickers))
	for rec := range records {
		if a.metrics != nil {
			a.metrics.AssetsEvaluated.WithLabelValues(string(rec.Class), "ok").Inc()
		}
		out = append(out, rec)
	}
	var skip []string
	for t := range skipped {
		if a.metrics != nil {
			a.metrics.AssetsEvaluated.WithLabelValues("unknown", "skipped").Inc()
		}
		skip = append(skip, t)
	}
	return out, skip
}

func (a *Analyzer) evaluateAsset(ctx context.Context, ticker string, tag models.SourceTag) (*models.AssetRecord, error) {
	venue, err := a.resolver.Resolve(ctx, ticker)
	if err != nil {
		return nil, err
	}

	daily, err := a.source.Fetch(ctx, venue.Symbol, venue.Exchange, venue.Screener, models.Interval1d)
	if err != nil {
		return nil, err
	}

	weekly, werr := a.source.Fetch(ctx, venue.Symbol, venue.Exchange, venue.Screener, models.Interval1w)
	if werr != nil {
		weekly = nil
	}

	hs := a.horizons.Evaluate(ctx, venue)

	rec := &models.AssetRecord{
		Ticker:              ticker,
		Venue:               venue,
		Class:               venue.Class,
		DailyRecommendation: daily.Recommendation,
		RSI:                 daily.RSI,
		MACDHist:            daily.MACDHist,
		Score:               scoring.Score(daily, weekly),
		RecPriority:         scoring.RecPriority(daily.Recommendation),
		ShortScore:          hs.Short,
		MidScore:            hs.Mid,
		LongScore:           hs.Long,
		Horizon:             hs.Recommended,
		Source:              tag,
	}
	if weekly != nil {
		rec.WeeklyRecommendation = weekly.Recommendation
	} else {
		rec.WeeklyRecommendation = models.RecNone
	}
	if atr, ok := daily.ATR(); ok {
		v := atr
		rec.ATR = &v
	}
	return rec, nil
}

// enrich attaches the current price and take-profit target.
func (a *Analyzer) enrich(ctx context.Context, rec *models.AssetRecord) {
	symbol := rec.Venue.MarketDataSymbol
	if rec.Class == models.ClassCrypto {
		symbol = rec.Venue.Symbol
	}

	// Cached, so this re-read is free.
	fallback, err := a.source.Fetch(ctx, rec.Venue.Symbol, rec.Venue.Exchange, rec.Venue.Screener, models.Interval1d)
	if err != nil {
		fallback = nil
	}

	price, ok := a.prices.Price(ctx, symbol, rec.Class, fallback)
	if !ok {
		return
	}
	rec.Price = &price

	tp := a.cfg.Risk.TakeProfit(price, rec.ATR)
	rec.TakeProfit = &tp
}

func (a *Analyzer) report(ctx context.Context, result *models.RunResult) {
	text := FormatReport(result)

	if a.messenger != nil {
		if _, err := a.messenger.Send(ctx, text, true); err != nil {
			a.logger.Error("report delivery failed", applogger.Error(err))
		}
	}
	if a.mailer != nil {
		subject := "Asset report " + result.StartedAt.Format("2006-01-02 15:04")
		if err := a.mailer.Send(subject, text); err != nil {
			a.logger.Error("report email enqueue failed", applogger.Error(err))
		}
	}
}

func (a *Analyzer) notifyFailure(err error) {
	if a.messenger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, serr := a.messenger.Send(ctx, "Analysis run failed: "+err.Error(), false); serr != nil {
		a.logger.Error("failure notice not delivered", applogger.Error(serr))
	}
}

func partition(records []models.AssetRecord) (stocks, cryptos []models.AssetRecord) {
	for _, r := range records {
		if r.Class == models.ClassCrypto {
			cryptos = append(cryptos, r)
		} else {
			stocks = append(stocks, r)
		}
	}
	return stocks, cryptos
}

// rankTop filters out zero scores, sorts descending by score and truncates.
func rankTop(records []models.AssetRecord, n int) []models.AssetRecord {
	filtered := make([]models.AssetRecord, 0, len(records))
	for _, r := range records {
		if r.Score > 0 {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})
	if len(filtered) > n {
		filtered = filtered[:n]
	}
	return filtered
}

// sortWallet sorts ascending by recommendation priority, unfiltered and
// untruncated.
func sortWallet(records []models.AssetRecord) []models.AssetRecord {
	out := make([]models.AssetRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecPriority < out[j].RecPriority
	})
	return out
}

func headCopy(records []models.AssetRecord, n int) []models.AssetRecord {
	if len(records) < n {
		n = len(records)
	}
	out := make([]models.AssetRecord, n)
	copy(out, records[:n])
	return out
}
