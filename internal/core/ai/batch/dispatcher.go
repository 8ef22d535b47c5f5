package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pfc-analyzer/internal/core/nutrition"
	"pfc-analyzer/internal/infrastructure/config"
	"pfc-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// ProcessFunc 單一項目的處理管線，由引擎注入。
// 實作負責重查緩存、萃取、換算、計算與回填緩存。
type ProcessFunc func(ctx context.Context, text string) (*nutrition.PFCResult, error)

// Result 單一項目的處理結果。結果為 nil 且無錯誤代表無可萃取內容，不視為失敗。
type Result struct {
	Result *nutrition.PFCResult
	Err    error
}

// Status 調度器狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	BatchSize      int   `json:"batch_size"`
	MaxQueueSize   int   `json:"max_queue_size"`
}

// item 佇列中的待處理項目。入列後恰好被取出一次：
// 或進入某個批次被處理，或在關閉時被排空拒絕。
type item struct {
	id         string
	text       string
	result     chan Result
	enqueuedAt time.Time
}

// Dispatcher 批次調度器。背景 goroutine 同時監聽固定間隔的 ticker
// 與入列通知，每次最多取出一個批次並行處理；批次內各項目獨立，
// 單一項目失敗不影響同批其他項目。批次處理期間不會啟動第二個批次。
type Dispatcher struct {
	config    *config.Config
	process   ProcessFunc
	mu        sync.Mutex
	queue     []*item
	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	processed int64
}

// NewDispatcher 創建批次調度器並啟動背景處理迴圈
func NewDispatcher(cfg *config.Config, process ProcessFunc) *Dispatcher {
	d := &Dispatcher{
		config:  cfg,
		process: process,
		queue:   make([]*item, 0, cfg.Batch.MaxQueueSize),
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	common.LogInfo("批次調度器已啟動",
		zap.Duration("flush_interval", cfg.Batch.FlushInterval),
		zap.Int("batch_size", cfg.Batch.Size),
		zap.Int("max_queue_size", cfg.Batch.MaxQueueSize),
	)

	return d
}

// Enqueue 將待分析文字加入佇列，返回接收結果的 channel。
// 等待上限由呼叫端自行用 context 控制；放棄等待不會取消已在處理中的項目。
func (d *Dispatcher) Enqueue(ctx context.Context, text string) (<-chan Result, error) {
	select {
	case <-d.done:
		return nil, common.ErrDispatcherClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	it := &item{
		id:         common.GenerateUUID(),
		text:       text,
		result:     make(chan Result, 1),
		enqueuedAt: time.Now(),
	}

	d.mu.Lock()
	if len(d.queue) >= d.config.Batch.MaxQueueSize {
		d.mu.Unlock()
		return nil, fmt.Errorf("queue is full")
	}
	d.queue = append(d.queue, it)
	queueLen := len(d.queue)
	d.mu.Unlock()

	// 喚醒處理迴圈（非阻塞，已有待處理通知時直接略過）
	select {
	case d.notify <- struct{}{}:
	default:
	}

	common.LogDebug("Request enqueued",
		zap.String("item_id", it.id),
		zap.Int("queue_length", queueLen),
	)

	return it.result, nil
}

// run 背景處理迴圈
func (d *Dispatcher) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.Batch.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.done:
			d.drain()
			return
		case <-ticker.C:
			d.flush()
		case <-d.notify:
			d.flush()
		}
	}
}

// flush 取出至多一個批次並行處理。在迴圈內同步執行，
// 天然保證同一時間只有一個批次在處理中。
func (d *Dispatcher) flush() {
	d.mu.Lock()
	if len(d.queue) == 0 {
		d.mu.Unlock()
		return
	}
	n := d.config.Batch.Size
	if n > len(d.queue) {
		n = len(d.queue)
	}
	batch := d.queue[:n]
	d.queue = d.queue[n:]
	d.mu.Unlock()

	common.LogInfo("開始處理批次",
		zap.Int("batch_size", len(batch)),
	)

	var wg sync.WaitGroup
	for _, it := range batch {
		wg.Add(1)
		go func(it *item) {
			defer wg.Done()
			d.handleItem(it)
		}(it)
	}
	wg.Wait()
}

// handleItem 處理單一項目，錯誤只回報給該項目的等待者
func (d *Dispatcher) handleItem(it *item) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError("批次項目處理 panic",
				zap.Any("error", r),
				zap.String("item_id", it.id),
			)
			it.result <- Result{Err: fmt.Errorf("panic in batch item: %v", r)}
		}
	}()

	// 呼叫端放棄等待也不中斷處理，結果仍會回填緩存供後續呼叫使用
	result, err := d.process(context.Background(), it.text)
	atomic.AddInt64(&d.processed, 1)

	if err != nil {
		common.LogWarn("批次項目處理失敗",
			zap.Error(err),
			zap.String("item_id", it.id),
			zap.Duration("queued_for", time.Since(it.enqueuedAt)),
		)
		it.result <- Result{Err: err}
		return
	}

	it.result <- Result{Result: result}
}

// drain 關閉時排空佇列，所有未處理項目以關閉錯誤拒絕
func (d *Dispatcher) drain() {
	d.mu.Lock()
	pending := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, it := range pending {
		it.result <- Result{Err: common.ErrDispatcherClosed}
	}

	if len(pending) > 0 {
		common.LogInfo("調度器關閉，拒絕未處理項目",
			zap.Int("pending", len(pending)),
		)
	}
}

// GetStatus 獲取調度器狀態
func (d *Dispatcher) GetStatus() *Status {
	d.mu.Lock()
	queueLen := len(d.queue)
	d.mu.Unlock()

	return &Status{
		QueueLength:    queueLen,
		ProcessedCount: atomic.LoadInt64(&d.processed),
		BatchSize:      d.config.Batch.Size,
		MaxQueueSize:   d.config.Batch.MaxQueueSize,
	}
}

// Close 關閉調度器並等待處理迴圈結束
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
}
