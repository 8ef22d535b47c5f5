package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"pfc-analyzer/internal/core/nutrition"
	"pfc-analyzer/internal/infrastructure/config"
	"pfc-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Manager 分析結果緩存管理器。
// 鍵為去除前後空白並小寫化的輸入文字，過期判定在讀寫時惰性執行，
// 容量滿時按插入順序淘汰最舊的一筆（FIFO，非 LRU）。
type Manager struct {
	config *config.Config
	mu     sync.Mutex
	store  map[string]cacheEntry
	order  []string // 插入順序，僅含 store 中仍存在的鍵
	remote *remoteStore
	stats  cacheStats
}

// cacheEntry 緩存條目
type cacheEntry struct {
	result   *nutrition.PFCResult
	storedAt time.Time
}

// cacheStats 緩存統計
type cacheStats struct {
	hits        int64
	misses      int64
	evictions   int64
	expirations int64
}

// Key 生成緩存鍵：去除前後空白並小寫化
func Key(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// NewManager 創建新的緩存管理器。緩存停用時返回 nil（所有方法對 nil 安全）。
func NewManager(cfg *config.Config) *Manager {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &Manager{
		config: cfg,
		store:  make(map[string]cacheEntry),
		order:  make([]string, 0, cfg.Cache.MaxSize),
	}

	// 遠端緩存層為選配，連線失敗時退回純記憶體模式
	if cfg.Redis.Enabled {
		remote, err := newRemoteStore(cfg.Redis.Addr)
		if err != nil {
			common.LogWarn("遠端緩存連線失敗，僅使用記憶體緩存",
				zap.String("addr", cfg.Redis.Addr),
				zap.Error(err),
			)
		} else {
			m.remote = remote
		}
	}

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
		zap.Bool("遠端緩存", m.remote != nil),
	)

	return m
}

// Get 獲取緩存值。不存在或已過期視為未命中，過期條目在此惰性移除。
func (m *Manager) Get(ctx context.Context, text string) (*nutrition.PFCResult, bool) {
	if m == nil {
		return nil, false
	}

	key := Key(text)

	m.mu.Lock()
	if entry, exists := m.store[key]; exists {
		// 檢查是否過期
		if time.Since(entry.storedAt) > m.config.Cache.TTL {
			delete(m.store, key)
			m.removeFromOrder(key)
			m.stats.expirations++
			m.stats.misses++
			m.mu.Unlock()
			common.LogCacheMiss("pfc_result", key)
			return nil, false
		}

		m.stats.hits++
		result := entry.result
		m.mu.Unlock()
		common.LogCacheHit("pfc_result", key)
		return result, true
	}
	m.stats.misses++
	m.mu.Unlock()

	// 記憶體未命中時查遠端緩存層
	if m.remote != nil {
		if result, err := m.remote.get(ctx, key); err == nil && result != nil {
			m.setLocal(key, result)
			common.LogCacheHit("pfc_result_remote", key)
			return result, true
		}
	}

	common.LogCacheMiss("pfc_result", key)
	return nil, false
}

// Set 設置緩存值。插入後若超過容量上限，按插入順序淘汰一筆最舊的條目。
// 每次 Set 只檢查一次容量，因此瞬間最多只會超出容量一筆。
func (m *Manager) Set(ctx context.Context, text string, result *nutrition.PFCResult) {
	if m == nil || result == nil {
		return
	}

	key := Key(text)
	m.setLocal(key, result)

	// 遠端寫入為盡力而為，失敗不影響本地結果
	if m.remote != nil {
		if err := m.remote.set(ctx, key, result, m.config.Cache.TTL); err != nil {
			common.LogWarn("遠端緩存寫入失敗", zap.Error(err))
		}
	}
}

// setLocal 寫入記憶體緩存並執行容量淘汰
func (m *Manager) setLocal(key string, result *nutrition.PFCResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.store[key]; !exists {
		// 覆寫既有鍵時保留原插入位置，只有新鍵才追加
		m.order = append(m.order, key)
	}
	m.store[key] = cacheEntry{
		result:   result,
		storedAt: time.Now(),
	}

	if len(m.store) > m.config.Cache.MaxSize {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.store, oldest)
		m.stats.evictions++
		common.LogInfo("快取已淘汰(FIFO)",
			zap.String("鍵", oldest),
			zap.Int("目前容量", len(m.store)),
		)
	}
}

// removeFromOrder 自插入順序列表移除指定鍵，呼叫端需持有鎖
func (m *Manager) removeFromOrder(key string) {
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// Len 目前條目數
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

// GetStats 獲取緩存統計信息
func (m *Manager) GetStats() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{"enabled": false}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.stats.hits + m.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"enabled":     true,
		"size":        len(m.store),
		"max_size":    m.config.Cache.MaxSize,
		"hits":        m.stats.hits,
		"misses":      m.stats.misses,
		"evictions":   m.stats.evictions,
		"expirations": m.stats.expirations,
		"hit_ratio":   hitRatio,
	}
}

// Close 關閉緩存管理器
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]cacheEntry)
	m.order = m.order[:0]

	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)

	if m.remote != nil {
		return m.remote.close()
	}
	return nil
}
