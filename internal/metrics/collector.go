package metrics

import (
	"context"
	"time"

	"github.com/keeslam/CarRentalManager-sub003/internal/model"
	"gorm.io/gorm"
)

// ClientCounter 在线客户端计数来源,由 websocket.Hub 实现
type ClientCounter interface {
	GetClientCount() int
}

// Collector 指标收集器
// 定期刷新数据库连接池、预订状态分布和在线客户端数
type Collector struct {
	db       *gorm.DB
	clients  ClientCounter
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
}

// NewCollector 创建指标收集器
func NewCollector(db *gorm.DB, clients ClientCounter, interval time.Duration) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		db:       db,
		clients:  clients,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start 启动指标收集器
func (c *Collector) Start() {
	if c.started {
		return
	}
	c.started = true
	go c.collect()
}

// Stop 停止指标收集器,未启动时直接返回
func (c *Collector) Stop() {
	c.cancel()
	if c.started {
		<-c.done
	}
}

// collect 定期收集指标
func (c *Collector) collect() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			_ = UpdateDatabaseConnections(c.db)
			c.collectReservationStatuses()
			if c.clients != nil {
				UpdateWebsocketClients(c.clients.GetClientCount())
			}
		}
	}
}

// collectReservationStatuses 刷新预订状态分布
func (c *Collector) collectReservationStatuses() {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	err := c.db.Model(&model.ReservationModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return
	}
	for _, row := range rows {
		UpdateReservationsByStatus(row.Status, float64(row.Count))
	}
}
