package harness

import (
	"fmt"
	"time"

	"github.com/ic-timon/karybench/indexer"
	"github.com/ic-timon/karybench/indexer/dynamic"
	"github.com/ic-timon/karybench/table"
)

// KeyDist insert key 的分布
type KeyDist string

const (
	KeyDistUniform   KeyDist = "uniform"
	KeyDistLognormal KeyDist = "lognormal"
)

// Config 压测配置
type Config struct {
	Duration        time.Duration // RUNNING 阶段时长
	ProfileInterval time.Duration // 区间采样周期
	MaxKeyCount     uint64        // 0 表示 key 无上界递增
	InitKeyCount    uint64        // WARMUP 阶段预插入的 key 数
	InserterCount   int
	ReaderCount     int

	Index  dynamic.Kind
	Router *indexer.Config // KindKAry 使用
	Table  *table.Config

	KeyDist        KeyDist
	LognormalSigma float64

	Pin       bool    // 每个 worker 绑定一个逻辑核
	RateLimit float64 // 每个 worker 的 ops/s 上限，0 不限速
}

// DefaultConfig 默认压测配置
func DefaultConfig() *Config {
	return &Config{
		Duration:        10 * time.Second,
		ProfileInterval: 500 * time.Millisecond,
		InitKeyCount:    1 << 20,
		InserterCount:   0,
		ReaderCount:     1,
		Index:           dynamic.KindKAry,
		Router:          indexer.DefaultConfig(),
		Table:           table.DefaultConfig(),
		KeyDist:         KeyDistUniform,
		LognormalSigma:  1.0,
		Pin:             true,
	}
}

// OrDefault c 为 nil 时返回 DefaultConfig()
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	return c
}

// Rounds 完整运行的区间数
func (c *Config) Rounds() int {
	return int(c.Duration / c.ProfileInterval)
}

// Workers worker 总数
func (c *Config) Workers() int {
	return c.InserterCount + c.ReaderCount
}

// Validate 返回第一个非法配置项
func (c *Config) Validate() error {
	if c.MaxKeyCount != 0 && c.InitKeyCount > c.MaxKeyCount {
		return fmt.Errorf("%w: init_key_count %d > max_key_count %d",
			ErrInitExceedsMax, c.InitKeyCount, c.MaxKeyCount)
	}
	if c.InserterCount < 0 || c.ReaderCount < 0 {
		return fmt.Errorf("%w: inserters %d, readers %d", ErrInvalidWorkers, c.InserterCount, c.ReaderCount)
	}
	if c.ProfileInterval <= 0 || c.Duration < c.ProfileInterval {
		return fmt.Errorf("%w: duration %s, interval %s", ErrInvalidDuration, c.Duration, c.ProfileInterval)
	}
	switch c.KeyDist {
	case KeyDistUniform, "":
	case KeyDistLognormal:
		if c.MaxKeyCount == 0 {
			return fmt.Errorf("%w: lognormal keys need max_key_count", ErrInvalidKeyDist)
		}
		if c.LognormalSigma <= 0 {
			return fmt.Errorf("%w: sigma %g", ErrInvalidKeyDist, c.LognormalSigma)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKeyDist, c.KeyDist)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: %g", ErrInvalidRateLimit, c.RateLimit)
	}
	switch c.Index {
	case dynamic.KindHash, dynamic.KindKAry, "":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidIndex, c.Index)
	}
	if c.Index == dynamic.KindKAry {
		if err := c.Router.OrDefault().Validate(); err != nil {
			return err
		}
	}
	return nil
}
