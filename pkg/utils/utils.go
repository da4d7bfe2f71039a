// Package utils 提供 ID（雪花）/retry/时间等通用工具
package utils

import (
	"fmt"
	"sync"
	"time"
)

// SnowflakeID 雪花算法 ID 生成器
type SnowflakeID struct {
	mu        sync.Mutex
	timestamp int64
	sequence  int64
	nodeID    int64
}

// NewSnowflakeID 创建雪花 ID 生成器
func NewSnowflakeID(nodeID int64) *SnowflakeID {
	return &SnowflakeID{
		nodeID: nodeID & 0x3FF, // 10 bits
	}
}

// Generate 生成雪花 ID
func (s *SnowflakeID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()

	if now == s.timestamp {
		s.sequence = (s.sequence + 1) & 0xFFF // 12 bits
		if s.sequence == 0 {
			for now <= s.timestamp {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		s.sequence = 0
	}

	s.timestamp = now

	// 组合 ID：timestamp(41 bits) + nodeID(10 bits) + sequence(12 bits)
	return (now << 22) | (s.nodeID << 12) | s.sequence
}

// GenerateString 生成带前缀的字符串 ID，用于业务主键
func (s *SnowflakeID) GenerateString(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, s.Generate())
}

var defaultGenerator = NewSnowflakeID(1)

// GenerateString 使用默认生成器生成带前缀的字符串 ID
func GenerateString(prefix string) string {
	return defaultGenerator.GenerateString(prefix)
}

// RetryWithBackoff 带指数退避的重试
func RetryWithBackoff(maxAttempts int, initialDelay time.Duration, maxDelay time.Duration, fn func() error) error {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < maxAttempts-1 {
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * 1.5)
			if delay > maxDelay {
				delay = maxDelay
			}
		}
	}
	return lastErr
}

// TimeNow 获取当前时间（毫秒）
func TimeNow() int64 {
	return time.Now().UnixMilli()
}
