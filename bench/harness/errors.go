package harness

import "errors"

var (
	// ErrInitExceedsMax 有界 key 空间下预插入数超过上界
	ErrInitExceedsMax   = errors.New("harness: init key count exceeds max key count")
	ErrInvalidWorkers   = errors.New("harness: invalid worker count")
	ErrInvalidDuration  = errors.New("harness: invalid duration")
	ErrInvalidKeyDist   = errors.New("harness: invalid key distribution")
	ErrInvalidRateLimit = errors.New("harness: invalid rate limit")
	ErrInvalidIndex     = errors.New("harness: invalid index kind")
	// ErrAlreadyRun 重复调用 Run
	ErrAlreadyRun = errors.New("harness: already run")
)
