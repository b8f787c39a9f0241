package ports

import "time"

type Policy struct {
	RefreshInterval  time.Duration `yaml:"refresh_interval"`
	PageSize         int           `yaml:"page_size"`
	BackoffInitial   time.Duration `yaml:"backoff_initial"`
	BackoffMax       time.Duration `yaml:"backoff_max"`
	FailureThreshold int           `yaml:"failure_threshold"` // consecutive failures before the view is marked degraded
	ResultQueueLen   int           `yaml:"result_queue_len"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	FrameInterval    time.Duration `yaml:"frame_interval"`
}

// DefaultPolicy mirrors the fixed values of the original dashboard: 1s refresh, 10 rows per page.
func DefaultPolicy() Policy {
	return Policy{
		RefreshInterval:  time.Second,
		PageSize:         10,
		BackoffInitial:   time.Second,
		BackoffMax:       30 * time.Second,
		FailureThreshold: 5,
		ResultQueueLen:   64,
		FetchTimeout:     10 * time.Second,
		FrameInterval:    100 * time.Millisecond,
	}
}

// WithDefaults fills zero fields from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.RefreshInterval <= 0 {
		p.RefreshInterval = d.RefreshInterval
	}
	if p.PageSize <= 0 {
		p.PageSize = d.PageSize
	}
	if p.BackoffInitial <= 0 {
		p.BackoffInitial = d.BackoffInitial
	}
	if p.BackoffMax <= 0 {
		p.BackoffMax = d.BackoffMax
	}
	if p.FailureThreshold <= 0 {
		p.FailureThreshold = d.FailureThreshold
	}
	if p.ResultQueueLen <= 0 {
		p.ResultQueueLen = d.ResultQueueLen
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = d.FetchTimeout
	}
	if p.FrameInterval <= 0 {
		p.FrameInterval = d.FrameInterval
	}
	return p
}
