package link

import "time"

// Config controls protocol timing.
type Config struct {
	// ReadTimeout bounds the wait for each single-byte response.
	ReadTimeout time.Duration
	// PollInterval is how often ForceSync checks for the flush response.
	PollInterval time.Duration
	// TapRelease is how long TapCommand holds the input before releasing it.
	// Close waits the same amount after its final neutral packet.
	TapRelease time.Duration
}

func defaultConfig() Config {
	return Config{
		ReadTimeout:  time.Second,
		PollInterval: 100 * time.Millisecond,
		TapRelease:   50 * time.Millisecond,
	}
}

// DefaultConfig returns the timings the firmware was tuned for.
func DefaultConfig() Config { return defaultConfig() }

func (c Config) withDefaults() Config {
	d := defaultConfig()
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.TapRelease <= 0 {
		c.TapRelease = d.TapRelease
	}
	return c
}
