package server

import (
	"time"
)

type Conf struct {
	Addr         string
	TimeoutRead  time.Duration
	TimeoutWrite time.Duration
	TimeoutIdle  time.Duration
	// Grace bounds how long in-flight requests get on shutdown.
	Grace time.Duration
}

// ServerConfigs returns the defaults for addr. Write timeout must outlast
// the slowest upstream generation.
func ServerConfigs(addr string) *Conf {
	return &Conf{
		Addr:         addr,
		TimeoutRead:  time.Second * 30,
		TimeoutWrite: time.Minute * 5,
		TimeoutIdle:  time.Second * 60,
		Grace:        time.Second * 10,
	}
}
