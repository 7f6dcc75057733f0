package search

import "runtime"

// Config configures a Searcher.
type Config struct {
	MaxDepth uint32 // deepest iteration of iterative deepening
	Workers  int    // goroutines searching root children concurrently

	UseTT    bool // use a transposition table for boards that implement Hash
	TTShards int  // number of independently locked shards, a power of two
	TTSize   int  // entries per shard, a power of two
}

// DefaultConfig returns a configuration that searches up to 64 plies on every CPU.
func DefaultConfig() Config {
	return Config{
		MaxDepth: 64,
		Workers:  runtime.GOMAXPROCS(0),
		UseTT:    true,
		TTShards: 64,
		TTSize:   1 << 14,
	}
}

func (c Config) IsValid() bool {
	if c.MaxDepth == 0 || c.Workers <= 0 {
		return false
	}
	if c.UseTT && (!isPow2(c.TTShards) || !isPow2(c.TTSize)) {
		return false
	}
	return true
}

func isPow2(n int) bool { return n > 0 && n&(n-1) == 0 }
