package table

const defaultChunkTuples = 1 << 16

// Config holds table parameters.
type Config struct {
	ChunkTuples int  // tuples per chunk, default 65536 (1 MiB)
	UseOffheap  bool // allocate chunks with anonymous mmap instead of the Go heap
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ChunkTuples: defaultChunkTuples,
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise normalizes c.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	if c.ChunkTuples <= 0 {
		c.ChunkTuples = defaultChunkTuples
	}
	return c
}
