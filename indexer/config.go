package indexer

// Config holds router parameters.
type Config struct {
	NumLayers int // router depth L; 0 disables the router and lookups binary search the whole snapshot
	Fanout    int // branching factor k, at least 2; default 8
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		NumLayers: 3,
		Fanout:    8,
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise normalizes c.
// NumLayers is taken as given since zero is a valid depth.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	if c.Fanout == 0 {
		c.Fanout = 8
	}
	return c
}

// Validate reports configurations that can never build a router.
func (c *Config) Validate() error {
	if c.Fanout < 2 {
		return ErrInvalidFanout
	}
	if c.NumLayers < 0 {
		return ErrInvalidLayers
	}
	return nil
}
