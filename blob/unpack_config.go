package blob

import (
	"github.com/dtno1/clockres/internal/options"
)

// UnpackConfig holds Unpack's resolved settings after UnpackOptions have
// been applied.
type UnpackConfig struct {
	// MinChunkLen is the smallest (offset,length) pair ChunkIndex.lookup
	// will even attempt to confirm as a real chunk reference; below this
	// a candidate is rejected outright rather than parsed, since no
	// legitimate chunk is shorter than its own header.
	MinChunkLen uint32

	// AreaNumCount is the number of i32 entries a dataType==112 layer's
	// area_num field carries, matching the batch unpacker's
	// --area-num-count knob.
	AreaNumCount int
}

// UnpackOption configures an Unpack call.
type UnpackOption = options.Option[*UnpackConfig]

// NewUnpackConfig returns an UnpackConfig with the defaults from §6.
func NewUnpackConfig() *UnpackConfig {
	return &UnpackConfig{MinChunkLen: 16, AreaNumCount: 4}
}

// WithMinChunkLen sets the minimum byte length a candidate imgArr slot
// must declare before ChunkIndex.lookup will try to confirm it as a real
// chunk reference.
func WithMinChunkLen(n uint32) UnpackOption {
	return options.NoError(func(c *UnpackConfig) { c.MinChunkLen = n })
}

// WithAreaNumCount overrides the number of area_num integers a dataType==112
// layer carries (default 4, matching §3's Layer record).
func WithAreaNumCount(n int) UnpackOption {
	return options.NoError(func(c *UnpackConfig) { c.AreaNumCount = n })
}
