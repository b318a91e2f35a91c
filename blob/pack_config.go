package blob

import (
	"fmt"

	"github.com/dtno1/clockres/errs"
	"github.com/dtno1/clockres/internal/options"
	"github.com/dtno1/clockres/section"
)

// PackConfig holds Pack's resolved settings after PackOptions have been applied.
type PackConfig struct {
	ClockIDBase       uint32
	Resolution        section.Resolution
	Idle              bool
	Compress          bool
	ThumbnailOverride string
}

// PackOption configures a Pack call.
type PackOption = options.Option[*PackConfig]

// NewPackConfig returns a PackConfig with compression enabled and no
// resolution forced (autodetected from the first layer's first image).
func NewPackConfig() *PackConfig {
	return &PackConfig{Compress: true}
}

// WithClockID sets the clock id base, which must fall in [50000, 65535].
func WithClockID(id uint32) PackOption {
	return options.New(func(c *PackConfig) error {
		if id < 50000 || id > 65535 {
			return fmt.Errorf("clock id %d out of range [50000,65535]: %w", id, errs.ErrBadClockID)
		}
		c.ClockIDBase = id
		return nil
	})
}

// WithFaceSize forces the resolution instead of autodetecting it.
func WithFaceSize(width, height int) PackOption {
	return options.NoError(func(c *PackConfig) {
		c.Resolution = section.Resolution{Width: width, Height: height}
	})
}

// WithIdleMagic selects the idle-mode magic string instead of the default.
func WithIdleMagic() PackOption {
	return options.NoError(func(c *PackConfig) { c.Idle = true })
}

// WithoutCompression disables LZ4 compression of device-RGB chunks.
// JPG/GIF assets are always embedded opaquely regardless of this setting.
func WithoutCompression() PackOption {
	return options.NoError(func(c *PackConfig) { c.Compress = false })
}

// WithThumbnail overrides filename-based thumbnail detection.
func WithThumbnail(filename string) PackOption {
	return options.NoError(func(c *PackConfig) { c.ThumbnailOverride = filename })
}
