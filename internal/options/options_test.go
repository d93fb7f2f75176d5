package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type decoderConfig struct {
	mode    string
	window  int
	strict  bool
	applied []string
}

func (c *decoderConfig) setWindow(n int) error {
	if n <= 0 {
		return errors.New("window must be positive")
	}
	c.window = n
	c.applied = append(c.applied, "window")

	return nil
}

func TestNew(t *testing.T) {
	t.Run("applies and reports success", func(t *testing.T) {
		cfg := &decoderConfig{}
		opt := New(func(c *decoderConfig) error { return c.setWindow(4096) })

		require.NoError(t, opt.apply(cfg))
		require.Equal(t, 4096, cfg.window)
	})

	t.Run("propagates validation errors", func(t *testing.T) {
		cfg := &decoderConfig{}
		opt := New(func(c *decoderConfig) error { return c.setWindow(-1) })

		err := opt.apply(cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "window must be positive")
	})
}

func TestNoError(t *testing.T) {
	cfg := &decoderConfig{}
	opt := NoError(func(c *decoderConfig) {
		c.strict = true
		c.applied = append(c.applied, "strict")
	})

	require.NoError(t, opt.apply(cfg))
	require.True(t, cfg.strict)
}

func TestApply(t *testing.T) {
	t.Run("runs options in order", func(t *testing.T) {
		cfg := &decoderConfig{}

		err := Apply(cfg,
			New(func(c *decoderConfig) error { return c.setWindow(1024) }),
			NoError(func(c *decoderConfig) { c.mode = "portable"; c.applied = append(c.applied, "mode") }),
		)

		require.NoError(t, err)
		require.Equal(t, []string{"window", "mode"}, cfg.applied)
		require.Equal(t, "portable", cfg.mode)
	})

	t.Run("stops at the first error", func(t *testing.T) {
		cfg := &decoderConfig{}

		err := Apply(cfg,
			New(func(c *decoderConfig) error { return c.setWindow(512) }),
			New(func(c *decoderConfig) error { return c.setWindow(0) }),
			NoError(func(c *decoderConfig) { c.mode = "never set" }),
		)

		require.Error(t, err)
		require.Equal(t, 512, cfg.window, "first option stays applied")
		require.Empty(t, cfg.mode, "options after the failure must not run")
	})

	t.Run("accepts zero options", func(t *testing.T) {
		cfg := &decoderConfig{}
		require.NoError(t, Apply(cfg))
		require.Equal(t, &decoderConfig{}, cfg)
	})
}

func TestApply_NonStructTarget(t *testing.T) {
	var n int
	opt := NoError(func(p *int) { *p = 7 })

	require.NoError(t, Apply(&n, opt))
	require.Equal(t, 7, n)
}
