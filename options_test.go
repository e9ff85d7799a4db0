package iffmeta

import (
	"context"
	"log/slog"
	"testing"

	"github.com/simonhull/iffmeta/internal/iff"
)

func TestOpenOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts := defaultOptions()

		if !opts.infoPass {
			t.Error("expected infoPass to be true")
		}
		if opts.strictParsing || opts.ignoreWarnings {
			t.Error("expected strict and ignore to be false")
		}
		if opts.logger == nil || opts.logger.Enabled(context.Background(), slog.LevelError) {
			t.Error("expected a default logger that discards")
		}
	})

	t.Run("WithLogger nil", func(t *testing.T) {
		opts := defaultOptions()
		WithLogger(nil)(opts)

		if opts.logger.Enabled(context.Background(), slog.LevelError) {
			t.Error("nil logger should discard")
		}
	})

	t.Run("WithoutInfoPass", func(t *testing.T) {
		opts := defaultOptions()
		WithoutInfoPass()(opts)

		if opts.infoPass {
			t.Error("expected infoPass to be false")
		}
	})
}

func TestSaveOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts := defaultSaveOptions()

		if opts.backupSuffix != "" {
			t.Errorf("expected empty backupSuffix, got %q", opts.backupSuffix)
		}
		if opts.validate {
			t.Error("expected validate to be false")
		}
		if opts.preserveModTime {
			t.Error("expected preserveModTime to be false")
		}
		if opts.bufferSize != iff.DefaultBufferSize {
			t.Errorf("bufferSize = %d, want %d", opts.bufferSize, iff.DefaultBufferSize)
		}
	})

	t.Run("WithBufferSize", func(t *testing.T) {
		opts := defaultSaveOptions()
		WithBufferSize(7)(opts)
		if opts.bufferSize != 7 {
			t.Errorf("bufferSize = %d, want 7", opts.bufferSize)
		}

		WithBufferSize(0)(opts)
		if opts.bufferSize != iff.DefaultBufferSize {
			t.Errorf("bufferSize = %d, want default", opts.bufferSize)
		}
	})

	t.Run("all options combined", func(t *testing.T) {
		logger := slog.New(slog.DiscardHandler)
		opts := applySaveOptions([]SaveOption{
			WithBackup(".backup"),
			WithValidation(),
			WithPreserveModTime(),
			WithSaveLogger(logger),
		})

		if opts.backupSuffix != ".backup" {
			t.Errorf("expected backupSuffix %q, got %q", ".backup", opts.backupSuffix)
		}
		if !opts.validate || !opts.preserveModTime {
			t.Error("expected validate and preserveModTime to be true")
		}
		if opts.logger != logger {
			t.Error("logger not applied")
		}
	})
}

func TestVersionInfo_String(t *testing.T) {
	tests := []struct {
		info VersionInfo
		want string
	}{
		{VersionInfo{Version: "0.1.0"}, "0.1.0"},
		{VersionInfo{Version: "0.1.0", GitCommit: "3f2a9c1d07b4e5f6"}, "0.1.0 (3f2a9c1d07b4)"},
		{VersionInfo{Version: "0.1.0", GitCommit: "abc", Modified: true}, "0.1.0 (abc+dirty)"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.info, got, tt.want)
		}
	}
}
