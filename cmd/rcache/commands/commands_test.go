package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rcache/cmd/rcache/commands"
	"go.trai.ch/rcache/internal/adapters/watcher"
	"go.trai.ch/rcache/internal/app"
	"go.trai.ch/rcache/internal/build"
)

type mockApp struct {
	resolveFunc func(ctx context.Context, paths []string, opts app.ResolveOptions) error
	watchFunc   func(ctx context.Context, paths []string, opts app.WatchOptions) error
}

func (m *mockApp) Resolve(ctx context.Context, paths []string, opts app.ResolveOptions) error {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, paths, opts)
	}
	return nil
}

func (m *mockApp) Watch(ctx context.Context, paths []string, opts app.WatchOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, paths, opts)
	}
	return nil
}

type jsonRecorder struct {
	enabled bool
}

func (r *jsonRecorder) SetJSON(enable bool) { r.enabled = enable }

func TestCommands_Resolve(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedOpts app.ResolveOptions
		var capturedPaths []string
		called := false

		mock := &mockApp{
			resolveFunc: func(_ context.Context, paths []string, opts app.ResolveOptions) error {
				capturedOpts = opts
				capturedPaths = paths
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"resolve", "a.yaml", "b.yaml", "--class", "Square,Shape", "--stats", "--workers", "3"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, []string{"a.yaml", "b.yaml"}, capturedPaths)
		assert.Equal(t, []string{"Square", "Shape"}, capturedOpts.Classes)
		assert.True(t, capturedOpts.Stats)
		assert.Equal(t, 3, capturedOpts.Workers)
	})

	t.Run("returns error on resolve failure", func(t *testing.T) {
		mock := &mockApp{
			resolveFunc: func(_ context.Context, _ []string, _ app.ResolveOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"resolve", "a.yaml"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("shows usage when no files provided", func(t *testing.T) {
		mock := &mockApp{
			resolveFunc: func(_ context.Context, _ []string, _ app.ResolveOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"resolve"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Usage:")
	})
}

func TestCommands_Watch(t *testing.T) {
	t.Run("defaults debounce to the watcher window", func(t *testing.T) {
		var captured app.WatchOptions
		mock := &mockApp{
			watchFunc: func(_ context.Context, _ []string, opts app.WatchOptions) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"watch", "a.yaml"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, watcher.DefaultWindow, captured.Debounce)
		assert.Empty(t, captured.Classes)
	})

	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.WatchOptions
		var capturedPaths []string
		mock := &mockApp{
			watchFunc: func(_ context.Context, paths []string, opts app.WatchOptions) error {
				captured = opts
				capturedPaths = paths
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"watch", "a.yaml", "-w", "2", "-c", "Square", "--debounce", "250ms"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, []string{"a.yaml"}, capturedPaths)
		assert.Equal(t, 250*time.Millisecond, captured.Debounce)
		assert.Equal(t, []string{"Square"}, captured.Classes)
		assert.Equal(t, 2, captured.Workers)
	})
}

func TestCommands_JSONFlag(t *testing.T) {
	t.Run("switches the logger", func(t *testing.T) {
		rec := &jsonRecorder{}
		cli := commands.New(&mockApp{}, commands.WithFormatSwitcher(rec))
		cli.SetArgs([]string{"--json", "resolve", "a.yaml"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.True(t, rec.enabled)
	})

	t.Run("leaves the logger alone by default", func(t *testing.T) {
		rec := &jsonRecorder{}
		cli := commands.New(&mockApp{}, commands.WithFormatSwitcher(rec))
		cli.SetArgs([]string{"resolve", "a.yaml"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.False(t, rec.enabled)
	})
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "rcache version "+build.Version)
}
