package main

import (
	"context"
	"testing"
)

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	t.Run("stop cancels", func(t *testing.T) {
		t.Parallel()
		ctx, stop := notifyContext(context.Background())
		if ctx.Err() != nil {
			t.Fatal("context canceled before stop")
		}
		stop()
		<-ctx.Done()
	})

	t.Run("parent cancels", func(t *testing.T) {
		t.Parallel()
		parent, cancel := context.WithCancel(context.Background())
		ctx, stop := notifyContext(parent)
		defer stop()
		cancel()
		<-ctx.Done()
	})
}
