package signalbridge

import (
	"os"
	"testing"
	"time"
)

func fakeBridge(onResize func(Size)) *Bridge {
	b := New(int(os.Stdout.Fd()), onResize)
	b.getSize = func(fd int) (int, int, error) { return 80, 24, nil }
	return b
}

func TestStartDeliversInitialSize(t *testing.T) {
	sizes := make(chan Size, 1)
	b := fakeBridge(func(s Size) { sizes <- s })
	b.Start()
	defer b.Stop()

	select {
	case got := <-sizes:
		if got != (Size{Cols: 80, Rows: 24}) {
			t.Errorf("initial size = %+v, want {80 24}", got)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an initial size delivery on Start")
	}
}

func TestStopStopsDelivery(t *testing.T) {
	b := fakeBridge(func(Size) {})
	b.Start()
	b.Stop()
}

func TestSignalTriggersResize(t *testing.T) {
	sizes := make(chan Size, 2)
	b := fakeBridge(func(s Size) { sizes <- s })
	b.Start()
	defer b.Stop()
	<-sizes // initial delivery

	b.sig <- os.Interrupt // simulate a delivered signal on the same channel
	select {
	case <-sizes:
	case <-time.After(time.Second):
		t.Fatal("expected a resize delivery after a signal")
	}
}
