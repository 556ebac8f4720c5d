package dispatch

import (
	"sync"
	"testing"
	"time"
)

func TestExecutorFIFO(t *testing.T) {
	e := NewExecutor()

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		if !e.Submit(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			wg.Done()
		}) {
			t.Fatal("Submit returned false on open lane")
		}
	}
	wg.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran out of order (got %d)", i, v)
		}
	}
	e.Close()
}

func TestExecutorCloseDrains(t *testing.T) {
	e := NewExecutor()

	var ran int
	var mu sync.Mutex
	for i := 0; i < 50; i++ {
		e.Submit(func() {
			time.Sleep(100 * time.Microsecond)
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	e.Close()

	select {
	case <-e.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("lane did not drain")
	}

	mu.Lock()
	defer mu.Unlock()
	if ran != 50 {
		t.Errorf("ran %d of 50 tasks before Done", ran)
	}
}

func TestExecutorSubmitAfterClose(t *testing.T) {
	e := NewExecutor()
	e.Close()
	<-e.Done()

	if e.Submit(func() { t.Error("task ran on closed lane") }) {
		t.Error("Submit returned true on closed lane")
	}
}

func TestExecutorCloseFromOwnTask(t *testing.T) {
	e := NewExecutor()
	e.Submit(func() { e.Close() })

	select {
	case <-e.Done():
	case <-time.After(time.Second):
		t.Fatal("Close from a lane task deadlocked")
	}
}

func TestExecutorDepth(t *testing.T) {
	e := NewExecutor()
	release := make(chan struct{})
	started := make(chan struct{})

	e.Submit(func() {
		close(started)
		<-release
	})
	<-started
	for i := 0; i < 9; i++ {
		e.Submit(func() {})
	}

	if d := e.Depth(); d != 10 {
		t.Errorf("Depth() = %d while blocked, want 10", d)
	}

	close(release)
	e.Close()
	<-e.Done()
	if d := e.Depth(); d != 0 {
		t.Errorf("Depth() = %d after drain", d)
	}
}
