package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/lineupdesk/internal/adapters/optimizer"
	"github.com/okian/lineupdesk/internal/domain/model"
)

// fakeBackend stands in for the optimization service. When block is set,
// OptimizeBatch waits for it to close or for the caller's context.
type fakeBackend struct {
	mu      sync.Mutex
	calls   int
	last    optimizer.BatchRequest
	block   chan struct{}
	started chan struct{}
	batch   optimizer.Batch
	err     error

	players  optimizer.Players
	fetchErr error
}

func newFakeBackend(lineups int) *fakeBackend {
	batch := optimizer.Batch{RequestID: "req-1", Target: "http://fake", Count: lineups}
	for i := range lineups {
		batch.Lineups = append(batch.Lineups, model.Lineup{
			{Name: fmt.Sprintf("Player %d", i), Team: "NYY", Position: model.Position{Primary: "OF"}, Salary: 5000 + i*100, Points: float64(10 + i)},
			{Name: "Gerrit Cole", Team: "NYY", Position: model.Position{Primary: "SP"}, Salary: 9800, Points: 20},
		})
	}
	return &fakeBackend{batch: batch, started: make(chan struct{}, 8)}
}

func (f *fakeBackend) OptimizeBatch(ctx context.Context, r optimizer.BatchRequest) (optimizer.Batch, error) {
	f.mu.Lock()
	f.calls++
	f.last = r
	block := f.block
	f.mu.Unlock()

	f.started <- struct{}{}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return optimizer.Batch{}, &optimizer.Error{Kind: optimizer.ErrTransport, Op: "optimize", Target: "http://fake", Err: ctx.Err()}
		}
	}
	return f.batch, f.err
}

func (f *fakeBackend) FetchPlayers(_ context.Context, sport string) (optimizer.Players, error) {
	if f.fetchErr != nil {
		return optimizer.Players{}, f.fetchErr
	}
	p := f.players
	p.Sport = strings.ToUpper(sport)
	return p, nil
}

func (f *fakeBackend) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeBackend) Last() optimizer.BatchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeBackend) hold() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.block = make(chan struct{})
	return f.block
}

// waitStarted blocks until a backend call has begun.
func (f *fakeBackend) waitStarted() bool {
	select {
	case <-f.started:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

// poolCSV builds a twelve player MLB pool.
func poolCSV() []byte {
	var b strings.Builder
	b.WriteString("Name,Team,Position,Salary,Predicted_DK_Points\n")
	teams := []string{"NYY", "BOS", "LAD"}
	for i := range 12 {
		fmt.Fprintf(&b, "Player %02d,%s,OF,%d,%.1f\n", i, teams[i%3], 3000+i*250, 5+float64(i)/2)
	}
	return []byte(b.String())
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
