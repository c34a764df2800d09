package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

func TestFromPassiveTracksSteps(t *testing.T) {
	t.Parallel()

	fake := clocktesting.NewFakeClock(time.Unix(100, 0))
	clk := FromPassive(fake)

	assert.Equal(t, time.Duration(0), clk.Now())

	fake.Step(500 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, clk.Now())

	fake.Step(1500 * time.Millisecond)
	assert.Equal(t, 2*time.Second, clk.Now())
}

func TestNowNeverGoesBackwards(t *testing.T) {
	t.Parallel()

	start := time.Unix(100, 0)
	fake := clocktesting.NewFakeClock(start)
	clk := FromPassive(fake)

	fake.Step(3 * time.Second)
	require.Equal(t, 3*time.Second, clk.Now())

	// Rewind the source; the wrapper holds its high-water mark.
	fake.SetTime(start.Add(time.Second))
	assert.Equal(t, 3*time.Second, clk.Now())

	fake.SetTime(start.Add(5 * time.Second))
	assert.Equal(t, 5*time.Second, clk.Now())
}

func TestRealClockStartsAtZero(t *testing.T) {
	t.Parallel()

	clk := New()
	d := clk.Now()
	assert.GreaterOrEqual(t, d, time.Duration(0))
	assert.Less(t, d, time.Second)
}
