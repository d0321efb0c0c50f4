package browser

import (
	"math/rand"
	"time"
)

// RandomDelay waits for a random duration between min and max milliseconds
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := rand.Intn(max-min+1) + min
	time.Sleep(time.Duration(duration) * time.Millisecond)
}

// Settle waits a fixed duration for the page to settle after an action
// that triggers navigation or async validation.
func Settle(d time.Duration) {
	time.Sleep(d)
}
