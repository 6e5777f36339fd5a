package board

import (
	"runtime"
	"time"
)

func yield() {
	runtime.Gosched()
	time.Sleep(time.Millisecond)
}

func boundedTimeout() <-chan time.Time {
	return time.After(2 * time.Second)
}
