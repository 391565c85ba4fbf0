package caliper3d

import (
	"fmt"
	"sync"
)

// DebugLog prints only when Debug is on (DEBUG env var or the debug build tag).
func DebugLog(format string, args ...interface{}) {
	if !Debug {
		return
	}
	fmt.Printf("[DEBUG] "+format+"\n", args...)
}

var once sync.Once

func DebugLogOnce(format string, args ...interface{}) {
	if !Debug {
		return
	}
	once.Do(func() {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	})
}
