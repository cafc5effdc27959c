//go:build windows

package timing

import "golang.org/x/sys/windows"

var (
	winmm           = windows.NewLazySystemDLL("winmm.dll")
	timeBeginPeriod = winmm.NewProc("timeBeginPeriod")
	timeEndPeriod   = winmm.NewProc("timeEndPeriod")
)

// RaiseResolution requests 1ms system timer granularity so the coarse part
// of Wait does not overshoot by the default 15.6ms tick. The returned func
// restores the previous setting.
func RaiseResolution() (restore func()) {
	if err := timeBeginPeriod.Find(); err != nil {
		return func() {}
	}
	r, _, _ := timeBeginPeriod.Call(1)
	if r != 0 {
		return func() {}
	}
	return func() { _, _, _ = timeEndPeriod.Call(1) }
}
