//go:build !windows

package timing

// RaiseResolution is a no-op outside Windows; timers already have
// sub-millisecond granularity.
func RaiseResolution() (restore func()) {
	return func() {}
}
