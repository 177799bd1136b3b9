package config

// SetAvailableMemoryForTest replaces the system memory probe until the
// returned function is called.
func SetAvailableMemoryForTest(f func() (uint64, error)) func() {
	prev := availableMemory
	availableMemory = f
	return func() { availableMemory = prev }
}
