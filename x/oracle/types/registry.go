package types

// CountOfTrustNumber returns the number of valid signatures required from a
// registry of n nodes, tolerating up to (n-1)/3 faulty or silent nodes.
// It is zero for an uninitialized registry.
func CountOfTrustNumber(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return (n-1)/3 + 1
}
