//go:build !unix

package static

func fileIdentity(string) (uint64, bool) {
	return 0, false
}
