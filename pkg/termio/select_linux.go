//go:build linux && (amd64 || arm64)

package termio

import "golang.org/x/sys/unix"

// nfdbits is the width of one unix.FdSet word on the architectures this
// file targets; unix.FdSet.Bits is []int64 there, unlike the []int32 some
// 32-bit architectures use, which is why this is scoped to amd64/arm64
// rather than written generically.
const nfdbits = 64

func newFdSet(fds ...int) (*unix.FdSet, int) {
	fs := &unix.FdSet{}
	nfd := 0
	for _, fd := range fds {
		fs.Bits[fd/nfdbits] |= 1 << (uint(fd) % nfdbits)
		if fd+1 > nfd {
			nfd = fd + 1
		}
	}
	return fs, nfd
}

func fdIsSet(fs *unix.FdSet, fd int) bool {
	return fs.Bits[fd/nfdbits]&(1<<(uint(fd)%nfdbits)) != 0
}

// pselect blocks until one of the descriptors set in rset is ready to
// read, with no timeout. On arm64 (and other architectures where the
// select syscall is emulated in userland) the timeout argument would be
// mutated by a vanilla select call, which matters for repeated use from
// the same struct; using Pselect with a nil timeout avoids that (see
// https://github.com/golang/go/issues/24189, the same bug the teacher's
// own select helper works around).
func pselect(nfd int, rset *unix.FdSet) error {
	_, err := unix.Pselect(nfd, rset, nil, nil, nil, nil)
	return err
}
