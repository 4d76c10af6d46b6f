// Package conv holds allocation-free integer formatting used when the kernel
// composes log lines and status output into preallocated buffers.
// No fmt/strconv dependency, so it is equally usable on TinyGo targets.
package conv

// AppendUint appends the base-10 representation of n to dst.
func AppendUint(dst []byte, n uint64) []byte {
	if n == 0 {
		return append(dst, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, tmp[i:]...)
}

// AppendInt appends the base-10 representation of n to dst.
// Negative numbers supported.
func AppendInt(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		return AppendUint(dst, uint64(-n))
	}
	return AppendUint(dst, uint64(n))
}

// AppendHex32 appends n as 0x-prefixed lowercase hex, without zero padding.
func AppendHex32(dst []byte, n uint32) []byte {
	const hexd = "0123456789abcdef"
	dst = append(dst, '0', 'x')
	if n == 0 {
		return append(dst, '0')
	}
	var tmp [8]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = hexd[n&0xF]
		n >>= 4
	}
	return append(dst, tmp[i:]...)
}
