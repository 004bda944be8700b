package sourcemap

import "strings"

const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ appends the base64-VLQ encoding of n to sb. The low bit of the
// encoded value carries the sign.
func encodeVLQ(sb *strings.Builder, n int) {
	v := n << 1
	if n < 0 {
		v = (-n << 1) | 1
	}
	for {
		digit := v & 0x1f
		v >>= 5
		if v != 0 {
			digit |= 0x20
		}
		sb.WriteByte(base64Alphabet[digit])
		if v == 0 {
			break
		}
	}
}
