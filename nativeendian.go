package packer

import (
	"encoding/binary"
	"unsafe"
)

// nativeEndian is the host byte order, detected once at process start.
// Typed-array payload data is written and read in this order (spec
// §4.1). The wire carries no byte-order marker, so the decoder does not
// check the writer's byte order: it reads every payload (as a zero-copy
// view or a copy) in this host's order, which matches the writer when
// both run on hosts of the same byte order.
var nativeEndian binary.ByteOrder

func init() {
	var probe uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&probe))
	if b[0] == 1 {
		nativeEndian = binary.LittleEndian
	} else {
		nativeEndian = binary.BigEndian
	}
}
