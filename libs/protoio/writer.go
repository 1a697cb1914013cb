// Package protoio writes protobuf messages field by field. It is used for the
// handful of messages whose exact bytes are signed or hashed, so their
// encoding stays visible next to the schema they follow.
package protoio

import (
	"github.com/gogo/protobuf/proto"
)

// Writer accumulates the encoding of a single protobuf message. Fields must be
// written in ascending field-number order, as the canonical encoding
// requires. Zero values are skipped the way proto3 does, except for embedded
// messages written with Message, which are always emitted.
type Writer struct {
	buf proto.Buffer
}

// proto.Buffer only fails on decode, so encode errors are dropped.
func (w *Writer) tag(field int, wireType int) {
	_ = w.buf.EncodeVarint(uint64(field)<<3 | uint64(wireType))
}

// Uvarint writes a uint64/uint32/enum field.
func (w *Writer) Uvarint(field int, v uint64) {
	if v == 0 {
		return
	}
	w.tag(field, proto.WireVarint)
	_ = w.buf.EncodeVarint(v)
}

// Varint writes an int64/int32 field. Negative values take ten bytes.
func (w *Writer) Varint(field int, v int64) {
	w.Uvarint(field, uint64(v))
}

// SFixed64 writes a sfixed64 field.
func (w *Writer) SFixed64(field int, v int64) {
	if v == 0 {
		return
	}
	w.tag(field, proto.WireFixed64)
	_ = w.buf.EncodeFixed64(uint64(v))
}

// Bytes writes a bytes field.
func (w *Writer) Bytes(field int, bz []byte) {
	if len(bz) == 0 {
		return
	}
	w.lengthDelimited(field, bz)
}

// String writes a string field.
func (w *Writer) String(field int, s string) {
	if len(s) == 0 {
		return
	}
	w.lengthDelimited(field, []byte(s))
}

// Message writes an embedded message field, even when msg is empty.
func (w *Writer) Message(field int, msg []byte) {
	w.lengthDelimited(field, msg)
}

// OneofBytes writes a bytes field that belongs to a oneof. Oneof members are
// emitted whenever they are set, including when empty.
func (w *Writer) OneofBytes(field int, bz []byte) {
	w.lengthDelimited(field, bz)
}

func (w *Writer) lengthDelimited(field int, bz []byte) {
	w.tag(field, proto.WireBytes)
	_ = w.buf.EncodeRawBytes(bz)
}

// Finish returns the encoded message.
func (w *Writer) Finish() []byte {
	bz := w.buf.Bytes()
	if bz == nil {
		return []byte{}
	}
	return bz
}

// MarshalDelimited prefixes msg with its uvarint encoded length.
func MarshalDelimited(msg []byte) []byte {
	var buf proto.Buffer
	_ = buf.EncodeRawBytes(msg)
	return buf.Bytes()
}
