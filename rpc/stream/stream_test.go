package stream

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/dSearch/rpc/common"
)

// TestPrimitiveRoundTrip writes every primitive and reads it back
func TestPrimitiveRoundTrip(t *testing.T) {
	out := NewOutput(common.Current)
	out.WriteUint8(7)
	out.WriteBool(true)
	out.WriteBool(false)
	out.WriteVInt(0)
	out.WriteVInt(300)
	out.WriteVInt(^uint32(0))
	out.WriteInt(-42)
	out.WriteLong(-1)
	out.WriteLong(1 << 62)
	out.WriteString("")
	out.WriteString("你好世界")
	out.WriteBytesRef([]byte{0, 1, 2, 255})
	out.WriteStringMap(map[string]string{"b": "2", "a": "1"})
	out.WriteStringMap(nil)

	in := NewInput(out.Bytes(), common.Current)

	if b, err := in.ReadUint8("u8"); err != nil || b != 7 {
		t.Errorf("ReadUint8 = %v, %v", b, err)
	}
	if v, err := in.ReadBool("t"); err != nil || !v {
		t.Errorf("ReadBool = %v, %v, expected true", v, err)
	}
	if v, err := in.ReadBool("f"); err != nil || v {
		t.Errorf("ReadBool = %v, %v, expected false", v, err)
	}
	for _, expected := range []uint32{0, 300, ^uint32(0)} {
		if v, err := in.ReadVInt("vint"); err != nil || v != expected {
			t.Errorf("ReadVInt = %v, %v, expected %d", v, err, expected)
		}
	}
	if v, err := in.ReadInt("int"); err != nil || v != -42 {
		t.Errorf("ReadInt = %v, %v", v, err)
	}
	if v, err := in.ReadLong("long"); err != nil || v != -1 {
		t.Errorf("ReadLong = %v, %v", v, err)
	}
	if v, err := in.ReadLong("long"); err != nil || v != 1<<62 {
		t.Errorf("ReadLong = %v, %v", v, err)
	}
	if s, err := in.ReadString("empty"); err != nil || s != "" {
		t.Errorf("ReadString = %q, %v", s, err)
	}
	if s, err := in.ReadString("unicode"); err != nil || s != "你好世界" {
		t.Errorf("ReadString = %q, %v", s, err)
	}
	if b, err := in.ReadBytesRef("bytes"); err != nil || !bytes.Equal(b, []byte{0, 1, 2, 255}) {
		t.Errorf("ReadBytesRef = %v, %v", b, err)
	}
	if m, err := in.ReadStringMap("map"); err != nil || !reflect.DeepEqual(m, map[string]string{"a": "1", "b": "2"}) {
		t.Errorf("ReadStringMap = %v, %v", m, err)
	}
	if m, err := in.ReadStringMap("nil map"); err != nil || m != nil {
		t.Errorf("ReadStringMap = %v, %v, expected nil", m, err)
	}
	if err := in.ExpectEOF(); err != nil {
		t.Errorf("ExpectEOF: %v", err)
	}
}

// TestStringMapDeterministic checks that map encoding does not depend on iteration order
func TestStringMapDeterministic(t *testing.T) {
	m := map[string]string{"z": "1", "a": "2", "m": "3", "k": "4"}
	first := NewOutput(common.Current)
	first.WriteStringMap(m)
	for i := 0; i < 20; i++ {
		out := NewOutput(common.Current)
		out.WriteStringMap(m)
		if !bytes.Equal(first.Bytes(), out.Bytes()) {
			t.Fatalf("map encoding differs between runs: %x vs %x", first.Bytes(), out.Bytes())
		}
	}
}

// TestSharedStrings checks first-occurrence ordering and back references
func TestSharedStrings(t *testing.T) {
	out := NewOutput(common.Current)
	for _, s := range []string{"idx", "doc", "idx", "doc", "other", "idx"} {
		out.WriteSharedString(s)
	}

	expected := []byte{
		0, 0, 3, 'i', 'd', 'x', // new handle 0
		0, 1, 3, 'd', 'o', 'c', // new handle 1
		1, 0, // ref 0
		1, 1, // ref 1
		0, 2, 5, 'o', 't', 'h', 'e', 'r', // new handle 2
		1, 0, // ref 0
	}
	if !bytes.Equal(out.Bytes(), expected) {
		t.Fatalf("shared string encoding mismatch:\nexpected %v\ngot      %v", expected, out.Bytes())
	}

	in := NewInput(out.Bytes(), common.Current)
	var got []string
	for in.Remaining() > 0 {
		s, err := in.ReadSharedString("s")
		if err != nil {
			t.Fatalf("ReadSharedString: %v", err)
		}
		got = append(got, s)
	}
	if !reflect.DeepEqual(got, []string{"idx", "doc", "idx", "doc", "other", "idx"}) {
		t.Errorf("decoded shared strings = %v", got)
	}
	if !reflect.DeepEqual(in.shared.Values(), []string{"idx", "doc", "other"}) {
		t.Errorf("table order = %v", in.shared.Values())
	}
}

// TestSharedTableAcrossMessages checks that a table passed in explicitly is reused
func TestSharedTableAcrossMessages(t *testing.T) {
	table := NewSharedStrings()
	first := NewOutputWithTable(common.Current, table)
	first.WriteSharedString("idx")
	second := NewOutputWithTable(common.Current, table)
	second.WriteSharedString("idx")

	if !bytes.Equal(second.Bytes(), []byte{1, 0}) {
		t.Errorf("expected back reference in second message, got %v", second.Bytes())
	}

	readTable := NewSharedStrings()
	if _, err := NewInputWithTable(first.Bytes(), common.Current, readTable).ReadSharedString("a"); err != nil {
		t.Fatalf("first: %v", err)
	}
	s, err := NewInputWithTable(second.Bytes(), common.Current, readTable).ReadSharedString("b")
	if err != nil || s != "idx" {
		t.Errorf("second = %q, %v", s, err)
	}
}

// TestMalformedInput checks that corrupt input fails with ErrMalformedStream
func TestMalformedInput(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
		read func(in *Input) error
	}{
		{"Empty byte", []byte{}, func(in *Input) error { _, err := in.ReadUint8("b"); return err }},
		{"Invalid bool", []byte{2}, func(in *Input) error { _, err := in.ReadBool("b"); return err }},
		{"Truncated long", []byte{0, 0, 0}, func(in *Input) error { _, err := in.ReadLong("l"); return err }},
		{"Truncated int", []byte{0}, func(in *Input) error { _, err := in.ReadInt("i"); return err }},
		{"Truncated vint", []byte{0x80}, func(in *Input) error { _, err := in.ReadVInt("v"); return err }},
		{"Vint too long", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, func(in *Input) error { _, err := in.ReadVInt("v"); return err }},
		{"Vint overflow", []byte{0xff, 0xff, 0xff, 0xff, 0x7f}, func(in *Input) error { _, err := in.ReadVInt("v"); return err }},
		{"String length exceeds buffer", []byte{5, 'a', 'b', 'c'}, func(in *Input) error { _, err := in.ReadString("s"); return err }},
		{"Unknown shared handle", []byte{1, 3}, func(in *Input) error { _, err := in.ReadSharedString("s"); return err }},
		{"Shared handle out of order", []byte{0, 1, 1, 'a'}, func(in *Input) error { _, err := in.ReadSharedString("s"); return err }},
		{"Invalid shared tag", []byte{9, 0}, func(in *Input) error { _, err := in.ReadSharedString("s"); return err }},
		{"Map count too large", []byte{1, 100}, func(in *Input) error { _, err := in.ReadStringMap("m"); return err }},
		{"Trailing bytes", []byte{1, 2}, func(in *Input) error { return in.ExpectEOF() }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.read(NewInput(tc.data, common.Current))
			if !errors.Is(err, common.ErrMalformedStream) {
				t.Fatalf("expected ErrMalformedStream, got %v", err)
			}
			var streamErr *Error
			if !errors.As(err, &streamErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
		})
	}
}

// TestErrorCarriesOffsetAndField checks the details of a decode error
func TestErrorCarriesOffsetAndField(t *testing.T) {
	in := NewInput([]byte{1, 2, 9, 'x'}, common.Current)
	if _, err := in.ReadUint8("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := in.ReadUint8("b"); err != nil {
		t.Fatal(err)
	}
	_, err := in.ReadString("scroll_id")

	var streamErr *Error
	if !errors.As(err, &streamErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if streamErr.Offset != 2 || streamErr.Field != "scroll_id" {
		t.Errorf("expected offset 2 and field scroll_id, got %d and %s", streamErr.Offset, streamErr.Field)
	}
}

// TestLegacyByte checks the version gate on both paths
func TestLegacyByte(t *testing.T) {
	gate := LegacyByte{Name: "legacy", Until: common.V1_2_0, Value: 2}

	testCases := []struct {
		version  common.Version
		expected []byte
	}{
		{common.V1_0_0, []byte{2}},
		{common.V1_1_0, []byte{2}},
		{common.V1_2_0, nil},
		{common.V1_4_0, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.version.String(), func(t *testing.T) {
			out := NewOutput(tc.version)
			if err := gate.Write(out); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if !bytes.Equal(out.Bytes(), tc.expected) {
				t.Fatalf("Write = %v, expected %v", out.Bytes(), tc.expected)
			}

			in := NewInput(out.Bytes(), tc.version)
			if err := gate.Read(in); err != nil {
				t.Fatalf("Read: %v", err)
			}
			if in.Remaining() != 0 {
				t.Errorf("expected all bytes consumed, %d left", in.Remaining())
			}
		})
	}

	// Versions outside the supported range have no known layout
	for _, version := range []common.Version{common.NewVersion(0, 9, 0), common.NewVersion(1, 5, 0)} {
		if err := gate.Write(NewOutput(version)); !errors.Is(err, common.ErrUnsupportedVersion) {
			t.Errorf("Write at %s: expected ErrUnsupportedVersion, got %v", version, err)
		}
		if err := gate.Read(NewInput([]byte{2}, version)); !errors.Is(err, common.ErrUnsupportedVersion) {
			t.Errorf("Read at %s: expected ErrUnsupportedVersion, got %v", version, err)
		}
	}

	// Any byte value is accepted and discarded
	in := NewInput([]byte{0xff}, common.V1_0_0)
	if err := gate.Read(in); err != nil || in.Remaining() != 0 {
		t.Errorf("expected byte to be discarded, err=%v remaining=%d", err, in.Remaining())
	}

	// Old version without the byte is truncated
	if err := gate.Read(NewInput(nil, common.V1_1_0)); !errors.Is(err, common.ErrMalformedStream) {
		t.Errorf("expected ErrMalformedStream, got %v", err)
	}
}
