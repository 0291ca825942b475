package protocol

import (
	"bytes"
	"errors"
	"testing"
)

// TestVarInt 测试 VarInt 编解码
func TestVarInt(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected []byte
	}{
		{"零值", 0, []byte{0x00}},
		{"小正数", 1, []byte{0x01}},
		{"127 (单字节最大值)", 127, []byte{0x7F}},
		{"128 (需要两字节)", 128, []byte{0x80, 0x01}},
		{"300", 300, []byte{0xAC, 0x02}},
		{"2097151", 2097151, []byte{0xFF, 0xFF, 0x7F}},
		{"-1", -1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := WriteVarInt(buf, tt.input); err != nil {
				t.Fatalf("WriteVarInt() error = %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.expected) {
				t.Errorf("WriteVarInt(%d) = %x, 期望 %x", tt.input, buf.Bytes(), tt.expected)
			}
			if got := VarIntLen(tt.input); got != len(tt.expected) {
				t.Errorf("VarIntLen(%d) = %d, 期望 %d", tt.input, got, len(tt.expected))
			}
			got, err := ReadVarInt(bytes.NewReader(tt.expected))
			if err != nil {
				t.Fatalf("ReadVarInt() error = %v", err)
			}
			if got != tt.input {
				t.Errorf("ReadVarInt() = %d, 期望 %d", got, tt.input)
			}
		})
	}
}

// TestReadVarIntTooLong 测试超过 5 字节的 VarInt
func TestReadVarIntTooLong(t *testing.T) {
	_, err := ReadVarInt(bytes.NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}))
	if !errors.Is(err, ErrVarIntTooLong) {
		t.Errorf("期望 ErrVarIntTooLong, 实际: %v", err)
	}
}

// TestVarLong 测试 VarLong 编解码
func TestVarLong(t *testing.T) {
	for _, v := range []int64{0, 1, 300, 1 << 40, -1} {
		buf := &bytes.Buffer{}
		if err := WriteVarLong(buf, v); err != nil {
			t.Fatalf("WriteVarLong(%d) error = %v", v, err)
		}
		got, err := ReadVarLong(buf)
		if err != nil {
			t.Fatalf("ReadVarLong() error = %v", err)
		}
		if got != v {
			t.Errorf("ReadVarLong() = %d, 期望 %d", got, v)
		}
	}
}
