package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestReadPacket(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    *Packet
		wantErr error
	}{
		{
			name:  "正常数据包",
			input: []byte{0x06, 0x01, 'H', 'e', 'l', 'l', 'o'},
			want:  &Packet{ID: 1, Payload: []byte("Hello")},
		},
		{
			name:  "空Payload",
			input: []byte{0x01, 0x00},
			want:  &Packet{ID: 0, Payload: []byte{}},
		},
		{
			name:  "大PacketID",
			input: []byte{0x03, 0x80, 0x01, 0x01},
			want:  &Packet{ID: 128, Payload: []byte{0x01}},
		},
		{
			name:    "Length为零",
			input:   []byte{0x00},
			wantErr: ErrInvalidPacket,
		},
		{
			name:    "Length声明大于实际数据",
			input:   []byte{0x05, 0x01},
			wantErr: ErrInvalidPacket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadPacket(bytes.NewReader(tt.input), -1)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ReadPacket() error = %v, 期望 %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadPacket() error = %v", err)
			}
			if got.ID != tt.want.ID || !bytes.Equal(got.Payload, tt.want.Payload) {
				t.Errorf("ReadPacket() = %+v, 期望 %+v", got, tt.want)
			}
		})
	}
}

func TestReadPacketEmptyInput(t *testing.T) {
	if _, err := ReadPacket(bytes.NewReader(nil), -1); err == nil {
		t.Error("空输入应返回错误")
	}
}

// TestPacketRoundTripCompression 测试不同压缩阈值下的写入与读取
func TestPacketRoundTripCompression(t *testing.T) {
	big := bytes.Repeat([]byte("protolib"), 200)
	tests := []struct {
		name      string
		threshold int
		payload   []byte
	}{
		{"未启用压缩", -1, big},
		{"低于阈值", 256, []byte("tiny")},
		{"超过阈值", 256, big},
		{"阈值为零", 0, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			want := &Packet{ID: 0x26, Payload: tt.payload}
			if err := WritePacket(buf, want, tt.threshold); err != nil {
				t.Fatalf("WritePacket() error = %v", err)
			}
			got, err := ReadPacket(buf, tt.threshold)
			if err != nil {
				t.Fatalf("ReadPacket() error = %v", err)
			}
			if got.ID != want.ID || !bytes.Equal(got.Payload, want.Payload) {
				t.Errorf("往返结果不一致: got ID=%d len=%d", got.ID, len(got.Payload))
			}
		})
	}
}

func TestWritePacketCompressesLargeBodies(t *testing.T) {
	payload := bytes.Repeat([]byte{0x00}, 1024)
	plain, compressed := &bytes.Buffer{}, &bytes.Buffer{}
	if err := WritePacket(plain, &Packet{ID: 1, Payload: payload}, -1); err != nil {
		t.Fatal(err)
	}
	if err := WritePacket(compressed, &Packet{ID: 1, Payload: payload}, 64); err != nil {
		t.Fatal(err)
	}
	if compressed.Len() >= plain.Len() {
		t.Errorf("压缩后长度 %d 应小于未压缩长度 %d", compressed.Len(), plain.Len())
	}
}

func TestPacketClone(t *testing.T) {
	p := &Packet{ID: 3, Payload: []byte{1, 2, 3}}
	c := p.Clone()
	c.Payload[0] = 9
	if p.Payload[0] != 1 {
		t.Error("Clone 应复制 Payload")
	}
	var nilPacket *Packet
	if nilPacket.Clone() != nil {
		t.Error("nil Packet 的 Clone 应返回 nil")
	}
}

func TestReadFrameThenDecode(t *testing.T) {
	var buf bytes.Buffer
	want := &Packet{ID: 0x03, Payload: bytes.Repeat([]byte{0x07}, 300)}
	if err := WritePacket(&buf, want, 256); err != nil {
		t.Fatalf("WritePacket() error = %v", err)
	}

	frame, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("ReadFrame() 之后剩余 %d 字节, 期望 0", buf.Len())
	}

	got, err := DecodeFrame(frame, 256)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if got.ID != want.ID || !bytes.Equal(got.Payload, want.Payload) {
		t.Errorf("DecodeFrame() = ID %d len %d, 期望 ID %d len %d", got.ID, len(got.Payload), want.ID, len(want.Payload))
	}

	// 同一帧按未压缩解析会把 data length 当作包 ID
	wrong, err := DecodeFrame(frame, -1)
	if err == nil && wrong.ID == want.ID {
		t.Errorf("未压缩解析不应得到相同的包 ID")
	}
}
