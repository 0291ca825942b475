package protocol

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Versifine/protolib/internal/reflect/accessors"
)

func TestHandshakeRoundTrip(t *testing.T) {
	h := NewHandshake(767, "mc.example.com", 25565, 2)
	p, err := Encode(C2SHandshake, h)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := ParseHandshake(p.Payload)
	if err != nil {
		t.Fatalf("ParseHandshake() error = %v", err)
	}
	if *got != *h {
		t.Errorf("ParseHandshake() = %+v, 期望 %+v", got, h)
	}
	if got.Target() != Login {
		t.Errorf("Target() = %s, 期望 login", got.Target())
	}
	if NewHandshake(767, "", 0, 1).Target() != Status {
		t.Error("NextState=1 应切换到 status")
	}
}

func TestLoginStartRoundTrip(t *testing.T) {
	l := NewLoginStart("Steve")
	if l.UUID != OfflineUUID("Steve") {
		t.Fatal("NewLoginStart 应使用离线 UUID")
	}
	if l.UUID.Version() != 3 {
		t.Errorf("离线 UUID 版本 = %d, 期望 3", l.UUID.Version())
	}
	p, err := Encode(C2SLoginStart, l)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseLoginStart(p.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *l {
		t.Errorf("ParseLoginStart() = %+v, 期望 %+v", got, l)
	}
}

func TestSetCompressionAndKeepAlive(t *testing.T) {
	p, err := Encode(S2CSetCompression, NewSetCompression(256))
	if err != nil {
		t.Fatal(err)
	}
	sc, err := ParseSetCompression(p.Payload)
	if err != nil || sc.Threshold != 256 {
		t.Fatalf("ParseSetCompression() = %+v, %v", sc, err)
	}

	p, err = Encode(S2CPlayKeepAlive, NewKeepAlive(-42))
	if err != nil {
		t.Fatal(err)
	}
	ka, err := ParseKeepAlive(p.Payload)
	if err != nil || ka.KeepAliveID != -42 {
		t.Fatalf("ParseKeepAlive() = %+v, %v", ka, err)
	}
}

func TestDisconnectText(t *testing.T) {
	d := DisconnectText(`bye "now"`)
	if !strings.Contains(d.Reason, `"text":"bye \"now\""`) {
		t.Errorf("Reason = %s", d.Reason)
	}
	p, err := Encode(S2CLoginDisconnect, d)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseDisconnect(p.Payload)
	if err != nil || got.Reason != d.Reason {
		t.Fatalf("ParseDisconnect() = %+v, %v", got, err)
	}
}

func TestReadStringLimits(t *testing.T) {
	if err := WriteString(&strings.Builder{}, strings.Repeat("a", MaxStringLength+1)); err != ErrStringTooLong {
		t.Errorf("WriteString() error = %v, 期望 ErrStringTooLong", err)
	}
}

func TestDeclare(t *testing.T) {
	r := accessors.NewRegistry()
	if err := Declare(r); err != nil {
		t.Fatalf("Declare() error = %v", err)
	}
	if n := len(r.Constructors(reflect.TypeOf(&KeepAlive{}))); n != 1 {
		t.Errorf("KeepAlive 构造器数量 = %d, 期望 1", n)
	}
	statics := 0
	for _, m := range r.Methods(reflect.TypeOf(&Disconnect{})) {
		if m.Static {
			statics++
		}
	}
	if statics != 2 {
		t.Errorf("Disconnect 静态函数数量 = %d, 期望 2", statics)
	}
}
