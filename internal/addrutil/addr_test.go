package addrutil

import "testing"

func TestGatewayFor(t *testing.T) {
	gw, err := GatewayFor("10.20.30.57")
	if err != nil {
		t.Fatal(err)
	}
	if gw != "10.20.30.1" {
		t.Fatalf("gw=%q", gw)
	}
}

func TestGatewayFor_Rejects(t *testing.T) {
	for _, in := range []string{"", "not-an-ip", "2001:db8::1"} {
		if _, err := GatewayFor(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestDialAddr_AddsDefaultPort(t *testing.T) {
	addr, ok := DialAddr("8.8.8.8", 443)
	if !ok {
		t.Fatal("expected ok")
	}
	if addr != "8.8.8.8:443" {
		t.Fatalf("addr=%q", addr)
	}
}

func TestDialAddr_KeepsExplicitPort(t *testing.T) {
	addr, ok := DialAddr("stun.l.google.com:19302", 3478)
	if !ok || addr != "stun.l.google.com:19302" {
		t.Fatalf("addr=%q ok=%v", addr, ok)
	}
}

func TestDialAddr_UnbracketedIPv6HostPort(t *testing.T) {
	addr, ok := DialAddr("2001:db8::1:51820", 443)
	if !ok {
		t.Fatal("expected ok")
	}
	if addr != "[2001:db8::1]:51820" {
		t.Fatalf("addr=%q", addr)
	}
}

func TestDialAddr_BareIPv6(t *testing.T) {
	addr, ok := DialAddr("2001:db8::1", 443)
	if !ok || addr != "[2001:db8::1]:443" {
		t.Fatalf("addr=%q ok=%v", addr, ok)
	}
}
