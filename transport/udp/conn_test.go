package udp

import (
	"testing"
	"time"
)

func TestDialListenRoundTrip(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan *Conn, 1)
	go func() {
		c, err := ln.AcceptConn()
		if err != nil {
			t.Errorf("AcceptConn: %v", err)
			return
		}
		accepted <- c
	}()

	cli, err := Dial(ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer cli.Close()
	cli.Session().NoDelay(1, 10, 2, 1)

	if _, err := cli.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var srv *Conn
	select {
	case srv = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Accept")
	}
	defer srv.Close()
	srv.Session().NoDelay(1, 10, 2, 1)

	buf := make([]byte, 64)
	srv.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := srv.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("Read = %q, want %q", buf[:n], "hello")
	}

	if _, err := srv.Write([]byte("world")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	cli.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err = cli.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "world" {
		t.Fatalf("Read = %q, want %q", buf[:n], "world")
	}
}

func TestAcceptReturnsErrorAfterClose(t *testing.T) {
	ln, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ln.Close()

	if _, err := ln.AcceptConn(); err == nil {
		t.Fatalf("AcceptConn after Close should return an error")
	}
}
