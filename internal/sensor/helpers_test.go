package sensor

import (
	"bufio"
	"net"
	"strings"
	"testing"
)

// fakeGPSD serves scripted JSON lines. Connection i receives scripts[i]; once
// the scripts run out the last one repeats. Every connection is closed after
// its script, like gpsd dropping a client.
func fakeGPSD(t *testing.T, scripts ...[]string) (addr string, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error: %v", err)
	}

	go func() {
		for i := 0; ; i++ {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			script := scripts[len(scripts)-1]
			if i < len(scripts) {
				script = scripts[i]
			}
			go func(conn net.Conn, lines []string) {
				defer conn.Close()
				req, err := bufio.NewReader(conn).ReadString('\n')
				if err != nil {
					return
				}
				if !strings.HasPrefix(req, "?WATCH=") {
					t.Errorf("first client line=%q want ?WATCH prefix", req)
					return
				}
				for _, line := range lines {
					if _, err := conn.Write([]byte(line + "\n")); err != nil {
						return
					}
				}
			}(conn, script)
		}
	}()

	stopped := false
	stop = func() {
		if !stopped {
			stopped = true
			_ = ln.Close()
		}
	}
	t.Cleanup(stop)
	return ln.Addr().String(), stop
}

const devicesLine = `{"class":"DEVICES","devices":[{"path":"/dev/ttyUSB0","driver":"u-blox","subtype":"SW 1.00"}]}`
