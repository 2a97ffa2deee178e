package httpapi

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// respServer speaks just enough RESP2 for RedisCounter: MULTI/EXEC with
// INCR and EXPIRE ... NX.
type respServer struct {
	ln net.Listener

	mu          sync.Mutex
	counts      map[string]int64
	ttl         map[string]bool
	failExpireN int
}

func newRESPServer(t *testing.T) *respServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &respServer{ln: ln, counts: map[string]int64{}, ttl: map[string]bool{}}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn)
		}
	}()
	return s
}

func (s *respServer) addr() string { return s.ln.Addr().String() }

func (s *respServer) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)

	var queued [][]string
	inMulti := false

	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}

		var reply string
		switch name := strings.ToUpper(args[0]); {
		case name == "HELLO":
			reply = "-ERR unknown command 'HELLO'\r\n"
		case name == "MULTI":
			inMulti, queued = true, nil
			reply = "+OK\r\n"
		case name == "EXEC":
			var b strings.Builder
			fmt.Fprintf(&b, "*%d\r\n", len(queued))
			for _, cmd := range queued {
				b.WriteString(s.exec(cmd))
			}
			inMulti, queued = false, nil
			reply = b.String()
		case inMulti:
			queued = append(queued, args)
			reply = "+QUEUED\r\n"
		default:
			reply = s.exec(args)
		}

		if _, err := io.WriteString(conn, reply); err != nil {
			return
		}
	}
}

func (s *respServer) exec(args []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch strings.ToUpper(args[0]) {
	case "INCR":
		s.counts[args[1]]++
		return ":" + strconv.FormatInt(s.counts[args[1]], 10) + "\r\n"
	case "EXPIRE":
		if s.failExpireN > 0 {
			s.failExpireN--
			return "-ERR transient\r\n"
		}
		nx := len(args) > 3 && strings.EqualFold(args[3], "NX")
		if nx && s.ttl[args[1]] {
			return ":0\r\n"
		}
		s.ttl[args[1]] = true
		return ":1\r\n"
	default:
		return "+OK\r\n"
	}
}

func (s *respServer) failExpires(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failExpireN = n
}

func (s *respServer) hasTTL(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ttl[key]
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(line, "*") {
		return nil, fmt.Errorf("unexpected line %q", line)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[1:]))
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		head, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimSpace(head[1:]))
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}
