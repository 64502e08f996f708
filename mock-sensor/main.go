package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

var (
	gestures = []string{"PLAY_PAUSE", "NEXT", "PREV", "VOL_UP", "VOL_DOWN"}

	// Sent occasionally to exercise the bridge's noise handling.
	noise = []string{"", "x", "BOOT v1.2", "\xff\xfeNEXT", "next"}
)

type options struct {
	addr     string
	interval time.Duration
	dropAt   int
	noisy    bool
	script   []string
}

func main() {
	var opts options
	pflag.StringVarP(&opts.addr, "listen", "l", ":9999", "TCP address to listen on")
	pflag.DurationVarP(&opts.interval, "interval", "i", time.Second, "Delay between gestures")
	pflag.IntVar(&opts.dropAt, "drop-after", 0, "Hang up after this many lines (0 = never)")
	pflag.BoolVar(&opts.noisy, "noise", true, "Mix garbage lines into the stream")
	pflag.StringSliceVar(&opts.script, "script", nil, "Fixed gesture sequence to replay instead of random gestures")
	pflag.Parse()

	listener, err := net.Listen("tcp", opts.addr)
	if err != nil {
		fmt.Println("Failed to start Mock Sensor:", err)
		os.Exit(1)
	}
	defer listener.Close()

	fmt.Println("=== Mock Gesture Sensor ===")
	fmt.Println("Listening on TCP", opts.addr)
	fmt.Println("Run the bridge with --port tcp://localhost" + portSuffix(opts.addr))

	for {
		conn, err := listener.Accept()
		if err != nil {
			fmt.Println("Accept error:", err)
			continue
		}
		fmt.Println("[MockSensor] Client connected:", conn.RemoteAddr())
		go handleConnection(conn, opts)
	}
}

func portSuffix(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ""
}

func handleConnection(conn net.Conn, opts options) {
	defer conn.Close()

	w := bufio.NewWriter(conn)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Boot chatter the bridge must discard.
	w.WriteString("\x00\x00ets Jun  8 2016 00:22:57\r\nrst:0x1")
	w.Flush()

	for sent := 0; opts.dropAt == 0 || sent < opts.dropAt; sent++ {
		time.Sleep(opts.interval)

		line := nextLine(rng, opts, sent)
		if _, err := w.WriteString(line + "\n"); err != nil {
			fmt.Println("[MockSensor] Connection closed")
			return
		}
		if err := w.Flush(); err != nil {
			fmt.Println("[MockSensor] Connection closed")
			return
		}
		fmt.Printf("[MockSensor] Sent %q\n", line)
	}

	fmt.Println("[MockSensor] Simulating cable pull.")
}

func nextLine(rng *rand.Rand, opts options, n int) string {
	if len(opts.script) > 0 {
		return opts.script[n%len(opts.script)]
	}
	if opts.noisy && rng.Intn(5) == 0 {
		return noise[rng.Intn(len(noise))]
	}
	return gestures[rng.Intn(len(gestures))]
}
