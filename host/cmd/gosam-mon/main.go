package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gosam/host/monitor"
	"gosam/host/serial"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", 115200, "Baud rate of the debug UART")
	replay = flag.String("replay", "", "Decode a captured trace file instead of a live port")
	raw    = flag.Bool("raw", false, "Print raw record fields instead of formatted events")
)

func main() {
	flag.Parse()

	var in io.Reader
	if *replay != "" {
		f, err := os.Open(*replay)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	} else {
		cfg := serial.DefaultConfig(*device)
		cfg.Baud = *baud
		port, err := serial.Open(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open port: %v\n", err)
			os.Exit(1)
		}
		defer port.Close()
		in = port

		fmt.Printf("Monitoring %s at %d baud (Ctrl-C to exit)\n", *device, *baud)
	}

	dec := monitor.NewDecoder(in)
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read: %v\n", err)
			os.Exit(1)
		}

		if ev.Lost > 0 {
			fmt.Printf("... %d record(s) lost\n", ev.Lost)
		}
		if *raw {
			fmt.Printf("seq=%03d kind=%d a=%d b=%d\n",
				ev.Record.Seq, ev.Record.Kind, ev.Record.A, ev.Record.B)
		} else {
			fmt.Printf("seq=%03d %s\n", ev.Record.Seq, monitor.Format(ev.Record))
		}
	}
}
