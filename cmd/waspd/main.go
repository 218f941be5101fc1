package main

import (
	"flag"
	"io"
	"log"
	"net/http"
	"time"

	sse "github.com/alexandrevicenzi/go-sse"

	"github.com/zethra/wasp/motion"
	"github.com/zethra/wasp/printer"
	"github.com/zethra/wasp/transport"
)

func main() {
	log.SetFlags(log.Lshortfile)
	configFile := flag.String("config", "", "Path to a YAML config file.")
	port := flag.String("port", "", "Serial port to read commands from (overrides config).")
	addr := flag.String("addr", "", "Address to bind the waspd server to (overrides config).")
	sim := flag.Bool("sim", false, "Run without a serial port; commands come in over the API only.")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalln("ERROR:", err)
	}
	if *port != "" {
		cfg.Serial.Port = *port
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	// The console sits in front of the serial port so the API and
	// websocket can inject lines into the same byte stream.
	console := &transport.Loopback{}
	if !*sim {
		sp, err := transport.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			log.Fatalln("ERROR:", err)
		}
		defer sp.Close()
		console.Next = sp
	}

	offsetter, err := cfg.buildMesh()
	if err != nil {
		log.Fatalln("ERROR: bed mesh:", err)
	}

	planner := motion.New(motion.NewSim(cfg.StepsPerMM), motion.Config{
		StepsPerMM: cfg.StepsPerMM,
		FeedRate:   cfg.FeedRate,
		Offsetter:  offsetter,
	})

	events := sse.NewServer(&sse.Options{Logger: log.New(io.Discard, "", 0)})
	defer events.Shutdown()

	p := printer.New(console, &notifyDispatcher{next: planner, sse: events})
	state := &coreState{}

	go func() {
		log.Println("listening on", cfg.Addr)
		err := http.ListenAndServe(cfg.Addr, newAPI(state, planner, console, events))
		log.Fatalln("ERROR:", err)
	}()

	// the printer is only ever touched from this goroutine; the API
	// reads the published snapshot
	t := time.NewTicker(time.Millisecond)
	defer t.Stop()
	for range t.C {
		p.Tick()
		immediate, queued := p.Backlog()
		state.set(p.Stats(), immediate, queued)
	}
}
