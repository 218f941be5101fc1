package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/zethra/wasp/gcode"
	"github.com/zethra/wasp/motion"
	"github.com/zethra/wasp/printer"
	"github.com/zethra/wasp/transport"
)

// notifyDispatcher forwards commands to the planner and publishes each
// one on the dispatch event stream.
type notifyDispatcher struct {
	next printer.Dispatcher
	sse  *sse.Server
}

func (d *notifyDispatcher) Dispatch(cmd gcode.Command) {
	d.next.Dispatch(cmd)
	d.sse.SendMessage("/events/dispatch", sse.SimpleMessage(cmd.String()))
}

type api struct {
	http.Handler
	state   *coreState
	planner *motion.Planner
	console *transport.Loopback
	sse     *sse.Server
}

func newAPI(state *coreState, planner *motion.Planner, console *transport.Loopback, events *sse.Server) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		state:   state,
		planner: planner,
		console: console,
		sse:     events,
	}

	r.HandleFunc("/api/status", a.status).Methods("GET")
	r.HandleFunc("/api/send", a.send).Methods("POST")
	r.HandleFunc("/api/clear-stop", a.clearStop).Methods("POST")
	r.HandleFunc("/ws", a.ws)
	r.PathPrefix("/events/").Handler(a.sse)

	go func() {
		for st := range planner.Reports() {
			data, err := json.Marshal(st)
			if err != nil {
				log.Printf("ERROR: marshal json: %+v", err)
				continue
			}
			a.sse.SendMessage("/events/status", sse.SimpleMessage(string(data)))
		}
	}()

	return a
}

func (a *api) status(w http.ResponseWriter, req *http.Request) {
	stats, immediate, queued := a.state.get()
	err := json.NewEncoder(w).Encode(struct {
		Stats   printer.Stats `json:"stats"`
		Backlog struct {
			Immediate int `json:"immediate"`
			Queued    int `json:"queued"`
		} `json:"backlog"`
		Planner motion.Status `json:"planner"`
	}{
		Stats: stats,
		Backlog: struct {
			Immediate int `json:"immediate"`
			Queued    int `json:"queued"`
		}{immediate, queued},
		Planner: a.planner.Status(),
	})
	if err != nil {
		log.Println("ERROR: encode:", err)
	}
}

// send injects command lines into the byte stream ahead of the serial
// port, as if they arrived on the wire.
func (a *api) send(w http.ResponseWriter, req *http.Request) {
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		a.console.FeedLine(line)
	}
}

func (a *api) clearStop(w http.ResponseWriter, req *http.Request) {
	a.planner.ClearStop()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// ws is a live console: incoming messages are injected as command
// lines, and a status snapshot is pushed once a second.
func (a *api) ws(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Println("ERROR: upgrade:", err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			for _, line := range strings.Split(string(data), "\n") {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				a.console.FeedLine(line)
			}
		}
	}()

	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := conn.WriteJSON(a.planner.Status()); err != nil {
				return
			}
		}
	}
}
