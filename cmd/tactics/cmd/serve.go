package cmd

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/fallenvillage/tactics-core/engine"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a websocket host broadcasting world state and accepting player intents",
	RunE: func(c *cobra.Command, args []string) error {
		opts := engine.GenerateOptions{
			Width:  viper.GetInt("width"),
			Height: viper.GetInt("height"),
			Floors: viper.GetInt("floors"),
		}
		w := engine.NewWorld(opts)
		if err := w.InitGame(uint64(viper.GetInt64("seed"))); err != nil {
			return err
		}

		host := newHost(w)
		go host.run()

		http.HandleFunc("/ws", host.handleWebsocket)
		addr := ":" + strconv.Itoa(servePort)
		log.Printf("tactics: serving on %s", addr)
		return http.ListenAndServe(addr, nil)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to serve the websocket host on")
	rootCmd.AddCommand(serveCmd)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// clientMessage is the JSON envelope a connected dashboard/player socket
// sends; Type selects which World mutator it maps to, matching the
// teacher's tagged-Message-over-websocket shape in server/main.go.
type clientMessage struct {
	Type   string         `json:"type"`
	Action *engine.Action `json:"action,omitempty"`
	UnitID string         `json:"unitId,omitempty"`
	EventID string        `json:"eventId,omitempty"`
	Delta  float64        `json:"delta,omitempty"`
}

// host is a single-room websocket server wrapping a World, its
// PhaseController, and the set of connected sockets — the
// single-room specialization of the teacher's Room/RoomManager.
type host struct {
	mu         sync.Mutex
	world      *engine.World
	controller *engine.PhaseController
	clients    map[*websocket.Conn]bool
}

func newHost(w *engine.World) *host {
	return &host{
		world:      w,
		controller: engine.NewPhaseController(w),
		clients:    make(map[*websocket.Conn]bool),
	}
}

// run drives the Decision/Execution cadence on a real-time ticker,
// broadcasting the world snapshot after every tick — the role the
// teacher's Room.ticker() plays for its 60Hz physics loop, here paced
// to the decision timer instead.
func (h *host) run() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	last := time.Now()
	for range ticker.C {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		h.mu.Lock()
		h.controller.Tick(dt)
		h.mu.Unlock()

		h.broadcastState()
	}
}

func (h *host) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("tactics: upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		h.handleMessage(msg)
	}
}

func (h *host) handleMessage(msg clientMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch msg.Type {
	case "queueAction":
		if msg.Action != nil {
			h.world.QueueAction(*msg.Action)
		}
	case "cancelAction":
		h.world.CancelAction()
	case "clearActionQueue":
		h.world.ClearActionQueue()
	case "toggleSneak":
		h.world.ToggleSneak(msg.UnitID)
	case "toggleDebugFow":
		h.world.ToggleDebugFOW()
	case "updateTimer":
		h.world.UpdateTimer(msg.Delta)
	case "removeDamageEvent":
		h.world.RemoveDamageEvent(msg.EventID)
	}
}

// worldSnapshot is the read-only view broadcast to every client;
// consumers must treat it as immutable (spec §6).
type worldSnapshot struct {
	Phase         string                  `json:"phase"`
	Timer         float64                 `json:"timer"`
	Units         map[string]*engine.Unit `json:"units"`
	VisibleTiles  []string                `json:"visibleTiles"`
	ExploredTiles []string                `json:"exploredTiles"`
	DebugFOW      bool                    `json:"debugFow"`
	DamageEvents  []engine.DamageEvent    `json:"damageEvents"`
}

func (h *host) broadcastState() {
	h.mu.Lock()
	snap := worldSnapshot{
		Phase:        h.world.Phase.String(),
		Timer:        h.world.Timer,
		Units:        h.world.Units,
		DebugFOW:     h.world.DebugFOW,
		DamageEvents: h.world.DamageEvents,
	}
	for k := range h.world.VisibleTiles {
		snap.VisibleTiles = append(snap.VisibleTiles, k)
	}
	for k := range h.world.ExploredTiles {
		snap.ExploredTiles = append(snap.ExploredTiles, k)
	}
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("tactics: marshal snapshot: %v", err)
		return
	}
	for _, c := range clients {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("tactics: write to client failed: %v", err)
		}
	}
}
