// Package server broadcasts a running game to websocket observers. Clients
// receive a full snapshot on connect, then a stream of log lines, ticks,
// turn and auction updates, and fresh snapshots whenever state changes.
package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/PythonSmall-Q/Monopoly/internal/game"
)

// Server relays game events to connected websocket observers.
type Server struct {
	addr     string
	engine   *game.Engine
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu          sync.RWMutex
	connections map[*Connection]bool

	ctx    context.Context
	cancel context.CancelFunc
	http   *http.Server
}

// NewServer creates an observer server for the given game.
func NewServer(addr string, engine *game.Engine, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start subscribes to the game's event bus and serves websocket upgrades
// until Stop is called. Blocks.
func (s *Server) Start() error {
	s.engine.Bus().Subscribe(s)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.http = &http.Server{Addr: s.addr, Handler: mux}

	s.logger.Info("starting observer server", "addr", s.addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop unsubscribes from the game and closes every connection.
func (s *Server) Stop() error {
	s.engine.Bus().Unsubscribe(s)
	s.cancel()

	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}

	if s.http != nil {
		return s.http.Shutdown(context.Background())
	}
	return nil
}

// OnEvent implements game.EventSubscriber, translating engine events into
// wire messages.
func (s *Server) OnEvent(event game.GameEvent) {
	switch ev := event.(type) {
	case game.LogEvent:
		s.broadcast(MessageLog, LogData{Message: ev.Message})
	case game.TickEvent:
		s.broadcast(MessageTick, TickData{RemainingSeconds: int(ev.Remaining.Seconds())})
	case game.TurnStartEvent:
		s.broadcast(MessageTurnStart, TurnStartData{PlayerID: ev.PlayerID, Name: ev.Name, Round: ev.Round})
	case game.RefreshEvent:
		s.broadcast(MessageRefresh, RefreshData{Scope: string(ev.Scope)})
		s.broadcast(MessageSnapshot, snapshot(s.engine))
	case game.AuctionResolvedEvent:
		s.broadcast(MessageAuctionResolved, AuctionResolvedData{
			TileID: ev.TileID,
			Sold:   ev.Sold,
			Winner: ev.Winner.PlayerID,
			Amount: ev.Winner.Amount,
		})
	case game.GameEndEvent:
		standings := make([]StandingInfo, 0, len(ev.Standings))
		for _, st := range ev.Standings {
			standings = append(standings, StandingInfo{
				Rank:     st.Rank,
				Name:     st.Name,
				Cash:     st.Cash,
				NetWorth: st.NetWorth,
				Bankrupt: st.Bankrupt,
			})
		}
		s.broadcast(MessageGameEnd, GameEndData{Standings: standings})
	}
}

func (s *Server) broadcast(messageType MessageType, data interface{}) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		s.logger.Error("failed to encode message", "type", messageType, "error", err)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.connections {
		conn.Send(msg)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger, s.removeConnection)
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("observer connected", "total", total)

	conn.Start()
	if msg, err := NewMessage(MessageSnapshot, snapshot(s.engine)); err == nil {
		conn.Send(msg)
	}
}

func (s *Server) removeConnection(conn *Connection) {
	s.mu.Lock()
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("observer disconnected", "total", total)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
