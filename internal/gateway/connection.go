package gateway

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/cardclash/internal/battle"
	"github.com/lox/cardclash/internal/opponent"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	channelID string
	logger    zerolog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	service   *Service
}

// NewConnection creates a new connection wrapper.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger, service *Service) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 256),
		logger:  logger.With().Str("component", "conn").Logger(),
		ctx:     ctx,
		cancel:  cancel,
		service: service,
	}
}

// Start begins handling the connection.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown.
			c.logger.Debug().Any("recovered", r).Msg("Attempted to send message on closed connection")
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn().Msg("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetChannel associates this connection with a chat channel.
func (c *Connection) SetChannel(channelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channelID = channelID
}

// GetChannel returns the associated channel ID.
func (c *Connection) GetChannel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channelID
}

// readPump handles incoming messages from the client.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error().Err(err).Msg("WebSocket error")
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error().Err(err).Msg("Failed to write message")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug().Stringer("type", msg.Type).Str("channel", c.GetChannel()).Msg("Received message")

	switch msg.Type {
	case MessageTypeChallenge:
		var data ChallengeData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse challenge data")
			return
		}
		c.handleChallenge(data)

	case MessageTypePlayCard:
		var data PlayCardData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse play card data")
			return
		}
		c.handlePlayCard(data)

	case MessageTypeAbandon:
		var data AbandonData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse abandon data")
			return
		}
		c.handleAbandon(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client.
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to create error message")
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleChallenge(data ChallengeData) {
	c.logger.Info().
		Str("channel_id", data.ChannelID).
		Str("player_id", data.PlayerID).
		Str("personality", data.Personality).
		Msg("Challenge request")

	if c.service == nil {
		c.sendError("service_unavailable", "Battle service not available")
		return
	}
	if data.ChannelID == "" || data.PlayerID == "" {
		c.sendError("invalid_message", "channelId and playerId are required")
		return
	}

	started, err := c.service.Challenge(c.ctx, data)
	if err != nil {
		c.sendError("challenge_failed", err.Error())
		return
	}

	c.SetChannel(data.ChannelID)

	response, _ := NewMessage(MessageTypeBattleStarted, started)
	_ = c.SendMessage(response)
}

func (c *Connection) handlePlayCard(data PlayCardData) {
	c.logger.Info().
		Str("channel_id", data.ChannelID).
		Str("player_id", data.PlayerID).
		Str("card_id", data.CardID).
		Str("position", data.Position).
		Msg("Play card request")

	if c.service == nil {
		c.sendError("service_unavailable", "Battle service not available")
		return
	}

	outcome, err := c.service.PlayCard(data, c.deliverOpponentOutcome(data.ChannelID))
	if err != nil {
		c.sendError("play_failed", err.Error())
		return
	}

	response, err := outcomeMessage(data.ChannelID, outcome)
	if err != nil || response == nil {
		c.sendError("internal_error", "Failed to render move outcome")
		return
	}
	_ = c.SendMessage(response)
}

func (c *Connection) handleAbandon(data AbandonData) {
	c.logger.Info().Str("channel_id", data.ChannelID).Msg("Abandon request")

	if c.service == nil {
		c.sendError("service_unavailable", "Battle service not available")
		return
	}

	if err := c.service.Abandon(data); err != nil {
		c.sendError("abandon_failed", err.Error())
		return
	}

	response, _ := NewMessage(MessageTypeAbandoned, AbandonedData{ChannelID: data.ChannelID})
	_ = c.SendMessage(response)
}

// deliverOpponentOutcome renders a scripted opponent's delayed outcome and
// pushes it down this connection.
func (c *Connection) deliverOpponentOutcome(channelID string) func(opp opponent.Opponent, outcome battle.Outcome) {
	return func(opp opponent.Opponent, outcome battle.Outcome) {
		msg, err := outcomeMessage(channelID, outcome)
		if err != nil {
			c.logger.Error().Err(err).Str("channel_id", channelID).Msg("Failed to render opponent outcome")
			return
		}
		if msg == nil {
			return
		}

		c.logger.Debug().
			Str("channel_id", channelID).
			Str("opponent", opp.Name).
			Stringer("type", msg.Type).
			Msg("Delivering opponent outcome")
		_ = c.SendMessage(msg)
	}
}
