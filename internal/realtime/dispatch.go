package realtime

import (
	"context"
	"encoding/json"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/plaza-go/internal/modules/core"
	"github.com/eskrenkovic/plaza-go/internal/modules/minigame"
	"github.com/eskrenkovic/plaza-go/internal/modules/personalroom"
	"github.com/eskrenkovic/plaza-go/internal/modules/plaza"
	"github.com/eskrenkovic/plaza-go/internal/modules/presence"

	"go.uber.org/zap"
)

// commandEnvelope is the inbound wire frame. Topic only matters for the
// subscription commands; everything else routes on type alone.
type commandEnvelope struct {
	Type    string          `json:"type"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Dispatcher turns inbound websocket frames into mediator commands. A frame
// that fails to parse or a command that errors is logged and dropped; the
// connection itself stays up.
type Dispatcher struct {
	logger *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, client *Client, raw []byte) {
	var envelope commandEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		d.logger.Warn("unparseable command frame",
			zap.String("connection_id", client.ID()),
			zap.Error(err))
		return
	}

	var err error

	switch envelope.Type {
	case "subscribe":
		client.hub.Subscribe(envelope.Topic, client)
	case "unsubscribe":
		client.hub.Unsubscribe(envelope.Topic, client)

	case "player.join":
		var command presence.JoinPlazaCommand
		if err = json.Unmarshal(envelope.Payload, &command); err == nil {
			command.ConnectionID = client.ID()
			_, err = mediator.Send[presence.JoinPlazaCommand, presence.PlayerEvent](ctx, command)
		}
	case "player.position":
		err = send[plaza.PositionCommand, core.Unit](ctx, envelope.Payload)
	case "chat.message":
		err = send[plaza.ChatCommand, plaza.ChatMessage](ctx, envelope.Payload)

	case "room.create":
		err = send[personalroom.CreateRoomCommand, personalroom.Room](ctx, envelope.Payload)
	case "room.delete":
		err = send[personalroom.DeleteRoomCommand, core.Unit](ctx, envelope.Payload)

	case "minigame.room.create":
		err = send[minigame.CreateGameRoomCommand, minigame.RoomState](ctx, envelope.Payload)
	case "minigame.room.join":
		err = send[minigame.JoinGameRoomCommand, minigame.JoinResult](ctx, envelope.Payload)
	case "minigame.room.leave":
		err = send[minigame.LeaveGameRoomCommand, core.Unit](ctx, envelope.Payload)
	case "minigame.room.update":
		err = send[minigame.UpdateGameRoomCommand, minigame.RoomState](ctx, envelope.Payload)
	case "minigame.room.ready":
		err = send[minigame.ToggleReadyCommand, minigame.RoomState](ctx, envelope.Payload)
	case "minigame.room.switchRole":
		err = send[minigame.SwitchRoleCommand, minigame.RoomState](ctx, envelope.Payload)
	case "minigame.room.start":
		err = send[minigame.StartGameCommand, minigame.RoomState](ctx, envelope.Payload)
	case "minigame.room.state":
		err = send[minigame.RoomStateCommand, minigame.RoomState](ctx, envelope.Payload)
	case "minigame.room.chat":
		err = send[minigame.RoomChatCommand, core.Unit](ctx, envelope.Payload)
	case "minigame.invite":
		err = send[minigame.InviteCommand, core.Unit](ctx, envelope.Payload)
	case "minigame.rooms.list":
		_, err = mediator.Send[minigame.ListGameRoomsQuery, []minigame.RoomState](ctx, minigame.ListGameRoomsQuery{})
	case "minigame.room.game":
		var event minigame.GameEvent
		if err = json.Unmarshal(envelope.Payload, &event); err == nil {
			_, err = mediator.Send[minigame.GameEventCommand, core.Unit](ctx, minigame.GameEventCommand{Event: event})
		}

	default:
		d.logger.Warn("unknown command type",
			zap.String("connection_id", client.ID()),
			zap.String("type", envelope.Type))
		return
	}

	if err != nil {
		d.logger.Warn("command failed",
			zap.String("connection_id", client.ID()),
			zap.String("type", envelope.Type),
			zap.Error(err))
	}
}

// Disconnected runs the connection-close cleanup command.
func (d *Dispatcher) Disconnected(ctx context.Context, client *Client) {
	command := presence.DisconnectCommand{ConnectionID: client.ID()}
	if _, err := mediator.Send[presence.DisconnectCommand, core.Unit](ctx, command); err != nil {
		d.logger.Error("disconnect cleanup failed",
			zap.String("connection_id", client.ID()),
			zap.Error(err))
	}
}

func send[TCommand any, TResponse any](ctx context.Context, payload json.RawMessage) error {
	var command TCommand
	if err := json.Unmarshal(payload, &command); err != nil {
		return err
	}

	_, err := mediator.Send[TCommand, TResponse](ctx, command)
	return err
}
