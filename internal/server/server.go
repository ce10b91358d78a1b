package server

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/eskrenkovic/plaza-go/internal/config"
	"github.com/eskrenkovic/plaza-go/internal/modules/core"
	"github.com/eskrenkovic/plaza-go/internal/modules/minigame"
	"github.com/eskrenkovic/plaza-go/internal/modules/personalroom"
	"github.com/eskrenkovic/plaza-go/internal/modules/plaza"
	"github.com/eskrenkovic/plaza-go/internal/modules/presence"
	"github.com/eskrenkovic/plaza-go/internal/realtime"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/migrate-go"
	"github.com/go-chi/chi"
	_ "github.com/lib/pq"
)

type Server interface {
	Start() error
	Stop() error
}

var _ Server = &HTTPServer{}

// HTTPServer acts as the composition root for the application.
type HTTPServer struct {
	server *http.Server
	db     *sql.DB
}

func NewHTTPServer(config config.Config) (Server, error) {
	baseCtx := context.Background()

	core.SetLogger(config.Logger)

	db, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := migrate.Run(baseCtx, db, config.MigrationsPath); err != nil {
		return nil, err
	}

	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: config.Logger}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: config.Logger}
	requestValidationBehavior := core.RequestValidationBehavior{}

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)

	hub := realtime.NewHub(config.Logger)

	tracker := presence.NewTracker()
	personalRooms := personalroom.NewRegistry(config.Logger)
	minigames := minigame.NewRegistry(hub, config.Logger)

	// handler registration

	// presence

	joinPlazaHandler := presence.NewJoinPlazaCommandHandler(tracker, hub, config.Logger)
	err = mediator.RegisterRequestHandler[presence.JoinPlazaCommand, presence.PlayerEvent](
		joinPlazaHandler,
	)
	if err != nil {
		return nil, err
	}

	disconnectHandler := presence.NewDisconnectCommandHandler(
		tracker,
		personalRooms,
		config.DeleteRoomsOnDisconnect,
		hub,
		config.Logger,
	)
	err = mediator.RegisterRequestHandler[presence.DisconnectCommand, core.Unit](
		disconnectHandler,
	)
	if err != nil {
		return nil, err
	}

	// personal rooms

	createRoomHandler := personalroom.NewCreateRoomCommandHandler(personalRooms, hub)
	err = mediator.RegisterRequestHandler[personalroom.CreateRoomCommand, personalroom.Room](
		createRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	deleteRoomHandler := personalroom.NewDeleteRoomCommandHandler(personalRooms, hub)
	err = mediator.RegisterRequestHandler[personalroom.DeleteRoomCommand, core.Unit](
		deleteRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	getRoomsHandler := personalroom.NewGetRoomsQueryHandler(personalRooms)
	err = mediator.RegisterRequestHandler[personalroom.GetRoomsQuery, []personalroom.Room](
		getRoomsHandler,
	)
	if err != nil {
		return nil, err
	}

	getNearbyRoomsHandler := personalroom.NewGetNearbyRoomsQueryHandler(personalRooms)
	err = mediator.RegisterRequestHandler[personalroom.GetNearbyRoomsQuery, []personalroom.Room](
		getNearbyRoomsHandler,
	)
	if err != nil {
		return nil, err
	}

	getRoomHandler := personalroom.NewGetRoomQueryHandler(personalRooms)
	err = mediator.RegisterRequestHandler[personalroom.GetRoomQuery, personalroom.Room](
		getRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	getRoomCountHandler := personalroom.NewGetRoomCountQueryHandler(personalRooms)
	err = mediator.RegisterRequestHandler[personalroom.GetRoomCountQuery, int](
		getRoomCountHandler,
	)
	if err != nil {
		return nil, err
	}

	// plaza

	chatHandler := plaza.NewChatCommandHandler(db, hub, config.Logger)
	err = mediator.RegisterRequestHandler[plaza.ChatCommand, plaza.ChatMessage](
		chatHandler,
	)
	if err != nil {
		return nil, err
	}

	positionHandler := plaza.NewPositionCommandHandler(hub)
	err = mediator.RegisterRequestHandler[plaza.PositionCommand, core.Unit](
		positionHandler,
	)
	if err != nil {
		return nil, err
	}

	recentMessagesHandler := plaza.NewGetRecentMessagesQueryHandler(db)
	err = mediator.RegisterRequestHandler[plaza.GetRecentMessagesQuery, []plaza.ChatMessage](
		recentMessagesHandler,
	)
	if err != nil {
		return nil, err
	}

	// minigame

	createGameRoomHandler := minigame.NewCreateGameRoomCommandHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.CreateGameRoomCommand, minigame.RoomState](
		createGameRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	joinGameRoomHandler := minigame.NewJoinGameRoomCommandHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.JoinGameRoomCommand, minigame.JoinResult](
		joinGameRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	leaveGameRoomHandler := minigame.NewLeaveGameRoomCommandHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.LeaveGameRoomCommand, core.Unit](
		leaveGameRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	updateGameRoomHandler := minigame.NewUpdateGameRoomCommandHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.UpdateGameRoomCommand, minigame.RoomState](
		updateGameRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	toggleReadyHandler := minigame.NewToggleReadyCommandHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.ToggleReadyCommand, minigame.RoomState](
		toggleReadyHandler,
	)
	if err != nil {
		return nil, err
	}

	switchRoleHandler := minigame.NewSwitchRoleCommandHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.SwitchRoleCommand, minigame.RoomState](
		switchRoleHandler,
	)
	if err != nil {
		return nil, err
	}

	startGameHandler := minigame.NewStartGameCommandHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.StartGameCommand, minigame.RoomState](
		startGameHandler,
	)
	if err != nil {
		return nil, err
	}

	gameEventHandler := minigame.NewGameEventCommandHandler(minigames)
	err = mediator.RegisterRequestHandler[minigame.GameEventCommand, core.Unit](
		gameEventHandler,
	)
	if err != nil {
		return nil, err
	}

	roomStateHandler := minigame.NewRoomStateCommandHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.RoomStateCommand, minigame.RoomState](
		roomStateHandler,
	)
	if err != nil {
		return nil, err
	}

	roomChatHandler := minigame.NewRoomChatCommandHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.RoomChatCommand, core.Unit](
		roomChatHandler,
	)
	if err != nil {
		return nil, err
	}

	inviteHandler := minigame.NewInviteCommandHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.InviteCommand, core.Unit](
		inviteHandler,
	)
	if err != nil {
		return nil, err
	}

	listGameRoomsHandler := minigame.NewListGameRoomsQueryHandler(minigames, hub)
	err = mediator.RegisterRequestHandler[minigame.ListGameRoomsQuery, []minigame.RoomState](
		listGameRoomsHandler,
	)
	if err != nil {
		return nil, err
	}

	// http

	dispatcher := realtime.NewDispatcher(config.Logger)
	wsHandler := realtime.NewHandler(hub, dispatcher, config.Logger)

	router := chi.NewRouter()
	router.Use(core.CorrelationIDHTTPMiddleware)

	router.Get("/api/rooms", personalroom.HandleGetRooms)
	router.Get("/api/rooms/nearby", personalroom.HandleGetNearbyRooms)
	router.Get("/api/rooms/count", personalroom.HandleGetRoomCount)
	router.Get("/api/rooms/{room_id}", personalroom.HandleGetRoom)
	router.Get("/api/chat/messages", plaza.HandleGetRecentMessages)
	router.Handle("/ws", wsHandler)

	server := http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(config.Port)),
		Handler: router,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}

	return &HTTPServer{server: &server, db: db}, nil
}

func (s *HTTPServer) Start() error {
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	return s.db.Close()
}
