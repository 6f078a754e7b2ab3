package server

import (
	"context"
	"database/sql"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/intensealchemist/DiscordChessBot/internal/config"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/core"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/game"
	gamecommands "github.com/intensealchemist/DiscordChessBot/internal/modules/game/commands"
	gamedomain "github.com/intensealchemist/DiscordChessBot/internal/modules/game/domain"
	gamequeries "github.com/intensealchemist/DiscordChessBot/internal/modules/game/queries"
	ratingqueries "github.com/intensealchemist/DiscordChessBot/internal/modules/rating/queries"
	"github.com/intensealchemist/DiscordChessBot/internal/modules/tournament"
	tournamentcommands "github.com/intensealchemist/DiscordChessBot/internal/modules/tournament/commands"
	tournamentdomain "github.com/intensealchemist/DiscordChessBot/internal/modules/tournament/domain"
	tournamentqueries "github.com/intensealchemist/DiscordChessBot/internal/modules/tournament/queries"

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
	oracle *game.UCIOracle
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

	// long-lived collaborators

	oracle, err := game.NewUCIOracle(config.StockfishPath)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	registry := game.NewRegistry()
	settler := game.NewSettler(game.NewPostgresSettlementStore(db), config.EloKFactor, config.Logger)
	controller := game.NewController(registry, oracle, settler, config.Logger)
	desk := game.NewChallengeDesk(registry, config.ChallengeTimeout)

	machine := tournament.NewMachine(
		tournament.NewPostgresStore(db),
		registry,
		tournament.LogAnnouncer{Logger: config.Logger},
		rng,
		config.Logger,
	)
	settler.AttachReporter(machine)

	// handler registration

	// game

	startGameHandler := gamecommands.NewStartGameCommandHandler(registry, controller, rng)
	err = mediator.RegisterRequestHandler[gamecommands.StartGameCommand, gamecommands.StartGameResponse](
		startGameHandler,
	)
	if err != nil {
		return nil, err
	}

	challengeHandler := gamecommands.NewChallengeCommandHandler(desk)
	err = mediator.RegisterRequestHandler[gamecommands.ChallengeCommand, gamecommands.ChallengeResponse](
		challengeHandler,
	)
	if err != nil {
		return nil, err
	}

	acceptChallengeHandler := gamecommands.NewAcceptChallengeCommandHandler(desk)
	err = mediator.RegisterRequestHandler[gamecommands.AcceptChallengeCommand, core.Unit](
		acceptChallengeHandler,
	)
	if err != nil {
		return nil, err
	}

	declineChallengeHandler := gamecommands.NewDeclineChallengeCommandHandler(desk)
	err = mediator.RegisterRequestHandler[gamecommands.DeclineChallengeCommand, core.Unit](
		declineChallengeHandler,
	)
	if err != nil {
		return nil, err
	}

	submitMoveHandler := gamecommands.NewSubmitMoveCommandHandler(controller)
	err = mediator.RegisterRequestHandler[gamecommands.SubmitMoveCommand, gamedomain.MoveOutcome](
		submitMoveHandler,
	)
	if err != nil {
		return nil, err
	}

	engineMoveHandler := gamecommands.NewEngineMoveCommandHandler(controller)
	err = mediator.RegisterRequestHandler[gamecommands.EngineMoveCommand, gamedomain.MoveOutcome](
		engineMoveHandler,
	)
	if err != nil {
		return nil, err
	}

	resignHandler := gamecommands.NewResignCommandHandler(controller)
	err = mediator.RegisterRequestHandler[gamecommands.ResignCommand, gamecommands.ResignResponse](
		resignHandler,
	)
	if err != nil {
		return nil, err
	}

	exitGameHandler := gamecommands.NewExitGameCommandHandler(controller)
	err = mediator.RegisterRequestHandler[gamecommands.ExitGameCommand, core.Unit](
		exitGameHandler,
	)
	if err != nil {
		return nil, err
	}

	getHintHandler := gamequeries.NewGetHintQueryHandler(registry, oracle)
	err = mediator.RegisterRequestHandler[gamequeries.GetHintQuery, gamequeries.GetHintResponse](
		getHintHandler,
	)
	if err != nil {
		return nil, err
	}

	// rating

	getLeaderboardHandler := ratingqueries.NewGetLeaderboardQueryHandler(db)
	err = mediator.RegisterRequestHandler[ratingqueries.GetLeaderboardQuery, ratingqueries.GetLeaderboardResponse](
		getLeaderboardHandler,
	)
	if err != nil {
		return nil, err
	}

	// tournament

	createTournamentHandler := tournamentcommands.NewCreateTournamentCommandHandler(machine)
	err = mediator.RegisterRequestHandler[tournamentcommands.CreateTournamentCommand, tournamentcommands.CreateTournamentResponse](
		createTournamentHandler,
	)
	if err != nil {
		return nil, err
	}

	joinTournamentHandler := tournamentcommands.NewJoinTournamentCommandHandler(machine)
	err = mediator.RegisterRequestHandler[tournamentcommands.JoinTournamentCommand, core.Unit](
		joinTournamentHandler,
	)
	if err != nil {
		return nil, err
	}

	startTournamentHandler := tournamentcommands.NewStartTournamentCommandHandler(machine)
	err = mediator.RegisterRequestHandler[tournamentcommands.StartTournamentCommand, tournamentcommands.StartTournamentResponse](
		startTournamentHandler,
	)
	if err != nil {
		return nil, err
	}

	getBracketHandler := tournamentqueries.NewGetBracketQueryHandler(machine)
	err = mediator.RegisterRequestHandler[tournamentqueries.GetBracketQuery, tournamentdomain.Bracket](
		getBracketHandler,
	)
	if err != nil {
		return nil, err
	}

	// http

	r := router{
		mux: chi.NewRouter(),
		middleware: []httpMiddleware{
			baseContextMiddleware(baseCtx),
			core.CorrelationIDHTTPMiddleware,
			core.ActorIDHTTPMiddleware,
		},
	}

	r.register(http.MethodPost, "/games", gamecommands.HandleStartGame)
	r.register(http.MethodPost, "/games/actions/move", gamecommands.HandleSubmitMove)
	r.register(http.MethodPost, "/games/actions/engine-move", gamecommands.HandleEngineMove)
	r.register(http.MethodPost, "/games/actions/resign", gamecommands.HandleResign)
	r.register(http.MethodPost, "/games/actions/exit", gamecommands.HandleExitGame)
	r.register(http.MethodGet, "/games/hint", gamequeries.HandleGetHint)

	r.register(http.MethodPost, "/challenges", gamecommands.HandleChallenge)
	r.register(http.MethodPost, "/challenges/actions/accept", gamecommands.HandleAcceptChallenge)
	r.register(http.MethodPost, "/challenges/actions/decline", gamecommands.HandleDeclineChallenge)

	r.register(http.MethodGet, "/leaderboard", ratingqueries.HandleGetLeaderboard)

	r.register(http.MethodPost, "/tournaments", tournamentcommands.HandleCreateTournament)
	r.register(http.MethodPost, "/tournaments/{id}/actions/join", tournamentcommands.HandleJoinTournament)
	r.register(http.MethodPost, "/tournaments/{id}/actions/start", tournamentcommands.HandleStartTournament)
	r.register(http.MethodGet, "/tournaments/{id}/bracket", tournamentqueries.HandleGetBracket)

	server := http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(config.Port)),
		Handler: r.mux,
	}

	return &HTTPServer{server: &server, oracle: oracle}, nil
}

func (s *HTTPServer) Start() error {
	return s.server.ListenAndServe()
}

func (s *HTTPServer) Stop() error {
	if err := s.oracle.Close(); err != nil {
		return err
	}
	return s.server.Close()
}

type httpMiddleware func(http.HandlerFunc) http.HandlerFunc

type router struct {
	mux        *chi.Mux
	middleware []httpMiddleware
}

func (r *router) register(method, pattern string, handler http.HandlerFunc, middleware ...httpMiddleware) {
	h := handler

	allMiddleware := append(r.middleware, middleware...)

	for i := len(allMiddleware) - 1; i >= 0; i-- {
		h = allMiddleware[i](h)
	}

	r.mux.Method(method, pattern, h)
}

func baseContextMiddleware(baseCtx context.Context) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			baseCtx := baseCtx

			if v, ok := ctx.Value(http.ServerContextKey).(*http.Server); ok {
				baseCtx = context.WithValue(baseCtx, http.ServerContextKey, v)
			}

			if v, ok := ctx.Value(http.LocalAddrContextKey).(net.Addr); ok {
				baseCtx = context.WithValue(baseCtx, http.LocalAddrContextKey, v)
			}

			// chi resolves URL params through the request context.
			if v := ctx.Value(chi.RouteCtxKey); v != nil {
				baseCtx = context.WithValue(baseCtx, chi.RouteCtxKey, v)
			}

			next.ServeHTTP(w, r.WithContext(baseCtx))
		}
	}
}
