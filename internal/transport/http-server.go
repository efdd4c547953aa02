package transport

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/starwars-back/internal/config"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/models"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/service"
)

var (
	Module = fx.Provide(
		NewHTTPServer,
	)
)

type (
	MsgResp struct {
		Msg string `json:"msg"`
	}

	ResultResp struct {
		Msg    string      `json:"msg"`
		Result interface{} `json:"result"`
	}

	UsersResp struct {
		Msg   string            `json:"msg"`
		Users []models.UserResp `json:"users"`
	}

	FavouritesResp struct {
		Msg       string                 `json:"msg"`
		Favourite []models.FavouriteResp `json:"favourite"`
	}

	// Route is one entry of the routing table, also served as the root manifest.
	Route struct {
		Method  string           `json:"method"`
		Path    string           `json:"path"`
		Handler echo.HandlerFunc `json:"-"`
	}

	ManifestResp struct {
		Msg    string  `json:"msg"`
		Routes []Route `json:"routes"`
	}

	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		svc    *service.General
		logger *zap.SugaredLogger
		e      *echo.Echo
		routes []Route
	}
)

func NewHTTPServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, svc *service.General, logger *zap.SugaredLogger) *HTTPServer {
	instance := New(svc, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.HTTPAddr()
				logger.Infow("Starting HTTP server.", "addr", listen)
				if err := instance.e.Start(listen); err != nil && err != http.ErrServerClosed {
					logger.Errorw("HTTP server failed", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return instance.e.Shutdown(ctx)
		},
	})

	return instance
}

// New builds the echo instance with every route and middleware registered.
func New(svc *service.General, logger *zap.SugaredLogger) *HTTPServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	instance := &HTTPServer{
		svc:    svc,
		logger: logger,
		e:      e,
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: newRequestID,
	}))
	e.Use(requestLogger(logger))
	e.Use(bodyDump(logger))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = instance.errorHandler

	instance.routes = instance.routeTable()
	for _, r := range instance.routes {
		e.Add(r.Method, r.Path, r.Handler)
	}
	e.GET("/", instance.Manifest)

	return instance
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *HTTPServer) routeTable() []Route {
	routes := []Route{
		{Method: http.MethodGet, Path: "/ping", Handler: s.Ping},
		{Method: http.MethodPost, Path: "/signup", Handler: s.Signup},
		{Method: http.MethodGet, Path: "/users", Handler: s.Users},

		{Method: http.MethodGet, Path: "/characters", Handler: s.Characters},
		{Method: http.MethodGet, Path: "/characters/:id", Handler: s.Character},
		{Method: http.MethodPost, Path: "/characters", Handler: s.CharacterCreate},

		{Method: http.MethodGet, Path: "/planets", Handler: s.Planets},
		{Method: http.MethodGet, Path: "/planets/:id", Handler: s.Planet},
		{Method: http.MethodPost, Path: "/planets", Handler: s.PlanetCreate},

		{Method: http.MethodGet, Path: "/vehicles", Handler: s.Vehicles},
		{Method: http.MethodGet, Path: "/vehicles/:id", Handler: s.Vehicle},
		{Method: http.MethodPost, Path: "/vehicles", Handler: s.VehicleCreate},

		{Method: http.MethodGet, Path: "/user/:id/favorites", Handler: s.Favourites},
	}
	for _, kind := range models.TargetKinds {
		path := "/user/:id/favorites/" + kind.Plural() + "/:target_id"
		routes = append(routes,
			Route{Method: http.MethodPost, Path: path, Handler: s.FavouriteCreate(kind)},
			Route{Method: http.MethodDelete, Path: path, Handler: s.FavouriteDelete(kind)},
		)
	}
	return routes
}

func (s *HTTPServer) Manifest(c echo.Context) error {
	return c.JSON(http.StatusOK, ManifestResp{Msg: "ok", Routes: s.routes})
}

func (s *HTTPServer) Ping(c echo.Context) error {
	return c.String(http.StatusOK, "pong")
}

func (s *HTTPServer) Signup(c echo.Context) error {
	req := models.SignupReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := s.svc.Signup(c.Request().Context(), req.Name, req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MsgResp{Msg: "The user was added"})
}

func (s *HTTPServer) Users(c echo.Context) error {
	users, err := s.svc.Users(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, UsersResp{
		Msg:   "ok",
		Users: models.MapResp(users, models.NewUserResp),
	})
}

func (s *HTTPServer) Characters(c echo.Context) error {
	characters, err := s.svc.Characters(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ResultResp{Msg: "ok", Result: models.MapResp(characters, models.NewCharacterResp)})
}

func (s *HTTPServer) Character(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	character, err := s.svc.Character(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ResultResp{Msg: "ok", Result: models.NewCharacterResp(character)})
}

func (s *HTTPServer) CharacterCreate(c echo.Context) error {
	req := models.CharacterReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := s.svc.CharacterCreate(c.Request().Context(), req.ToModel()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MsgResp{Msg: "Character added"})
}

func (s *HTTPServer) Planets(c echo.Context) error {
	planets, err := s.svc.Planets(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ResultResp{Msg: "ok", Result: models.MapResp(planets, models.NewPlanetResp)})
}

func (s *HTTPServer) Planet(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	planet, err := s.svc.Planet(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ResultResp{Msg: "ok", Result: models.NewPlanetResp(planet)})
}

func (s *HTTPServer) PlanetCreate(c echo.Context) error {
	req := models.PlanetReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := s.svc.PlanetCreate(c.Request().Context(), req.ToModel()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MsgResp{Msg: "Planet added"})
}

func (s *HTTPServer) Vehicles(c echo.Context) error {
	vehicles, err := s.svc.Vehicles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ResultResp{Msg: "ok", Result: models.MapResp(vehicles, models.NewVehicleResp)})
}

func (s *HTTPServer) Vehicle(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	vehicle, err := s.svc.Vehicle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ResultResp{Msg: "ok", Result: models.NewVehicleResp(vehicle)})
}

func (s *HTTPServer) VehicleCreate(c echo.Context) error {
	req := models.VehicleReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := s.svc.VehicleCreate(c.Request().Context(), req.ToModel()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MsgResp{Msg: "Vehicle added"})
}

func (s *HTTPServer) Favourites(c echo.Context) error {
	userID, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	favourites, err := s.svc.Favourites(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, FavouritesResp{Msg: "ok", Favourite: favourites})
}

func (s *HTTPServer) FavouriteCreate(kind models.TargetKind) echo.HandlerFunc {
	msg := "Favorite " + string(kind) + " added"
	return func(c echo.Context) error {
		userID, target, err := getFavouriteParams(c, kind)
		if err != nil {
			return err
		}

		req := models.FavouriteReq{}
		if err := BindAndValidate(c, &req); err != nil {
			return err
		}

		if _, err := s.svc.FavouriteCreate(c.Request().Context(), userID, target, req.URL); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, MsgResp{Msg: msg})
	}
}

func (s *HTTPServer) FavouriteDelete(kind models.TargetKind) echo.HandlerFunc {
	msg := "Favorite " + string(kind) + " deleted"
	return func(c echo.Context) error {
		userID, target, err := getFavouriteParams(c, kind)
		if err != nil {
			return err
		}

		if err := s.svc.FavouriteDelete(c.Request().Context(), userID, target); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, MsgResp{Msg: msg})
	}
}

////////

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func BindAndValidate(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.Validate(v)
}

func GetParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if value == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return value, nil
}

func GetAndParseParam(c echo.Context, name string) (uint64, error) {
	v, err := GetParam(c, name)
	if err != nil {
		return 0, err
	}
	// ids are stored as signed 64 bit integers
	vv, err := strconv.ParseUint(v, 10, 63)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return vv, nil
}

func getFavouriteParams(c echo.Context, kind models.TargetKind) (uint64, models.FavouriteTarget, error) {
	userID, err := GetAndParseParam(c, "id")
	if err != nil {
		return 0, models.FavouriteTarget{}, err
	}
	targetID, err := GetAndParseParam(c, "target_id")
	if err != nil {
		return 0, models.FavouriteTarget{}, err
	}
	return userID, models.FavouriteTarget{Kind: kind, ID: targetID}, nil
}
