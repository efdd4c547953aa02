package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/starwars-back/internal/config"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/db"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/models"
)

var (
	Module = fx.Provide(
		NewGeneral,
	)
)

var (
	ErrEmailTaken         = errors.New("There is a user with that email")
	ErrCharacterNameTaken = errors.New("There is a character with that name")
	ErrPlanetNameTaken    = errors.New("There is a planet with that name")
	ErrVehicleNameTaken   = errors.New("There is a vehicle with that name")

	ErrUserNotFound      = errors.New("user not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrPlanetNotFound    = errors.New("planet not found")
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrFavouriteNotFound = errors.New("favourite not found")

	ErrBrokenReference = errors.New("favourite references a missing entity")
)

var targetNotFound = map[models.TargetKind]error{
	models.TargetCharacter: ErrCharacterNotFound,
	models.TargetPlanet:    ErrPlanetNotFound,
	models.TargetVehicle:   ErrVehicleNotFound,
}

type General struct {
	repo       *db.Repository
	logger     *zap.SugaredLogger
	bcryptCost int
}

func NewGeneral(repo *db.Repository, cfg *config.Config, l *zap.SugaredLogger) *General {
	return &General{
		repo:       repo,
		logger:     l,
		bcryptCost: cfg.BcryptCost,
	}
}

// Signup stores a new user unless the email is already registered. The check and the
// insert share one transaction; a lost race surfaces as the unique index violation.
func (s *General) Signup(ctx context.Context, name, email, pass string) (*models.User, error) {
	hash, err := s.bcryptGen(pass)
	if err != nil {
		return nil, errors.Wrap(err, "bcryptGen")
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		_, err := db.FindUserByEmail(tx, email)
		switch {
		case err == nil:
			return ErrEmailTaken
		case !errors.Is(err, db.ErrNotFound):
			return errors.Wrap(err, "find user by email")
		}

		if err := db.Create(tx, &user); err != nil {
			if errors.Is(err, db.ErrConstraintViolation) {
				return ErrEmailTaken
			}
			return errors.Wrap(err, "create user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("user signed up", "user_id", user.ID)
	return &user, nil
}

func (s *General) Users(ctx context.Context) ([]models.User, error) {
	return db.ListAll[models.User](s.repo.Conn(ctx))
}

func (s *General) Characters(ctx context.Context) ([]models.Character, error) {
	return db.ListAll[models.Character](s.repo.Conn(ctx))
}

func (s *General) Character(ctx context.Context, id uint64) (*models.Character, error) {
	return findOne[models.Character](s.repo.Conn(ctx), id, ErrCharacterNotFound)
}

func (s *General) CharacterCreate(ctx context.Context, model *models.Character) error {
	return createNamed(ctx, s, model, model.Name, models.TargetCharacter, ErrCharacterNameTaken)
}

func (s *General) Planets(ctx context.Context) ([]models.Planet, error) {
	return db.ListAll[models.Planet](s.repo.Conn(ctx))
}

func (s *General) Planet(ctx context.Context, id uint64) (*models.Planet, error) {
	return findOne[models.Planet](s.repo.Conn(ctx), id, ErrPlanetNotFound)
}

func (s *General) PlanetCreate(ctx context.Context, model *models.Planet) error {
	return createNamed(ctx, s, model, model.Name, models.TargetPlanet, ErrPlanetNameTaken)
}

func (s *General) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	return db.ListAll[models.Vehicle](s.repo.Conn(ctx))
}

func (s *General) Vehicle(ctx context.Context, id uint64) (*models.Vehicle, error) {
	return findOne[models.Vehicle](s.repo.Conn(ctx), id, ErrVehicleNotFound)
}

func (s *General) VehicleCreate(ctx context.Context, model *models.Vehicle) error {
	return createNamed(ctx, s, model, model.Name, models.TargetVehicle, ErrVehicleNameTaken)
}

// Favourites returns the serialized favourites of userID in insertion order.
func (s *General) Favourites(ctx context.Context, userID uint64) ([]models.FavouriteResp, error) {
	var resp []models.FavouriteResp
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findOne[models.User](tx, userID, ErrUserNotFound); err != nil {
			return err
		}

		favourites, err := db.ListFavourites(tx, userID)
		if err != nil {
			return errors.Wrap(err, "list favourites")
		}

		resp = make([]models.FavouriteResp, len(favourites))
		for i := range favourites {
			if resp[i], err = s.SerializeFavourite(tx, &favourites[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SerializeFavourite inlines the favourite's target under Info. A favourite whose target
// is gone fails with ErrBrokenReference instead of producing a null Info.
func (s *General) SerializeFavourite(tx *gorm.DB, fav *models.Favourite) (models.FavouriteResp, error) {
	target, err := fav.Target()
	if err != nil {
		return models.FavouriteResp{}, errors.Wrap(ErrBrokenReference, err.Error())
	}

	info, err := findTarget(tx, target)
	if err != nil {
		if errors.Is(err, targetNotFound[target.Kind]) {
			s.logger.Errorw("dangling favourite", "favourite_id", fav.ID, "kind", target.Kind, "target_id", target.ID)
			return models.FavouriteResp{}, errors.Wrapf(ErrBrokenReference, "favourite %d: %s %d", fav.ID, target.Kind, target.ID)
		}
		return models.FavouriteResp{}, err
	}

	return models.NewFavouriteResp(fav, info), nil
}

func (s *General) FavouriteCreate(ctx context.Context, userID uint64, target models.FavouriteTarget, url *string) (*models.Favourite, error) {
	fav, err := models.NewFavourite(userID, target, url)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findOne[models.User](tx, userID, ErrUserNotFound); err != nil {
			return err
		}
		if _, err := findTarget(tx, target); err != nil {
			return err
		}
		return db.Create(tx, fav)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("favourite added", "user_id", userID, "kind", target.Kind, "target_id", target.ID)
	return fav, nil
}

func (s *General) FavouriteDelete(ctx context.Context, userID uint64, target models.FavouriteTarget) error {
	return s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := findOne[models.User](tx, userID, ErrUserNotFound); err != nil {
			return err
		}

		err := db.DeleteFavourite(tx, userID, target)
		if errors.Is(err, db.ErrNotFound) {
			return ErrFavouriteNotFound
		}
		return err
	})
}

func (s *General) bcryptGen(pass string) (string, error) {
	passwordHashB, err := bcrypt.GenerateFromPassword([]byte(pass), s.bcryptCost)
	if err != nil {
		return "", errors.Wrap(err, "generate password hash")
	}
	return string(passwordHashB), nil
}

func findOne[T any](tx *gorm.DB, id uint64, notFound error) (*T, error) {
	model, err := db.FindByID[T](tx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, notFound
	}
	return model, err
}

func findTarget(tx *gorm.DB, target models.FavouriteTarget) (interface{}, error) {
	notFound := targetNotFound[target.Kind]
	switch target.Kind {
	case models.TargetCharacter:
		c, err := findOne[models.Character](tx, target.ID, notFound)
		if err != nil {
			return nil, err
		}
		return models.NewCharacterResp(c), nil
	case models.TargetPlanet:
		p, err := findOne[models.Planet](tx, target.ID, notFound)
		if err != nil {
			return nil, err
		}
		return models.NewPlanetResp(p), nil
	case models.TargetVehicle:
		v, err := findOne[models.Vehicle](tx, target.ID, notFound)
		if err != nil {
			return nil, err
		}
		return models.NewVehicleResp(v), nil
	}
	return nil, errors.Wrap(models.ErrUnknownTargetKind, string(target.Kind))
}

// createNamed inserts model unless another record of the same kind already uses name.
// Creates of one kind are serialised since no index covers the name.
func createNamed[T any](ctx context.Context, s *General, model *T, name *string, kind models.TargetKind, taken error) error {
	return s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := db.LockKey(tx, kind.Plural()); err != nil {
			return err
		}

		_, err := db.FindByName[T](tx, name)
		switch {
		case err == nil:
			return taken
		case !errors.Is(err, db.ErrNotFound):
			return errors.Wrap(err, "find by name")
		}
		return db.Create(tx, model)
	})
}
