package db

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/starwars-back/internal/models"
)

var favouriteColumns = []string{
	"id", "created_at", "updated_at", "user_id", "url", "character_id", "planet_id", "vehicle_id",
}

// Repository runs every query against an explicitly passed *gorm.DB, so the same
// functions work on the pool and inside a transaction.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db")
	}
	return sqlDB.PingContext(ctx)
}

// LockKey blocks until no other transaction holds key, and keeps it until tx ends.
// SQLite runs on a single connection and needs no lock.
func LockKey(tx *gorm.DB, key string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
		return errors.Wrap(translateError(err), "advisory lock")
	}
	return nil
}

func FindByID[T any](tx *gorm.DB, id uint64) (*T, error) {
	var model T
	if err := tx.First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &model, nil
}

// FindByName looks a record up by its name column. A nil name matches rows without a name.
func FindByName[T any](tx *gorm.DB, name *string) (*T, error) {
	var model T
	q := tx.Where("name IS NULL")
	if name != nil {
		q = tx.Where("name = ?", *name)
	}
	if err := q.First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return &model, nil
}

func ListAll[T any](tx *gorm.DB) ([]T, error) {
	items := make([]T, 0)
	if err := tx.Order("id").Find(&items).Error; err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

func Create(tx *gorm.DB, model interface{}) error {
	return translateError(tx.Create(model).Error)
}

func FindUserByEmail(tx *gorm.DB, email string) (*models.User, error) {
	user := models.User{}
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func ListFavourites(tx *gorm.DB, userID uint64) ([]models.Favourite, error) {
	sql, args, err := squirrel.
		Select(favouriteColumns...).From("favourites").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	favourites := make([]models.Favourite, 0)
	if err := tx.Raw(sql, args...).Scan(&favourites).Error; err != nil {
		return nil, errors.Wrap(translateError(err), "scan")
	}

	return favourites, nil
}

// DeleteFavourite removes the oldest favourite of userID pointing at target.
func DeleteFavourite(tx *gorm.DB, userID uint64, target models.FavouriteTarget) error {
	if _, err := models.ParseTargetKind(target.Kind.Plural()); err != nil {
		return err
	}

	fav := models.Favourite{}
	res := tx.
		Where("user_id = ?", userID).
		Where(target.Kind.Column()+" = ?", target.ID).
		Order("id").
		First(&fav)
	if res.Error != nil {
		return translateError(res.Error)
	}

	if err := tx.Delete(&fav).Error; err != nil {
		return errors.Wrap(translateError(err), "delete favourite")
	}
	return nil
}
